package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/cinescope/internal/domain"
)

// Rank reorders remote search results so the closest titles come first.
// The catalog orders by popularity; a user typing an exact title expects it on top.
func Rank(query string, movies []domain.Movie) []domain.Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(movies) < 2 {
		return movies
	}

	type ranked struct {
		movie domain.Movie
		score int
	}
	list := make([]ranked, len(movies))
	for i, m := range movies {
		list[i] = ranked{movie: m, score: matchScore(query, strings.ToLower(m.Title))}
	}

	// Stable keeps catalog order among equal scores
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score < list[j].score
	})

	out := make([]domain.Movie, len(list))
	for i, r := range list {
		out[i] = r.movie
	}
	return out
}

// matchScore scores title against query; lower is better
func matchScore(query, title string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	}

	if ranks := fuzzy.RankFindFold(query, []string{title}); len(ranks) > 0 {
		return 100 + ranks[0].Distance
	}
	return 1000 + fuzzy.LevenshteinDistance(query, title)
}
