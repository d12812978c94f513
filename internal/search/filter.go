package search

import (
	"strings"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Match is a movie that matched a filter query
type Match struct {
	Movie          domain.Movie
	MatchedIndexes []int // Byte offsets in the title, for highlighting
	Score          int   // Higher is better
}

// titleSource implements fuzzy.Source over lowercase movie titles
type titleSource []string

func (s titleSource) String(i int) string { return s[i] }
func (s titleSource) Len() int            { return len(s) }

// Filter narrows movies to those whose title fuzzy-matches query, best first.
// An empty query returns every movie with no highlighting.
func Filter(query string, movies []domain.Movie) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]Match, len(movies))
		for i, m := range movies {
			all[i] = Match{Movie: m}
		}
		return all
	}

	titles := make(titleSource, len(movies))
	for i, m := range movies {
		titles[i] = strings.ToLower(m.Title)
	}

	found := fuzzy.FindFrom(strings.ToLower(query), titles)
	matches := make([]Match, len(found))
	for i, f := range found {
		matches[i] = Match{
			Movie:          movies[f.Index],
			MatchedIndexes: f.MatchedIndexes,
			Score:          f.Score,
		}
	}
	return matches
}
