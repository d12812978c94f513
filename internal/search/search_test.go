package search

import (
	"testing"

	"github.com/mmcdole/cinescope/internal/domain"
)

func movies(titles ...string) []domain.Movie {
	out := make([]domain.Movie, len(titles))
	for i, t := range titles {
		out[i] = domain.Movie{ID: int64(i + 1), Title: t}
	}
	return out
}

func TestFilter(t *testing.T) {
	list := movies("The Matrix", "Inception", "The Matrix Reloaded", "Interstellar")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty keeps all", "", []string{"The Matrix", "Inception", "The Matrix Reloaded", "Interstellar"}},
		{"case insensitive", "MATRIX", []string{"The Matrix", "The Matrix Reloaded"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.query, list)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) returned %d matches, want %d", tt.query, len(got), len(tt.want))
			}
			seen := make(map[string]bool)
			for _, m := range got {
				seen[m.Movie.Title] = true
			}
			for _, title := range tt.want {
				if !seen[title] {
					t.Errorf("Filter(%q) missing %q", tt.query, title)
				}
			}
		})
	}
}

func TestFilter_Highlights(t *testing.T) {
	got := Filter("inc", movies("Inception"))
	if len(got) != 1 {
		t.Fatalf("Filter() = %+v", got)
	}
	want := []int{0, 1, 2}
	for i, idx := range want {
		if got[0].MatchedIndexes[i] != idx {
			t.Errorf("MatchedIndexes = %v, want prefix %v", got[0].MatchedIndexes, want)
		}
	}
}

func TestFilter_EmptyQueryKeepsOrder(t *testing.T) {
	got := Filter("  ", movies("A", "B"))
	if len(got) != 2 || got[0].Movie.Title != "A" || got[1].Movie.Title != "B" {
		t.Errorf("Filter() = %+v", got)
	}
	if got[0].MatchedIndexes != nil {
		t.Error("empty query should not highlight")
	}
}

func TestRank(t *testing.T) {
	list := movies("Alien vs. Predator", "Aliens", "Alien", "Resurrection of the Alien")
	got := Rank("alien", list)

	if got[0].Title != "Alien" {
		t.Errorf("Rank()[0] = %q, want exact match first", got[0].Title)
	}
	// Both prefix matches keep catalog order
	if got[1].Title != "Alien vs. Predator" || got[2].Title != "Aliens" {
		t.Errorf("Rank() = %v", titles(got))
	}
	if got[3].Title != "Resurrection of the Alien" {
		t.Errorf("Rank()[3] = %q, want substring match last", got[3].Title)
	}
}

func TestRank_Typos(t *testing.T) {
	list := movies("Something Else", "Godfather")
	got := Rank("godfathr", list)
	if got[0].Title != "Godfather" {
		t.Errorf("Rank() = %v, want closest title first", titles(got))
	}
}

func TestRank_EmptyQuery(t *testing.T) {
	list := movies("B", "A")
	got := Rank("  ", list)
	if got[0].Title != "B" {
		t.Errorf("Rank() reordered with empty query: %v", titles(got))
	}
}

func titles(ms []domain.Movie) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Title
	}
	return out
}
