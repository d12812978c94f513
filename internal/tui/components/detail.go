package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/cinescope/internal/catalog"
	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/tui/styles"
)

const (
	maxCastShown    = 6
	maxSimilarShown = 5
	maxReviewsShown = 3
)

// Detail shows one movie with cast, similar titles and reviews
type Detail struct {
	movieID int64
	detail  *catalog.MovieDetail
	reviews []domain.Review
	loading bool
	errText string

	inWatchlist bool
	width       int
	height      int
}

// NewDetail creates an empty detail panel
func NewDetail() Detail {
	return Detail{}
}

// Open starts showing a movie; content arrives via SetDetail
func (d *Detail) Open(movieID int64) {
	d.movieID = movieID
	d.detail = nil
	d.reviews = nil
	d.errText = ""
	d.loading = true
}

// Close hides the panel
func (d *Detail) Close() {
	*d = Detail{width: d.width, height: d.height}
}

// MovieID returns the movie being shown, 0 when closed
func (d Detail) MovieID() int64 { return d.movieID }

// IsOpen reports whether a movie is being shown
func (d Detail) IsOpen() bool { return d.movieID != 0 }

// Movie returns the loaded movie, if any
func (d Detail) Movie() (domain.Movie, bool) {
	if d.detail == nil {
		return domain.Movie{}, false
	}
	return d.detail.Movie, true
}

// SetDetail fills in the loaded content
func (d *Detail) SetDetail(md *catalog.MovieDetail) {
	d.detail = md
	d.loading = false
}

// SetError shows a load failure
func (d *Detail) SetError(text string) {
	d.errText = text
	d.loading = false
}

// SetReviews fills in the review list
func (d *Detail) SetReviews(reviews []domain.Review) { d.reviews = reviews }

// SetInWatchlist sets the watchlist indicator
func (d *Detail) SetInWatchlist(in bool) { d.inWatchlist = in }

// SetSize sets the rendering area
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the panel
func (d Detail) View() string {
	if !d.IsOpen() {
		return ""
	}
	width := d.width - 4
	if width < 20 {
		width = 20
	}

	if d.errText != "" {
		return styles.DetailStyle.Width(width).Render(styles.ErrorStyle.Render(d.errText))
	}
	if d.loading || d.detail == nil {
		return styles.DetailStyle.Width(width).Render(styles.DimStyle.Render("Loading..."))
	}

	m := d.detail.Movie
	var b strings.Builder

	title := styles.TitleStyle.Render(styles.Truncate(m.Title, width-2))
	if d.inWatchlist {
		title += " " + styles.WatchlistMark
	}
	b.WriteString(title + "\n")

	var meta []string
	if y := m.Year(); y > 0 {
		meta = append(meta, fmt.Sprintf("%d", y))
	}
	if rt := m.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if g := m.GenreNames(); g != "" {
		meta = append(meta, g)
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(meta, " · ")) + "\n")
	if m.VoteCount > 0 {
		b.WriteString(styles.Rating(m.VoteAverage) + styles.DimStyle.Render(fmt.Sprintf(" (%d votes)", m.VoteCount)) + "\n")
	}

	if m.Overview != "" {
		b.WriteString("\n" + styles.SubtitleStyle.Render(styles.Wrap(m.Overview, width-2)) + "\n")
	}

	if len(d.detail.Cast) > 0 {
		b.WriteString("\n" + styles.AccentStyle.Render("Cast") + "\n")
		for i, c := range d.detail.Cast {
			if i == maxCastShown {
				break
			}
			line := c.Name
			if c.Character != "" {
				line += styles.DimStyle.Render(" as " + c.Character)
			}
			b.WriteString("  " + line + "\n")
		}
	}

	if len(d.detail.Similar) > 0 {
		b.WriteString("\n" + styles.AccentStyle.Render("Similar") + "\n")
		for i, s := range d.detail.Similar {
			if i == maxSimilarShown {
				break
			}
			b.WriteString("  " + styles.Truncate(s.Title, width-4) + "\n")
		}
	}

	b.WriteString("\n" + styles.AccentStyle.Render("Reviews") + "\n")
	if len(d.reviews) == 0 {
		b.WriteString(styles.DimStyle.Render("  No reviews yet") + "\n")
	}
	for i, r := range d.reviews {
		if i == maxReviewsShown {
			break
		}
		b.WriteString("  " + styles.AccentStyle.Render(r.Stars()) + " " + r.Username + "\n")
		b.WriteString("  " + styles.SubtitleStyle.Render(styles.Truncate(r.Content, width-4)) + "\n")
	}

	return styles.DetailStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}
