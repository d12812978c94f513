package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/search"
	"github.com/mmcdole/cinescope/internal/tui/styles"
)

// Lines reserved around the item rows: title, scroll indicators
const listChromeLines = 3

// MovieList is a scrollable, filterable list of movies
type MovieList struct {
	title   string
	movies  []domain.Movie
	matches []search.Match // Filtered view; all movies when no filter

	cursor int
	offset int
	width  int
	height int

	loading   bool
	emptyText string

	filterActive bool
	filterInput  textinput.Model

	// Marked reports whether a movie gets the watchlist marker
	Marked func(id int64) bool
}

// NewMovieList creates an empty list with a title
func NewMovieList(title string) *MovieList {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 64
	ti.PlaceholderStyle = styles.DimStyle

	return &MovieList{
		title:       title,
		emptyText:   "No movies",
		filterInput: ti,
	}
}

// SetMovies replaces the list contents and reapplies the active filter
func (l *MovieList) SetMovies(movies []domain.Movie) {
	l.movies = movies
	l.loading = false
	l.applyFilter()
	l.clampCursor()
}

// SetLoading toggles the loading placeholder
func (l *MovieList) SetLoading(loading bool) { l.loading = loading }

// SetEmptyText sets the text shown when the list is empty
func (l *MovieList) SetEmptyText(text string) { l.emptyText = text }

// SetSize sets the rendering area
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// Len returns the number of visible (filtered) items
func (l *MovieList) Len() int { return len(l.matches) }

// Selected returns the movie under the cursor
func (l *MovieList) Selected() (domain.Movie, bool) {
	if l.cursor < 0 || l.cursor >= len(l.matches) {
		return domain.Movie{}, false
	}
	return l.matches[l.cursor].Movie, true
}

// MoveUp moves the cursor up one item
func (l *MovieList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		l.ensureVisible()
	}
}

// MoveDown moves the cursor down one item
func (l *MovieList) MoveDown() {
	if l.cursor < len(l.matches)-1 {
		l.cursor++
		l.ensureVisible()
	}
}

// StartFilter activates the filter input
func (l *MovieList) StartFilter() tea.Cmd {
	l.filterActive = true
	return l.filterInput.Focus()
}

// IsFilterTyping returns true if filter is active and input is focused
func (l *MovieList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// IsFiltering returns true if a filter is applied
func (l *MovieList) IsFiltering() bool { return l.filterActive }

// ClearFilter deactivates the filter and shows all items
func (l *MovieList) ClearFilter() {
	l.filterActive = false
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.applyFilter()
	l.clampCursor()
}

// UpdateFilter routes a key to the filter input.
// Enter keeps the filter and leaves typing mode; esc clears it.
func (l *MovieList) UpdateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		l.filterInput.Blur()
		return nil
	case "esc":
		l.ClearFilter()
		return nil
	}

	var cmd tea.Cmd
	l.filterInput, cmd = l.filterInput.Update(msg)
	l.applyFilter()
	l.cursor = 0
	l.offset = 0
	return cmd
}

func (l *MovieList) applyFilter() {
	query := ""
	if l.filterActive {
		query = l.filterInput.Value()
	}
	l.matches = search.Filter(query, l.movies)
}

func (l *MovieList) clampCursor() {
	if l.cursor >= len(l.matches) {
		l.cursor = len(l.matches) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

func (l *MovieList) maxVisible() int {
	n := l.height - listChromeLines
	if l.filterActive {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (l *MovieList) ensureVisible() {
	visible := l.maxVisible()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
}

// View renders the list
func (l *MovieList) View() string {
	width := l.width
	if width < 10 {
		width = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, width))
	if l.loading {
		return titleLine + "\n\n" + styles.DimStyle.Render("Loading...")
	}
	if len(l.matches) == 0 {
		empty := l.emptyText
		if l.filterActive && l.filterInput.Value() != "" {
			empty = "No matches"
		}
		out := titleLine + "\n\n" + styles.DimStyle.Render(empty)
		if l.filterActive {
			out += "\n" + l.filterInput.View()
		}
		return out
	}

	end := l.offset + l.maxVisible()
	if end > len(l.matches) {
		end = len(l.matches)
	}

	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderItem(l.matches[i], i == l.cursor, width))
	}

	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(l.matches) {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.filterInput.View()
	}
	return content
}

func (l *MovieList) renderItem(m search.Match, selected bool, width int) string {
	marker := " "
	if l.Marked != nil && l.Marked(m.Movie.ID) {
		marker = styles.WatchlistMark
	}

	title := styles.Truncate(m.Movie.Title, width-16)
	meta := ""
	if d := m.Movie.Description(); d != "" {
		meta = "  " + d
	}

	if selected {
		return marker + styles.SelectedItemStyle.Render(title+meta)
	}
	return marker + styles.NormalItemStyle.Render(highlight(title, m.MatchedIndexes)+styles.DimStyle.Render(meta))
}

// highlight renders matched byte offsets with the match style
func highlight(s string, idx []int) string {
	if len(idx) == 0 {
		return s
	}
	hit := make(map[int]bool, len(idx))
	for _, i := range idx {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(styles.MatchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Render pads the list into a fixed box
func (l *MovieList) Render() string {
	return lipgloss.NewStyle().Width(l.width).Height(l.height).Render(l.View())
}
