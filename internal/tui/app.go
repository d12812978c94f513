package tui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinescope/internal/catalog"
	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/reviews"
	"github.com/mmcdole/cinescope/internal/session"
	"github.com/mmcdole/cinescope/internal/tui/components"
	"github.com/mmcdole/cinescope/internal/tui/styles"
	"github.com/mmcdole/cinescope/internal/watchlist"
)

// Tab is one of the top-level movie lists
type Tab int

const (
	TabPopular Tab = iota
	TabTopRated
	TabUpcoming
	TabWatchlist
	TabSearch
	tabCount
)

var tabNames = [tabCount]string{"Popular", "Top Rated", "Upcoming", "Watchlist", "Search"}

func (t Tab) String() string { return tabNames[t] }

// ParseTab maps a config name like "top_rated" to a Tab, defaulting to Popular
func ParseTab(name string) Tab {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top_rated", "toprated", "top rated":
		return TabTopRated
	case "upcoming":
		return TabUpcoming
	case "watchlist":
		return TabWatchlist
	case "search":
		return TabSearch
	default:
		return TabPopular
	}
}

const (
	defaultTimeout   = 30 * time.Second
	statusDuration   = 3 * time.Second
	listWidthPercent = 40
	headerLines      = 2
	footerLines      = 1
	minDetailWidth   = 30
)

// Options wires the model to the application services
type Options struct {
	Catalog    *catalog.Service
	Reviews    *reviews.Service // Optional
	Session    *session.Store
	Watchlist  *watchlist.Store
	Observer   *ChannelObserver // Delivers session changes; optional
	DefaultTab string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	catalog   *catalog.Service
	reviews   *reviews.Service
	session   *session.Store
	watchlist *watchlist.Store
	observer  *ChannelObserver
	logger    *slog.Logger
	timeout   time.Duration

	keys    KeyMap
	tab     Tab
	lists   [tabCount]*components.MovieList
	detail  components.Detail
	tracker *catalog.Tracker
	login   components.LoginModal

	searchInput  textinput.Model
	searchTyping bool

	status    string
	statusErr bool
	statusSeq int

	showHelp bool
	width    int
	height   int
}

// NewModel creates the application model
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	si := textinput.New()
	si.Prompt = "Search: "
	si.Placeholder = "movie title"
	si.CharLimit = 100
	si.PlaceholderStyle = styles.DimStyle

	m := Model{
		catalog:     opts.Catalog,
		reviews:     opts.Reviews,
		session:     opts.Session,
		watchlist:   opts.Watchlist,
		observer:    opts.Observer,
		logger:      logger,
		timeout:     timeout,
		keys:        DefaultKeyMap(),
		tab:         ParseTab(opts.DefaultTab),
		detail:      components.NewDetail(),
		tracker:     &catalog.Tracker{},
		login:       components.NewLoginModal(),
		searchInput: si,
	}

	for t := Tab(0); t < tabCount; t++ {
		l := components.NewMovieList(t.String())
		l.Marked = m.watchlist.Contains
		m.lists[t] = l
	}
	if home, ok := m.catalog.CachedHome(); ok {
		m.setHome(home)
	} else {
		m.lists[TabPopular].SetLoading(true)
		m.lists[TabTopRated].SetLoading(true)
		m.lists[TabUpcoming].SetLoading(true)
	}
	m.lists[TabSearch].SetEmptyText("Press s to search")
	m.refreshWatchlist()

	return m
}

// Init loads the home listings and starts listening for session changes
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{LoadHomeCmd(m.catalog, m.timeout)}
	if m.observer != nil {
		cmds = append(cmds, m.observer.Wait())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case HomeLoadedMsg:
		m.setHome(msg.Home)
		return m, nil

	case MovieDetailMsg:
		// Drop responses for a movie we navigated away from
		if !m.tracker.Current(msg.Token) || m.detail.MovieID() != msg.Token.ID {
			m.logger.Debug("dropping stale detail", "movieID", msg.Token.ID)
			return m, nil
		}
		if msg.Err != nil {
			m.detail.SetError(errorText(msg.Err))
			return m, nil
		}
		m.detail.SetDetail(msg.Detail)
		m.detail.SetInWatchlist(m.watchlist.Contains(msg.Token.ID))
		return m, nil

	case ReviewsLoadedMsg:
		if msg.MovieID != m.detail.MovieID() {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("failed to load reviews", "error", msg.Err, "movieID", msg.MovieID)
			return m, nil
		}
		m.detail.SetReviews(msg.Reviews)
		return m, nil

	case SearchResultsMsg:
		l := m.lists[TabSearch]
		l.SetMovies(msg.Results)
		if len(msg.Results) == 0 {
			l.SetEmptyText("No results for \"" + msg.Query + "\"")
		}
		return m, nil

	case LoginResultMsg:
		if msg.Err != nil {
			m.login.SetError(errorText(msg.Err))
			return m, nil
		}
		m.login.Hide()
		m.refreshWatchlist()
		return m, m.setStatus("Logged in as "+m.session.Session().UserName(), false)

	case SessionChangedMsg:
		m.refreshWatchlist()
		var cmd tea.Cmd
		if m.observer != nil {
			cmd = m.observer.Wait()
		}
		return m, cmd

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case ErrMsg:
		m.logger.Error("command failed", "error", msg.Err, "context", msg.Context)
		if msg.Context == "loading movies" {
			for _, t := range []Tab{TabPopular, TabTopRated, TabUpcoming} {
				m.lists[t].SetLoading(false)
				m.lists[t].SetEmptyText("Failed to load")
			}
		}
		return m, m.setStatus(msg.Error(), true)
	}

	var cmd tea.Cmd
	if m.login.IsVisible() {
		m.login, cmd, _ = m.login.Update(msg)
	}
	return m, cmd
}

// handleKeyMsg routes key presses by focus: login modal, search input,
// list filter, then global bindings.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.IsVisible() {
		var (
			cmd       tea.Cmd
			submitted bool
		)
		m.login, cmd, submitted = m.login.Update(msg)
		if submitted {
			user, pass := m.login.Credentials()
			m.login.SetPending(true)
			return m, LoginCmd(m.session, user, pass, m.timeout)
		}
		return m, cmd
	}

	if m.searchTyping {
		return m.handleSearchKey(msg)
	}

	list := m.lists[m.tab]
	if list.IsFilterTyping() {
		return m, list.UpdateFilter(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case matches(msg, m.keys.Quit):
		return m, tea.Quit

	case matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case matches(msg, m.keys.Back):
		if m.detail.IsOpen() {
			m.closeDetail()
			return m, nil
		}
		if list.IsFiltering() {
			list.ClearFilter()
		}
		return m, nil

	case matches(msg, m.keys.NextTab):
		return m, m.switchTab((m.tab + 1) % tabCount)

	case matches(msg, m.keys.PrevTab):
		return m, m.switchTab((m.tab + tabCount - 1) % tabCount)

	case matches(msg, m.keys.Up):
		list.MoveUp()
		return m, nil

	case matches(msg, m.keys.Down):
		list.MoveDown()
		return m, nil

	case matches(msg, m.keys.Enter):
		movie, ok := list.Selected()
		if !ok {
			return m, nil
		}
		return m, m.openDetail(movie.ID)

	case matches(msg, m.keys.Watchlist):
		return m, m.toggleWatchlist()

	case matches(msg, m.keys.Filter):
		return m, list.StartFilter()

	case matches(msg, m.keys.Search):
		m.tab = TabSearch
		m.closeDetail()
		m.searchTyping = true
		m.searchInput.SetValue("")
		return m, m.searchInput.Focus()

	case matches(msg, m.keys.Login):
		if m.session.IsAuthenticated() {
			return m, m.setStatus("Already logged in as "+m.session.Session().UserName(), false)
		}
		return m, m.login.Show()

	case matches(msg, m.keys.Logout):
		if !m.session.IsAuthenticated() {
			return m, nil
		}
		m.session.Logout()
		m.refreshWatchlist()
		return m, m.setStatus("Logged out", false)

	case matches(msg, m.keys.Refresh):
		for _, t := range []Tab{TabPopular, TabTopRated, TabUpcoming} {
			m.lists[t].SetLoading(true)
		}
		return m, LoadHomeCmd(m.catalog, m.timeout)
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchTyping = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searchTyping = false
		m.searchInput.Blur()
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.lists[TabSearch].SetLoading(true)
		return m, SearchCmd(m.catalog, query, m.timeout)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) setHome(h *catalog.Home) {
	m.lists[TabPopular].SetMovies(h.Popular)
	m.lists[TabTopRated].SetMovies(h.TopRated)
	m.lists[TabUpcoming].SetMovies(h.Upcoming)
}

func (m *Model) switchTab(t Tab) tea.Cmd {
	m.tab = t
	m.closeDetail()
	if t == TabWatchlist {
		m.refreshWatchlist()
	}
	return nil
}

func (m *Model) openDetail(movieID int64) tea.Cmd {
	tok := m.tracker.Begin(movieID)
	m.detail.Open(movieID)
	m.updateLayout()
	return tea.Batch(
		LoadMovieDetailCmd(m.catalog, tok, m.timeout),
		LoadReviewsCmd(m.reviews, movieID, m.timeout),
	)
}

func (m *Model) closeDetail() {
	m.tracker.Reset()
	m.detail.Close()
	m.updateLayout()
}

// toggleWatchlist adds or removes the selected movie, or the open detail movie
func (m *Model) toggleWatchlist() tea.Cmd {
	if !m.session.IsAuthenticated() {
		return m.setStatus("Log in (l) to use the watchlist", true)
	}

	movie, ok := m.detail.Movie()
	if !ok {
		movie, ok = m.lists[m.tab].Selected()
	}
	if !ok {
		return nil
	}

	in := m.watchlist.Toggle(movie)
	m.refreshWatchlist()
	if m.detail.MovieID() == movie.ID {
		m.detail.SetInWatchlist(in)
	}
	if in {
		return m.setStatus("Added "+movie.Title+" to watchlist", false)
	}
	return m.setStatus("Removed "+movie.Title+" from watchlist", false)
}

func (m *Model) refreshWatchlist() {
	l := m.lists[TabWatchlist]
	if m.session.IsAuthenticated() {
		l.SetEmptyText("Your watchlist is empty")
	} else {
		l.SetEmptyText("Log in (l) to see your watchlist")
	}
	l.SetMovies(m.watchlist.Items())
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	return ClearStatusCmd(m.statusSeq, statusDuration)
}

func (m *Model) updateLayout() {
	bodyHeight := m.height - headerLines - footerLines
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	listWidth := m.width
	if m.detail.IsOpen() {
		listWidth = m.width * listWidthPercent / 100
		if m.width-listWidth < minDetailWidth {
			listWidth = m.width - minDetailWidth
		}
		if listWidth < 10 {
			listWidth = 10
		}
		m.detail.SetSize(m.width-listWidth, bodyHeight)
	}
	for _, l := range m.lists {
		l.SetSize(listWidth, bodyHeight)
	}
}

// errorText turns an error into a short user-facing message
func errorText(err error) string {
	var authErr *domain.AuthError
	switch {
	case errors.As(err, &authErr) && authErr.Message != "":
		return authErr.Message
	case errors.Is(err, domain.ErrServerOffline):
		return "Server is unreachable"
	case errors.Is(err, domain.ErrAuthFailed):
		return "Authentication failed"
	case errors.Is(err, domain.ErrNotFound):
		return "Not found"
	default:
		return err.Error()
	}
}
