package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinescope/internal/tui/styles"
)

func matches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

// View renders the application
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderTabs()
	if m.searchTyping || (m.tab == TabSearch && m.searchInput.Value() != "") {
		header += "\n" + m.searchInput.View()
	} else {
		header += "\n" + m.renderUser()
	}

	var body string
	switch {
	case m.showHelp:
		body = m.renderHelp()
	case m.detail.IsOpen():
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.lists[m.tab].Render(), m.detail.View())
	default:
		body = m.lists[m.tab].Render()
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())

	if m.login.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.login.View())
	}
	return view
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, styles.ActiveTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderUser() string {
	sess := m.session.Session()
	if !sess.IsAuthenticated {
		return styles.DimStyle.Render("Not logged in")
	}
	return styles.SubtitleStyle.Render("Logged in as ") + styles.AccentStyle.Render(sess.UserName()) +
		styles.DimStyle.Render(" · ") + styles.SubtitleStyle.Render(styles.WatchlistChar+" ") +
		styles.DimStyle.Render(strconv.Itoa(m.watchlist.Len()))
}

func (m Model) renderFooter() string {
	if m.status != "" {
		style := styles.SuccessStyle
		if m.statusErr {
			style = styles.ErrorStyle
		}
		return styles.StatusBarStyle.Render(style.Render(m.status))
	}

	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return styles.StatusBarStyle.Render(strings.Join(parts, "  "))
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.NextTab, m.keys.PrevTab, m.keys.Enter, m.keys.Back,
		m.keys.Watchlist, m.keys.Filter, m.keys.Search, m.keys.Login, m.keys.Logout,
		m.keys.Refresh, m.keys.Quit,
	}
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Keys") + "\n")
	for _, k := range bindings {
		h := k.Help()
		b.WriteString(styles.HelpKeyStyle.Width(8).Render(h.Key) + styles.HelpDescStyle.Render(h.Desc) + "\n")
	}
	return styles.ModalStyle.Render(strings.TrimRight(b.String(), "\n"))
}
