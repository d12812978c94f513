package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinescope/internal/tui/styles"
)

const loginModalWidth = 36

// LoginModal collects a username and a masked password
type LoginModal struct {
	visible  bool
	focus    int // 0 = username, 1 = password
	username textinput.Model
	password textinput.Model
	errText  string
	pending  bool
}

// NewLoginModal creates a hidden login modal
func NewLoginModal() LoginModal {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = loginModalWidth - 12
	user.Prompt = "Username: "
	user.PlaceholderStyle = styles.DimStyle

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Width = loginModalWidth - 12
	pass.Prompt = "Password: "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.PlaceholderStyle = styles.DimStyle

	return LoginModal{username: user, password: pass}
}

// Show displays the modal with empty fields
func (m *LoginModal) Show() tea.Cmd {
	m.visible = true
	m.pending = false
	m.errText = ""
	m.focus = 0
	m.username.SetValue("")
	m.password.SetValue("")
	m.password.Blur()
	return m.username.Focus()
}

// Hide dismisses the modal
func (m *LoginModal) Hide() {
	m.visible = false
	m.pending = false
	m.username.Blur()
	m.password.Blur()
}

// IsVisible returns whether the modal is shown
func (m LoginModal) IsVisible() bool { return m.visible }

// Credentials returns the entered username and password
func (m LoginModal) Credentials() (string, string) {
	return m.username.Value(), m.password.Value()
}

// SetPending marks a login attempt as in flight
func (m *LoginModal) SetPending(pending bool) { m.pending = pending }

// SetError shows a failed attempt and clears the password
func (m *LoginModal) SetError(text string) {
	m.pending = false
	m.errText = text
	m.password.SetValue("")
}

// Update handles input events, returns (modal, cmd, submitted)
func (m LoginModal) Update(msg tea.Msg) (LoginModal, tea.Cmd, bool) {
	if !m.visible || m.pending {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			return m, nil, false
		case "tab", "shift+tab", "up", "down":
			return m, m.switchFocus(), false
		case "enter":
			if m.focus == 0 {
				return m, m.switchFocus(), false
			}
			return m, nil, true
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd, false
}

func (m *LoginModal) switchFocus() tea.Cmd {
	if m.focus == 0 {
		m.focus = 1
		m.username.Blur()
		return m.password.Focus()
	}
	m.focus = 0
	m.password.Blur()
	return m.username.Focus()
}

// View renders the modal
func (m LoginModal) View() string {
	if !m.visible {
		return ""
	}

	status := styles.DimStyle.Render("enter to submit · esc to cancel")
	switch {
	case m.pending:
		status = styles.DimStyle.Render("Logging in...")
	case m.errText != "":
		status = styles.ErrorStyle.Render(styles.Truncate(m.errText, loginModalWidth))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Log in"),
		m.username.View(),
		m.password.View(),
		"",
		status,
	)
	return styles.ModalStyle.Width(loginModalWidth).Render(content)
}
