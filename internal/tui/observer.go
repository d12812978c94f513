package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinescope/internal/domain"
)

// ChannelObserver adapts domain.SessionObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan domain.Session
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(size int) *ChannelObserver {
	return &ChannelObserver{ch: make(chan domain.Session, size)}
}

// OnSessionChange sends the session to the channel (non-blocking if full).
func (o *ChannelObserver) OnSessionChange(s domain.Session) {
	select {
	case o.ch <- s:
	default: // Non-blocking if channel full
	}
}

// Wait returns a command that delivers the next session change
func (o *ChannelObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-o.ch
		if !ok {
			return nil
		}
		return SessionChangedMsg{Session: s}
	}
}
