package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/wpmtest/internal/session"
)

type keyMap struct {
	Cancel    key.Binding
	Delete    key.Binding
	Interrupt key.Binding
}

var keys = keyMap{
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "finish"),
	),
	Delete: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("backspace", "delete"),
	),
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "abort"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Delete, k.Interrupt}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Classify maps a key press to a session event.
func Classify(msg tea.KeyMsg) session.Event {
	switch {
	case key.Matches(msg, keys.Cancel):
		return session.Cancel()
	case key.Matches(msg, keys.Delete):
		return session.Delete()
	}
	if msg.Alt || msg.Paste {
		return session.Other()
	}
	switch msg.Type {
	case tea.KeySpace:
		return session.Printable(' ')
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return session.Other()
		}
		return session.Printable(msg.Runes[0])
	default:
		return session.Other()
	}
}

// classifyAll splits a burst of runes into one event per rune.
func classifyAll(msg tea.KeyMsg) []session.Event {
	if msg.Type != tea.KeyRunes || len(msg.Runes) <= 1 || msg.Alt || msg.Paste {
		return []session.Event{Classify(msg)}
	}
	events := make([]session.Event, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		events = append(events, session.Printable(r))
	}
	return events
}
