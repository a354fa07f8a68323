package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/retype/internal/session"
)

type keyMap struct {
	Interrupt key.Binding
	Escape    key.Binding
	WordErase key.Binding
	Backspace key.Binding
	Retry     key.Binding
	Replay    key.Binding
	Prev      key.Binding
	Next      key.Binding
}

var keys = keyMap{
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "restart/quit"),
	),
	WordErase: key.NewBinding(
		key.WithKeys("ctrl+w", "ctrl+h", "alt+backspace"),
		key.WithHelp("ctrl+w", "erase word"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("backspace", "erase"),
	),
	Retry: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "retry"),
	),
	Replay: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "replay"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous text"),
	),
	Next: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next text"),
	),
}

func (k keyMap) idleHelp() []key.Binding {
	return []key.Binding{k.Escape, k.Prev, k.Next}
}

func (k keyMap) typingHelp() []key.Binding {
	return []key.Binding{k.Escape, k.WordErase, k.Interrupt}
}

// translateKey maps a terminal key to session keys. Pasted text yields one
// key per rune; keys the session has no use for yield nothing.
func translateKey(msg tea.KeyMsg) []session.Key {
	switch {
	case key.Matches(msg, keys.Interrupt):
		return []session.Key{{Kind: session.KeyInterrupt}}
	case key.Matches(msg, keys.Escape):
		return []session.Key{{Kind: session.KeyEscape}}
	case key.Matches(msg, keys.WordErase):
		return []session.Key{{Kind: session.KeyWordErase}}
	case key.Matches(msg, keys.Backspace):
		return []session.Key{{Kind: session.KeyBackspace}}
	case key.Matches(msg, keys.Retry):
		return []session.Key{{Kind: session.KeyTab}}
	case key.Matches(msg, keys.Replay):
		return []session.Key{{Kind: session.KeyEnter}}
	case key.Matches(msg, keys.Prev):
		return []session.Key{{Kind: session.KeyLeft}}
	case key.Matches(msg, keys.Next):
		return []session.Key{{Kind: session.KeyRight}}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []session.Key{session.Rune(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		return session.Runes(string(msg.Runes))
	}
	return nil
}
