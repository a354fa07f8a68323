package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/retype/internal/session"
)

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want []session.Key
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlC}, []session.Key{{Kind: session.KeyInterrupt}}},
		{tea.KeyMsg{Type: tea.KeyEsc}, []session.Key{{Kind: session.KeyEscape}}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, []session.Key{{Kind: session.KeyBackspace}}},
		{tea.KeyMsg{Type: tea.KeyCtrlW}, []session.Key{{Kind: session.KeyWordErase}}},
		{tea.KeyMsg{Type: tea.KeyCtrlH}, []session.Key{{Kind: session.KeyWordErase}}},
		{tea.KeyMsg{Type: tea.KeyTab}, []session.Key{{Kind: session.KeyTab}}},
		{tea.KeyMsg{Type: tea.KeyEnter}, []session.Key{{Kind: session.KeyEnter}}},
		{tea.KeyMsg{Type: tea.KeyLeft}, []session.Key{{Kind: session.KeyLeft}}},
		{tea.KeyMsg{Type: tea.KeyRight}, []session.Key{{Kind: session.KeyRight}}},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []session.Key{{Kind: session.KeySpace}}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, []session.Key{session.Rune('a'), session.Rune('b')}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true}, nil},
		{tea.KeyMsg{Type: tea.KeyF1}, nil},
	}
	for _, tc := range cases {
		got := translateKey(tc.msg)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.msg, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: key %d expected %s, got %s", tc.msg, i, tc.want[i], got[i])
			}
		}
	}
}
