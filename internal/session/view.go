package session

import (
	"github.com/verte-zerg/retype/internal/diff"
	"github.com/verte-zerg/retype/internal/layout"
	"github.com/verte-zerg/retype/internal/metrics"
)

// View is a read-only snapshot of what a renderer needs to paint a session.
type View struct {
	TextID      string
	Wrapped     []rune
	Width       int
	Height      int
	TextRows    int
	Typed       int
	DiffIndex   int
	CurrentWord string
	AtLimit     bool
	Mistyped    []int
	Mode        Mode
	Started     bool
	Replay      bool
	Result      metrics.Result
}

// View returns a snapshot of the session for painting.
func (s *Session) View() View {
	wrapped := make([]rune, len(s.wrapped))
	copy(wrapped, s.wrapped)
	return View{
		TextID:      s.text.ID(),
		Wrapped:     wrapped,
		Width:       s.width,
		Height:      s.height,
		TextRows:    layout.LineCount(len(s.wrapped), s.width) + 3,
		Typed:       len(s.typed),
		DiffIndex:   diff.FirstMismatch(s.typed, s.wrapped),
		CurrentWord: string(s.word),
		AtLimit:     len(s.word) >= s.wordLimit,
		Mistyped:    s.Mistyped(),
		Mode:        s.mode,
		Started:     s.started,
		Replay:      s.replay,
		Result:      s.result,
	}
}
