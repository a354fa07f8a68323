// Package session implements the typing-session state machine.
package session

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/verte-zerg/retype/internal/diff"
	"github.com/verte-zerg/retype/internal/layout"
	"github.com/verte-zerg/retype/internal/metrics"
	"github.com/verte-zerg/retype/internal/model"
)

// Mode is the state of a session.
type Mode int

const (
	ModeTyping Mode = iota
	ModeFinished
)

func (m Mode) String() string {
	if m == ModeFinished {
		return "finished"
	}
	return "typing"
}

// Command is an action the host must carry out after a key.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandRetry
	CommandReplay
	CommandPrevText
	CommandNextText
)

// Update describes what a key changed.
type Update struct {
	Command  Command
	Changed  bool
	Started  bool
	Reset    bool
	Resized  bool
	Finished bool
}

// Keystroke is one entry of the key log. At is the wall-clock instant the key
// was received. Delta is filled in when the run finishes.
type Keystroke struct {
	At    time.Time
	Delta time.Duration
	Key   Key
}

// Sink receives the result of every completed run.
type Sink interface {
	AppendHistory(ctx context.Context, rec model.HistoryRecord) error
}

// Session owns the state of one attempt at typing a text. It is not safe for
// concurrent use.
type Session struct {
	text    *Text
	wrapped []rune
	width   int
	height  int

	// Window size when the timer started; replays are laid out with it.
	startWidth  int
	startHeight int

	word       []rune
	typed      []rune
	tokenIndex int
	wordLimit  int

	mode       Mode
	started    bool
	startedAt  time.Time
	lastAt     time.Time
	finishedAt time.Time

	keys       []Keystroke
	mistyped   []int
	mistypedAt map[int]struct{}
	totalTyped int

	result  metrics.Result
	emitted bool
	replay  bool
}

// New lays text out for a width x height window and returns a fresh session.
func New(text *Text, width, height int) (*Session, error) {
	s := &Session{
		text:      text,
		wordLimit: text.WordLimit(),
	}
	if err := s.relayout(width, height); err != nil {
		return nil, err
	}
	s.startWidth, s.startHeight = width, height
	s.mistypedAt = map[int]struct{}{}
	return s, nil
}

// Apply feeds one key received at the given instant into the session.
// Only layout and timing failures are reported; the session is left as it
// was before the key in both cases.
func (s *Session) Apply(key Key, at time.Time) (Update, error) {
	key = key.normalize()
	if !s.lastAt.IsZero() && at.Before(s.lastAt) {
		return Update{}, fmt.Errorf("failed to apply %s: %w", key, metrics.ErrClockSkew)
	}
	var (
		upd Update
		err error
	)
	if s.mode == ModeFinished {
		upd, err = s.applyFinished(key)
	} else {
		upd, err = s.applyTyping(key, at)
	}
	if err != nil {
		return upd, err
	}
	s.lastAt = at
	return upd, nil
}

func (s *Session) applyTyping(key Key, at time.Time) (Update, error) {
	switch key.Kind {
	case KeyEscape:
		if !s.started {
			return Update{Command: CommandQuit}, nil
		}
		s.reset()
		return Update{Reset: true, Changed: true}, nil
	case KeyInterrupt:
		return Update{Command: CommandQuit}, nil
	case KeyResize:
		if err := s.relayout(key.Width, key.Height); err != nil {
			return Update{}, err
		}
		upd := Update{Resized: true, Changed: true}
		if s.started {
			s.record(key, at)
			if err := s.afterKey(at, &upd); err != nil {
				return upd, err
			}
		}
		return upd, nil
	}

	var upd Update
	if !s.started {
		switch {
		case key.Kind == KeyRune && unicode.IsLetter(key.Rune):
			s.started = true
			s.startedAt = at
			s.startWidth, s.startHeight = s.width, s.height
			upd.Started = true
		case key.Kind == KeyLeft:
			return Update{Command: CommandPrevText}, nil
		case key.Kind == KeyRight:
			return Update{Command: CommandNextText}, nil
		default:
			return upd, nil
		}
	}

	s.record(key, at)
	switch key.Kind {
	case KeyBackspace:
		s.eraseRune()
	case KeyWordErase:
		s.eraseWord()
	case KeySpace:
		if len(s.word) < s.wordLimit {
			s.totalTyped++
			if len(s.word) > 0 {
				s.acceptWord()
			}
		}
	case KeyRune:
		if unicode.IsPrint(key.Rune) && len(s.word) < s.wordLimit {
			s.word = append(s.word, key.Rune)
			s.typed = append(s.typed, key.Rune)
			s.totalTyped++
		}
	}
	upd.Changed = true
	if err := s.afterKey(at, &upd); err != nil {
		return upd, err
	}
	return upd, nil
}

func (s *Session) applyFinished(key Key) (Update, error) {
	switch key.Kind {
	case KeyEscape, KeyInterrupt:
		return Update{Command: CommandQuit}, nil
	case KeyTab:
		return Update{Command: CommandRetry}, nil
	case KeyEnter:
		return Update{Command: CommandReplay}, nil
	case KeyLeft:
		return Update{Command: CommandPrevText}, nil
	case KeyRight:
		return Update{Command: CommandNextText}, nil
	case KeyResize:
		if err := s.relayout(key.Width, key.Height); err != nil {
			return Update{}, err
		}
		return Update{Resized: true, Changed: true}, nil
	}
	return Update{}, nil
}

func (s *Session) record(key Key, at time.Time) {
	s.keys = append(s.keys, Keystroke{At: at, Key: key})
}

func (s *Session) eraseRune() {
	if len(s.word) == 0 {
		return
	}
	s.word = s.word[:len(s.word)-1]
	s.typed = s.typed[:len(s.typed)-1]
}

// eraseWord drops everything from the last space of the word buffer onwards,
// or the whole buffer when it holds a single word.
func (s *Session) eraseWord() {
	if len(s.word) == 0 {
		return
	}
	cut := 0
	for i := len(s.word) - 1; i >= 0; i-- {
		if s.word[i] == ' ' {
			cut = i
			break
		}
	}
	n := len(s.word) - cut
	s.word = s.word[:cut]
	s.typed = s.typed[:len(s.typed)-n]
}

// acceptWord resolves the word buffer against the expected token. A wrong
// word is closed with a single space and the token is not advanced, so later
// words are still compared against it.
func (s *Session) acceptWord() {
	if s.tokenIndex < len(s.text.tokens) && string(s.word) == s.text.tokens[s.tokenIndex] {
		spaces := layout.SpacesAfter(s.wrapped, len(s.typed))
		s.tokenIndex++
		s.word = s.word[:0]
		for i := 0; i < spaces; i++ {
			s.typed = append(s.typed, ' ')
		}
		return
	}
	s.word = append(s.word, ' ')
	s.typed = append(s.typed, ' ')
}

func (s *Session) afterKey(at time.Time, upd *Update) error {
	idx := diff.FirstMismatch(s.typed, s.wrapped)
	if idx < len(s.typed) && len(s.typed) <= len(s.wrapped) {
		s.markMistyped(len(s.typed) - 1)
	}
	if idx == len(s.wrapped) {
		if err := s.finish(at); err != nil {
			return err
		}
		upd.Finished = true
	}
	return nil
}

func (s *Session) markMistyped(pos int) {
	if _, ok := s.mistypedAt[pos]; ok {
		return
	}
	s.mistypedAt[pos] = struct{}{}
	s.mistyped = append(s.mistyped, pos)
}

func (s *Session) finish(at time.Time) error {
	res, err := metrics.Compute(len(s.text.tokens), s.totalTyped, s.text.Len(), s.startedAt, at)
	if err != nil {
		return err
	}
	// The last word completes the text without a trailing space.
	if s.tokenIndex < len(s.text.tokens) && string(s.word) == s.text.tokens[s.tokenIndex] {
		s.tokenIndex++
		s.word = s.word[:0]
	}
	s.result = res
	s.finishedAt = at
	s.mode = ModeFinished
	for i := len(s.keys) - 1; i > 0; i-- {
		s.keys[i].Delta = s.keys[i].At.Sub(s.keys[i-1].At)
	}
	if len(s.keys) > 0 {
		s.keys[0].Delta = 0
	}
	return nil
}

func (s *Session) relayout(width, height int) error {
	wrapped, err := layout.Wrap(s.text.Raw(), width)
	if err != nil {
		return err
	}
	if err := layout.CheckFit(wrapped, width, height); err != nil {
		return err
	}
	s.wrapped = []rune(wrapped)
	s.width = width
	s.height = height
	return nil
}

func (s *Session) reset() {
	s.word = nil
	s.typed = nil
	s.tokenIndex = 0
	s.mode = ModeTyping
	s.started = false
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.keys = nil
	s.mistyped = nil
	s.mistypedAt = map[int]struct{}{}
	s.totalTyped = 0
	s.result = metrics.Result{}
	s.emitted = false
}

// Emit hands the result of a finished run to sink. It does nothing before the
// run finishes, after the first call, or for replay sessions.
func (s *Session) Emit(ctx context.Context, sink Sink) error {
	if s.mode != ModeFinished || s.emitted || s.replay {
		return nil
	}
	s.emitted = true
	rec := model.HistoryRecord{
		TextID:     s.text.ID(),
		WPM:        s.result.WPM,
		Accuracy:   s.result.Accuracy,
		ElapsedMs:  s.result.Elapsed.Milliseconds(),
		FinishedAt: s.finishedAt,
	}
	if err := sink.AppendHistory(ctx, rec); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Retry returns a fresh session for the same text and window.
func (s *Session) Retry() (*Session, error) {
	return New(s.text, s.width, s.height)
}

// ReplaySession returns a fresh session laid out the way this run started.
// It never emits history.
func (s *Session) ReplaySession() (*Session, error) {
	r, err := New(s.text, s.startWidth, s.startHeight)
	if err != nil {
		return nil, err
	}
	r.replay = true
	return r, nil
}

// LiveWPM returns the speed so far: the cached result once finished, otherwise
// typed words per elapsed minute.
func (s *Session) LiveWPM(now time.Time) (float64, error) {
	if s.mode == ModeFinished {
		return s.result.WPM, nil
	}
	if !s.started {
		return 0, nil
	}
	minutes, err := metrics.ElapsedMinutes(s.startedAt, now)
	if err != nil {
		return 0, err
	}
	return metrics.WPM(metrics.WordCount(string(s.typed)), minutes), nil
}

// KeyLog returns a copy of the recorded keystrokes.
func (s *Session) KeyLog() []Keystroke {
	out := make([]Keystroke, len(s.keys))
	copy(out, s.keys)
	return out
}

// Mistyped returns the mistyped character positions in the order they were found.
func (s *Session) Mistyped() []int {
	out := make([]int, len(s.mistyped))
	copy(out, s.mistyped)
	return out
}

func (s *Session) Text() *Text { return s.text }
func (s *Session) Mode() Mode { return s.mode }
func (s *Session) Started() bool { return s.started }
func (s *Session) IsReplay() bool { return s.replay }
func (s *Session) TokenIndex() int { return s.tokenIndex }
func (s *Session) CurrentWord() string { return string(s.word) }
func (s *Session) CurrentString() string { return string(s.typed) }
func (s *Session) Wrapped() string { return string(s.wrapped) }
func (s *Session) TotalTyped() int { return s.totalTyped }
func (s *Session) Result() metrics.Result { return s.result }
func (s *Session) LastEventAt() time.Time { return s.lastAt }
func (s *Session) Size() (width, height int) { return s.width, s.height }
