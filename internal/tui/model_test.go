package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/retype/internal/layout"
	"github.com/verte-zerg/retype/internal/model"
	"github.com/verte-zerg/retype/internal/session"
	"github.com/verte-zerg/retype/internal/textsource"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(100 * time.Millisecond)
	return c.t
}

type memorySink struct {
	records []model.HistoryRecord
	err     error
}

func (s *memorySink) AppendHistory(_ context.Context, rec model.HistoryRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

type listSource struct {
	bodies []string
}

func (s *listSource) Get(_ context.Context, id string) (*session.Text, error) {
	for i, body := range s.bodies {
		if id == itoa(i+1) {
			return session.NewText(body, id)
		}
	}
	return nil, &textsource.RangeError{What: "text id", Min: 1, Max: int64(len(s.bodies))}
}

func (s *listSource) Random(ctx context.Context, _ int) (*session.Text, error) {
	return s.Get(ctx, "1")
}

func (s *listSource) Offset(ctx context.Context, id string, delta int) (*session.Text, error) {
	n := 0
	for i := range s.bodies {
		if itoa(i+1) == id {
			n = i + 1
		}
	}
	return s.Get(ctx, itoa(n+delta))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func newTestModel(t *testing.T, sink session.Sink) *Model {
	t.Helper()
	src := &listSource{bodies: []string{"the cat sat", "a dog ran", "birds fly"}}
	text, err := src.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	clock := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := NewModel(Options{Text: text, Source: src, Sink: sink, Now: clock.now})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 24})
	if m.sess == nil {
		t.Fatalf("expected session after window size, err %v", m.Err())
	}
	return m
}

func send(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		if r == ' ' {
			send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func screen(m *Model) string {
	m.View()
	return strings.Join(m.canvas.Text(), "\n")
}

func TestViewEmptyBeforeSize(t *testing.T) {
	text, _ := session.NewText("abc", "1")
	m := NewModel(Options{Text: text})
	if m.View() != "" {
		t.Fatalf("expected empty view before the first window size")
	}
	if !isQuit(send(m, tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Fatalf("expected ctrl+c to quit before the first window size")
	}
}

func TestTypingRunEmitsOnce(t *testing.T) {
	sink := &memorySink{}
	m := newTestModel(t, sink)

	out := screen(m)
	if !strings.Contains(out, "ID:1") || !strings.Contains(out, "RETYPE") || !strings.Contains(out, "the cat sat") {
		t.Fatalf("unexpected start screen:\n%s", out)
	}

	typeText(m, "the cat sat")
	if m.sess.Mode() != session.ModeFinished {
		t.Fatalf("expected finished session, got %s", m.sess.Mode())
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(sink.records))
	}
	if sink.records[0].TextID != "1" || sink.records[0].Accuracy != 100 {
		t.Fatalf("unexpected record %+v", sink.records[0])
	}

	out = screen(m)
	for _, want := range []string{"Your typing speed is", "Enter", "Tab", "Accuracy: 100.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("finished screen missing %q:\n%s", want, out)
		}
	}

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if len(sink.records) != 1 {
		t.Fatalf("expected no further emission")
	}
}

func TestTypoShowsErrorStyle(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "tx")
	m.View()
	if got := m.canvas.StyleAt(2, 1); got.String() != "error" {
		t.Fatalf("expected error style at mismatch, got %s", got)
	}
	if got := m.canvas.StyleAt(2, 0); got.String() != "dim" {
		t.Fatalf("expected dim style on typed prefix, got %s", got)
	}
}

func TestEscapeBeforeStartQuits(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	if !isQuit(send(m, tea.KeyMsg{Type: tea.KeyEsc})) {
		t.Fatalf("expected esc before typing to quit")
	}
}

func TestEscapeAfterStartResets(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "th")
	if isQuit(send(m, tea.KeyMsg{Type: tea.KeyEsc})) {
		t.Fatalf("esc after typing should reset, not quit")
	}
	if m.sess.Started() || m.sess.CurrentString() != "" {
		t.Fatalf("expected reset session")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "th")
	if !isQuit(send(m, tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Fatalf("expected ctrl+c to quit")
	}
}

func TestArrowsSwitchText(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	send(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.text.ID() != "2" || m.sess.Text().ID() != "2" {
		t.Fatalf("expected text 2, got %s", m.text.ID())
	}
	send(m, tea.KeyMsg{Type: tea.KeyLeft})
	send(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.text.ID() != "1" {
		t.Fatalf("expected to stay on text 1, got %s", m.text.ID())
	}
	if !strings.Contains(m.status, "out of range") {
		t.Fatalf("expected range message, got %q", m.status)
	}
	if !strings.Contains(screen(m), "out of range") {
		t.Fatalf("expected status on screen")
	}
}

func TestRetryStartsFreshSession(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "the cat sat")
	finished := m.sess
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.sess == finished || m.sess.Mode() != session.ModeTyping || m.sess.Started() {
		t.Fatalf("expected a fresh session after tab")
	}
}

func TestReplayReproducesRun(t *testing.T) {
	sink := &memorySink{}
	m := newTestModel(t, sink)
	typeText(m, "teh")
	send(m, tea.KeyMsg{Type: tea.KeyCtrlW})
	typeText(m, "the cat sat")
	if m.sess.Mode() != session.ModeFinished {
		t.Fatalf("expected finished run")
	}

	if cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatalf("expected a scheduled replay step")
	}
	r := m.replaying
	if r == nil || !r.IsReplay() {
		t.Fatalf("expected a replay session")
	}
	if !strings.Contains(screen(m), "REPLAY") {
		t.Fatalf("expected replay banner")
	}

	for i := 0; m.replaying != nil; i++ {
		if i > 100 {
			t.Fatalf("replay did not finish")
		}
		m.Update(replayStepMsg{gen: m.replayGen})
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error %v", m.Err())
	}
	if r.Mode() != session.ModeFinished {
		t.Fatalf("expected replay to finish")
	}
	if r.CurrentString() != m.sess.CurrentString() || r.Result() != m.sess.Result() {
		t.Fatalf("replay diverged: %q %+v vs %q %+v", r.CurrentString(), r.Result(), m.sess.CurrentString(), m.sess.Result())
	}
	if len(sink.records) != 1 {
		t.Fatalf("replay must not emit, got %d records", len(sink.records))
	}
}

func TestEscapeStopsReplay(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "the cat sat")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	gen := m.replayGen

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.replaying != nil {
		t.Fatalf("expected replay to stop")
	}
	if m.status != "replay stopped" {
		t.Fatalf("unexpected status %q", m.status)
	}
	m.Update(replayStepMsg{gen: gen})
	if m.replaying != nil || m.sess.Mode() != session.ModeFinished {
		t.Fatalf("stale replay step must be ignored")
	}
}

func TestWindowTooSmallIsFatal(t *testing.T) {
	text, _ := session.NewText("the cat sat", "1")
	m := NewModel(Options{Text: text})
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 40, Height: 5})
	if !isQuit(cmd) {
		t.Fatalf("expected quit")
	}
	if !errors.Is(m.Err(), layout.ErrLayout) {
		t.Fatalf("expected layout error, got %v", m.Err())
	}
}

func TestResizeRewraps(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	m.Update(tea.WindowSizeMsg{Width: 6, Height: 24})
	if m.Err() != nil {
		t.Fatalf("unexpected error %v", m.Err())
	}
	if w, _ := m.sess.Size(); w != 6 {
		t.Fatalf("expected width 6, got %d", w)
	}
	out := screen(m)
	for _, row := range []string{"the", "cat", "sat"} {
		if !strings.Contains(out, row) {
			t.Fatalf("expected %q on its own row:\n%s", row, out)
		}
	}
}

func TestHistoryFailureShownInStatus(t *testing.T) {
	m := newTestModel(t, &memorySink{err: errors.New("disk full")})
	typeText(m, "the cat sat")
	if !strings.Contains(m.status, "failed to save history") || !strings.Contains(m.status, "disk full") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.Err() != nil {
		t.Fatalf("history failure must not be fatal")
	}
}

func TestTickKeepsTicking(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	if _, cmd := m.Update(tickMsg(time.Now())); cmd == nil {
		t.Fatalf("expected another tick")
	}
}

func TestResizeDuringReplayAppliesAfterStop(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "the cat sat")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if w, h := m.sess.Size(); w != 100 || h != 30 {
		t.Fatalf("expected finished run at 100x30, got %dx%d", w, h)
	}
	if m.status != "replay stopped" {
		t.Fatalf("unexpected status %q", m.status)
	}
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	if w, h := m.sess.Size(); w != 100 || h != 30 {
		t.Fatalf("expected retry at 100x30, got %dx%d", w, h)
	}
}

func TestResizeDuringReplayAppliesAtEnd(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "the cat sat")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	for i := 0; m.replaying != nil; i++ {
		if i > 100 {
			t.Fatalf("replay did not finish")
		}
		m.Update(replayStepMsg{gen: m.replayGen})
	}
	if w, h := m.sess.Size(); w != 60 || h != 20 {
		t.Fatalf("expected 60x20 after replay, got %dx%d", w, h)
	}
}

func TestShrinkDuringReplayIsFatalAfterStop(t *testing.T) {
	m := newTestModel(t, &memorySink{})
	typeText(m, "the cat sat")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 5})

	if !isQuit(send(m, tea.KeyMsg{Type: tea.KeyEsc})) {
		t.Fatalf("expected quit when the window no longer fits")
	}
	if !errors.Is(m.Err(), layout.ErrLayout) {
		t.Fatalf("expected layout error, got %v", m.Err())
	}
}
