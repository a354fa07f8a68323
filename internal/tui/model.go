// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/retype/internal/metrics"
	"github.com/verte-zerg/retype/internal/render"
	"github.com/verte-zerg/retype/internal/replay"
	"github.com/verte-zerg/retype/internal/session"
	"github.com/verte-zerg/retype/internal/textsource"
)

// refreshInterval keeps the live speed moving while no keys arrive.
const refreshInterval = 100 * time.Millisecond

type tickMsg time.Time

// replayStepMsg asks for the next replayed key. Steps from an interrupted
// replay carry an old generation and are dropped.
type replayStepMsg struct {
	gen int
}

// Options wire the model to its collaborators.
type Options struct {
	Text   *session.Text
	Source textsource.Source
	Sink   session.Sink
	Logger *zap.Logger
	// Now stamps live keys; time.Now when nil.
	Now func() time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	source textsource.Source
	sink   session.Sink
	logger *zap.Logger
	now    func() time.Time

	text   *session.Text
	sess   *session.Session
	canvas *Canvas
	help   help.Model

	width  int
	height int

	replaying *session.Session
	driver    *replay.Driver
	replayGen int
	lastRun   metrics.Result

	status string
	err    error
}

// NewModel constructs a typing TUI model. The session is created once the
// terminal size is known.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Model{
		source: opts.Source,
		sink:   opts.Sink,
		logger: logger,
		now:    now,
		text:   opts.Text,
		canvas: NewCanvas(0, 0),
		help:   help.New(),
	}
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.handleResize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		return m, tick()
	case replayStepMsg:
		return m, m.handleReplayStep(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess == nil {
		return ""
	}
	render.Paint(m.canvas, m.frame())
	return m.canvas.String()
}

func (m *Model) frame() render.Frame {
	s := m.sess
	var last *metrics.Result
	if m.replaying != nil {
		s = m.replaying
		last = &m.lastRun
	}
	wpm, err := s.LiveWPM(m.now())
	if err != nil {
		wpm = 0
	}
	status := m.status
	if status == "" && m.replaying == nil {
		switch {
		case s.Mode() == session.ModeFinished:
		case s.Started():
			status = m.help.ShortHelpView(keys.typingHelp())
		default:
			status = m.help.ShortHelpView(keys.idleHelp())
		}
	}
	return render.Frame{View: s.View(), LiveWPM: wpm, Last: last, Status: status}
}

func (m *Model) handleResize(width, height int) tea.Cmd {
	m.width, m.height = width, height
	m.canvas.Resize(width, height)
	if m.sess == nil {
		s, err := session.New(m.text, width, height)
		if err != nil {
			return m.fail(err)
		}
		m.sess = s
		m.logger.Debug("session ready", zap.String("text_id", m.text.ID()), zap.Int("width", width), zap.Int("height", height))
		return nil
	}
	if m.replaying != nil {
		return nil
	}
	return m.apply(session.Resize(width, height))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.sess == nil {
		for _, k := range translateKey(msg) {
			if k.Kind == session.KeyInterrupt {
				return tea.Quit
			}
		}
		return nil
	}
	if m.replaying != nil {
		for _, k := range translateKey(msg) {
			switch k.Kind {
			case session.KeyInterrupt:
				return tea.Quit
			case session.KeyEscape:
				return m.stopReplay("replay stopped")
			}
		}
		return nil
	}
	var cmds []tea.Cmd
	for _, k := range translateKey(msg) {
		cmd := m.apply(k)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.err != nil {
			break
		}
	}
	return tea.Batch(cmds...)
}

// apply feeds one live key to the session and carries out the command it returns.
func (m *Model) apply(k session.Key) tea.Cmd {
	upd, err := m.sess.Apply(k, m.now())
	if err != nil {
		return m.fail(err)
	}
	if upd.Changed || upd.Command != session.CommandNone {
		m.status = ""
	}
	if upd.Finished {
		m.finishRun()
	}
	switch upd.Command {
	case session.CommandQuit:
		return tea.Quit
	case session.CommandRetry:
		return m.retry()
	case session.CommandReplay:
		return m.startReplay()
	case session.CommandPrevText:
		return m.switchText(-1)
	case session.CommandNextText:
		return m.switchText(1)
	}
	return nil
}

func (m *Model) finishRun() {
	res := m.sess.Result()
	m.logger.Info("run finished",
		zap.String("text_id", m.text.ID()),
		zap.Float64("wpm", res.WPM),
		zap.Float64("accuracy", res.Accuracy),
		zap.Duration("elapsed", res.Elapsed),
	)
	if m.sink == nil {
		return
	}
	if err := m.sess.Emit(context.Background(), m.sink); err != nil {
		m.logger.Error("history append failed", zap.Error(err))
		m.status = err.Error()
	}
}

func (m *Model) retry() tea.Cmd {
	s, err := m.sess.Retry()
	if err != nil {
		return m.fail(err)
	}
	m.sess = s
	return nil
}

func (m *Model) switchText(delta int) tea.Cmd {
	if m.source == nil {
		return nil
	}
	text, err := m.source.Offset(context.Background(), m.text.ID(), delta)
	if err != nil {
		m.status = switchStatus(err)
		m.logger.Debug("text switch refused", zap.Int("delta", delta), zap.Error(err))
		return nil
	}
	s, err := session.New(text, m.width, m.height)
	if err != nil {
		m.status = fmt.Sprintf("text %s does not fit: %v", text.ID(), err)
		return nil
	}
	m.text, m.sess = text, s
	m.logger.Debug("text switched", zap.String("text_id", text.ID()))
	return nil
}

func switchStatus(err error) string {
	switch {
	case errors.Is(err, textsource.ErrUnsupported):
		return "this text source cannot switch texts"
	case errors.Is(err, textsource.ErrOutOfRange):
		return err.Error()
	default:
		return fmt.Sprintf("failed to switch text: %v", err)
	}
}

func (m *Model) startReplay() tea.Cmd {
	r, err := m.sess.ReplaySession()
	if err != nil {
		return m.fail(err)
	}
	m.replaying = r
	m.lastRun = m.sess.Result()
	m.driver = replay.New(m.sess.KeyLog(), m.now())
	m.replayGen++
	m.logger.Debug("replay started", zap.Int("keys", len(m.sess.KeyLog())))
	return m.scheduleStep()
}

func (m *Model) scheduleStep() tea.Cmd {
	pause, ok := m.driver.Pause()
	if !ok {
		return m.stopReplay("")
	}
	gen := m.replayGen
	return tea.Tick(pause, func(time.Time) tea.Msg { return replayStepMsg{gen: gen} })
}

func (m *Model) handleReplayStep(msg replayStepMsg) tea.Cmd {
	if m.replaying == nil || msg.gen != m.replayGen {
		return nil
	}
	st, ok := m.driver.Next()
	if !ok {
		return m.stopReplay("")
	}
	if _, err := replay.Feed(m.replaying, st); err != nil {
		return m.fail(err)
	}
	return m.scheduleStep()
}

// stopReplay returns to the finished run and lays it out for any window size
// that arrived while the replay was running.
func (m *Model) stopReplay(status string) tea.Cmd {
	m.replaying = nil
	m.driver = nil
	m.replayGen++
	var cmd tea.Cmd
	if w, h := m.sess.Size(); w != m.width || h != m.height {
		cmd = m.apply(session.Resize(m.width, m.height))
	}
	if m.err == nil {
		m.status = status
	}
	return cmd
}

// fail records a fatal error and quits.
func (m *Model) fail(err error) tea.Cmd {
	m.err = err
	m.logger.Error("fatal", zap.Error(err))
	return tea.Quit
}
