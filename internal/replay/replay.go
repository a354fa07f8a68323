// Package replay re-drives a finished session's key log at its recorded pace.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/retype/internal/session"
)

// Clock supplies wall time and sleeps to Run.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time                         { return time.Now() }
func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// WallClock is the real clock.
var WallClock Clock = wallClock{}

// Step is one logged key stamped with the virtual clock.
type Step struct {
	Key   session.Key
	At    time.Time
	Delta time.Duration
}

// Driver walks a delta-encoded key log. Each key is stamped with
// base plus the sum of the deltas so far.
type Driver struct {
	log []session.Keystroke
	pos int
	at  time.Time
}

// New returns a driver over log whose virtual clock starts at base.
func New(log []session.Keystroke, base time.Time) *Driver {
	return &Driver{log: log, at: base}
}

// Next advances to the next key. Negative deltas are treated as zero.
func (d *Driver) Next() (Step, bool) {
	if d.pos >= len(d.log) {
		return Step{}, false
	}
	ks := d.log[d.pos]
	d.pos++
	delta := clamp(ks.Delta)
	d.at = d.at.Add(delta)
	return Step{Key: ks.Key, At: d.at, Delta: delta}, true
}

// Pause returns the wait before the next key.
func (d *Driver) Pause() (time.Duration, bool) {
	if d.pos >= len(d.log) {
		return 0, false
	}
	return clamp(d.log[d.pos].Delta), true
}

// Done reports whether every key has been handed out.
func (d *Driver) Done() bool { return d.pos >= len(d.log) }

// Progress returns how many keys were handed out and the log length.
func (d *Driver) Progress() (done, total int) { return d.pos, len(d.log) }

// Feed pushes one step through the same transition used for live input.
func Feed(s *session.Session, st Step) (session.Update, error) {
	upd, err := s.Apply(st.Key, st.At)
	if err != nil {
		return upd, fmt.Errorf("failed to replay %s: %w", st.Key, err)
	}
	return upd, nil
}

// Run replays log into s, sleeping between keys for the recorded pauses.
// Pauses are measured against a running schedule so processing time does not
// accumulate. Cancelling ctx stops the replay before the next key.
func Run(ctx context.Context, s *session.Session, log []session.Keystroke, clock Clock, onStep func(Step, session.Update)) error {
	if clock == nil {
		clock = WallClock
	}
	start := clock.Now()
	d := New(log, start)
	next := start
	for {
		st, ok := d.Next()
		if !ok {
			return nil
		}
		next = next.Add(st.Delta)
		if wait := next.Sub(clock.Now()); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-clock.After(wait):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		upd, err := Feed(s, st)
		if err != nil {
			return err
		}
		if onStep != nil {
			onStep(st, upd)
		}
	}
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
