// Package metrics computes typing speed, accuracy, and elapsed time.
package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrClockSkew is returned when the clock reads earlier than a previous reading.
var ErrClockSkew = errors.New("timing error: clock moved backwards")

// Result holds the metrics of a finished run.
type Result struct {
	WPM      float64
	Accuracy float64
	Elapsed  time.Duration
}

// Minutes returns the elapsed time in minutes.
func (r Result) Minutes() float64 {
	return r.Elapsed.Minutes()
}

// Seconds returns the elapsed time in seconds.
func (r Result) Seconds() float64 {
	return r.Elapsed.Seconds()
}

// ElapsedMinutes returns the minutes between start and now.
func ElapsedMinutes(start, now time.Time) (float64, error) {
	d := now.Sub(start)
	if d < 0 {
		return 0, fmt.Errorf("%w by %s", ErrClockSkew, -d)
	}
	return d.Minutes(), nil
}

// WPM returns words per minute. A zero elapsed time reports no rate yet.
func WPM(tokens int, minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	return float64(tokens) / minutes
}

// Accuracy returns the percentage of keystrokes that were not wrong.
func Accuracy(total, wrong int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(total-wrong) / float64(total) * 100
}

// WrongTyped counts keystrokes beyond the length of the reference text.
func WrongTyped(total, referenceLen int) int {
	if total < referenceLen {
		return 0
	}
	return total - referenceLen
}

// WordCount counts whitespace-delimited words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Compute builds the result of a run from its token count, keystroke totals,
// and start/end instants.
func Compute(tokens, totalTyped, referenceLen int, start, end time.Time) (Result, error) {
	minutes, err := ElapsedMinutes(start, end)
	if err != nil {
		return Result{}, err
	}
	return Result{
		WPM:      WPM(tokens, minutes),
		Accuracy: Accuracy(totalTyped, WrongTyped(totalTyped, referenceLen)),
		Elapsed:  end.Sub(start),
	}, nil
}
