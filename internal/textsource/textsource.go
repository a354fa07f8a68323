// Package textsource loads reference texts for practice sessions.
package textsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/retype/internal/session"
)

var (
	// ErrOutOfRange is the parent of every RangeError.
	ErrOutOfRange = errors.New("out of range")
	// ErrUnsupported is returned by sources that cannot serve a request.
	ErrUnsupported = errors.New("not supported by this source")
)

// Difficulty bounds; 0 asks for a random difficulty.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// RangeError reports a text ID or difficulty outside what a source holds.
type RangeError struct {
	What  string
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	if e.Max < e.Min {
		return fmt.Sprintf("%s %d out of range: no texts available", e.What, e.Value)
	}
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.What, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Source hands out reference texts.
type Source interface {
	// Get returns the text with the given ID.
	Get(ctx context.Context, id string) (*session.Text, error)
	// Random returns a text of the given difficulty.
	Random(ctx context.Context, difficulty int) (*session.Text, error)
	// Offset returns the text delta positions away from id.
	Offset(ctx context.Context, id string, delta int) (*session.Text, error)
}

// SplitTexts reads texts separated by blank lines. Lines of one text are
// joined with single spaces.
func SplitTexts(r io.Reader) ([]string, error) {
	var (
		texts []string
		cur   []string
	)
	flush := func() {
		if len(cur) > 0 {
			texts = append(texts, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return texts, nil
}
