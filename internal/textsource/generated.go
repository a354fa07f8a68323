package textsource

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/verte-zerg/retype/internal/generator"
	"github.com/verte-zerg/retype/internal/session"
)

// Generated makes fresh random-word texts. IDs are "W1", "W2", ...
type Generated struct {
	gen   *generator.Generator
	words []string
	opts  generator.Options
	seq   atomic.Int64
}

// NewGenerated returns a source drawing words from the given list.
func NewGenerated(gen *generator.Generator, words []string, opts generator.Options) *Generated {
	return &Generated{gen: gen, words: words, opts: opts}
}

// Get is not supported; generated texts are not stored.
func (g *Generated) Get(_ context.Context, id string) (*session.Text, error) {
	return nil, fmt.Errorf("text %s: %w", id, ErrUnsupported)
}

// Random produces a new text; difficulty is ignored.
func (g *Generated) Random(context.Context, int) (*session.Text, error) {
	return g.next()
}

// Offset produces a new text in either direction.
func (g *Generated) Offset(context.Context, string, int) (*session.Text, error) {
	return g.next()
}

func (g *Generated) next() (*session.Text, error) {
	body := g.gen.Text(g.words, g.opts)
	text, err := session.NewText(body, fmt.Sprintf("W%d", g.seq.Add(1)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}
	return text, nil
}
