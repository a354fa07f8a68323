package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

var (
	// ErrEmptyText is returned for a text without any words.
	ErrEmptyText = errors.New("text is empty")
	// ErrCellWidth is returned for a text holding characters that do not take
	// exactly one terminal cell, such as CJK ideographs or combining marks.
	ErrCellWidth = errors.New("text has characters wider or narrower than one cell")
)

// wordLimitSlack is how far past the longest word the input buffer may grow.
const wordLimitSlack = 5

// Text is the immutable reference text of a session.
type Text struct {
	id        string
	raw       string
	length    int
	tokens    []string
	wordLimit int
}

// NewText splits body on whitespace and joins the words with single spaces.
// Every character must fill exactly one cell, so that a rune index maps
// straight to a screen column.
func NewText(body, id string) (*Text, error) {
	tokens := strings.Fields(body)
	if len(tokens) == 0 {
		return nil, ErrEmptyText
	}
	longest := 0
	for _, tok := range tokens {
		for _, r := range tok {
			if runewidth.RuneWidth(r) != 1 {
				return nil, fmt.Errorf("%w: %q", ErrCellWidth, r)
			}
		}
		if n := utf8.RuneCountInString(tok); n > longest {
			longest = n
		}
	}
	raw := strings.Join(tokens, " ")
	return &Text{
		id:        id,
		raw:       raw,
		length:    utf8.RuneCountInString(raw),
		tokens:    tokens,
		wordLimit: longest + wordLimitSlack,
	}, nil
}

// ID identifies where the text came from.
func (t *Text) ID() string { return t.id }

// Raw returns the single-spaced, unwrapped text.
func (t *Text) Raw() string { return t.raw }

// Len returns the length of Raw in characters.
func (t *Text) Len() int { return t.length }

// Tokens returns a copy of the words of the text.
func (t *Text) Tokens() []string {
	out := make([]string, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// WordLimit caps the in-progress word buffer.
func (t *Text) WordLimit() int { return t.wordLimit }
