package textsource

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/retype/internal/model"
	"github.com/verte-zerg/retype/internal/session"
	"github.com/verte-zerg/retype/internal/store"
)

//go:embed default_texts.txt
var defaultTexts string

// CorpusStore is the part of the store a Corpus needs.
type CorpusStore interface {
	CountTexts(ctx context.Context) (int64, error)
	GetText(ctx context.Context, id int64) (model.TextEntry, error)
	InsertTexts(ctx context.Context, bodies []string) ([]int64, error)
	ListTexts(ctx context.Context) ([]model.TextEntry, error)
}

// Corpus serves numbered texts from the SQLite store. IDs run from 1 to the
// number of texts, and difficulty d covers the d-th fifth of that range.
type Corpus struct {
	store  CorpusStore
	rnd    *rand.Rand
	logger *zap.Logger
}

// NewCorpus returns a corpus over st, seeding it with the built-in texts when
// it is empty.
func NewCorpus(ctx context.Context, st CorpusStore, logger *zap.Logger) (*Corpus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Corpus{
		store:  st,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
	n, err := st.CountTexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count texts: %w", err)
	}
	if n == 0 {
		bodies, err := DefaultTexts()
		if err != nil {
			return nil, err
		}
		if _, err := st.InsertTexts(ctx, bodies); err != nil {
			return nil, fmt.Errorf("failed to seed corpus: %w", err)
		}
		logger.Info("seeded corpus", zap.Int("texts", len(bodies)))
	}
	return c, nil
}

// DefaultTexts returns the built-in corpus.
func DefaultTexts() ([]string, error) {
	return SplitTexts(strings.NewReader(defaultTexts))
}

// Import appends texts to the corpus.
func (c *Corpus) Import(ctx context.Context, bodies []string) ([]int64, error) {
	for i, body := range bodies {
		if _, err := session.NewText(body, ""); err != nil {
			return nil, fmt.Errorf("failed to import text %d: %w", i+1, err)
		}
	}
	ids, err := c.store.InsertTexts(ctx, bodies)
	if err != nil {
		return nil, fmt.Errorf("failed to import texts: %w", err)
	}
	c.logger.Info("imported texts", zap.Int("texts", len(ids)))
	return ids, nil
}

// Get returns the text with a numeric ID.
func (c *Corpus) Get(ctx context.Context, id string) (*session.Text, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text id %q: %w", id, err)
	}
	return c.byID(ctx, n)
}

// Random picks a text from the given difficulty bucket; 0 picks the bucket too.
func (c *Corpus) Random(ctx context.Context, difficulty int) (*session.Text, error) {
	if difficulty == 0 {
		difficulty = MinDifficulty + c.rnd.Intn(MaxDifficulty-MinDifficulty+1)
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return nil, &RangeError{What: "difficulty", Value: int64(difficulty), Min: MinDifficulty, Max: MaxDifficulty}
	}
	count, err := c.store.CountTexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count texts: %w", err)
	}
	if count == 0 {
		return nil, &RangeError{What: "difficulty", Value: int64(difficulty), Min: 1, Max: 0}
	}
	lo, hi := Bucket(difficulty, count)
	id := lo + c.rnd.Int63n(hi-lo+1)
	c.logger.Debug("random text", zap.Int("difficulty", difficulty), zap.Int64("id", id))
	return c.byID(ctx, id)
}

// Offset returns the neighbour delta positions away from id.
func (c *Corpus) Offset(ctx context.Context, id string, delta int) (*session.Text, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text id %q: %w", id, err)
	}
	return c.byID(ctx, n+int64(delta))
}

// Bucket returns the inclusive ID range of a difficulty for a corpus of count
// texts. Buckets never come out empty.
func Bucket(difficulty int, count int64) (lo, hi int64) {
	d := int64(difficulty)
	lo = (d-1)*count/MaxDifficulty + 1
	hi = d * count / MaxDifficulty
	if lo > count {
		lo = count
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func (c *Corpus) byID(ctx context.Context, id int64) (*session.Text, error) {
	count, err := c.store.CountTexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count texts: %w", err)
	}
	if id < 1 || id > count {
		return nil, &RangeError{What: "text id", Value: id, Min: 1, Max: count}
	}
	entry, err := c.store.GetText(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &RangeError{What: "text id", Value: id, Min: 1, Max: count}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load text %d: %w", id, err)
	}
	text, err := session.NewText(entry.Body, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to load text %d: %w", id, err)
	}
	return text, nil
}
