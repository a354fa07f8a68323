package textsource

import (
	"context"
	"fmt"

	"github.com/sahilm/fuzzy"
)

// Match is one fuzzy search hit.
type Match struct {
	ID      int64
	Body    string
	Score   int
	Indexes []int
}

// Search fuzzy-matches query against every corpus text, best first. A
// non-positive limit returns all matches.
func (c *Corpus) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	texts, err := c.store.ListTexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list texts: %w", err)
	}
	bodies := make([]string, len(texts))
	for i, t := range texts {
		bodies[i] = t.Body
	}
	found := fuzzy.Find(query, bodies)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, Match{
			ID:      texts[m.Index].ID,
			Body:    m.Str,
			Score:   m.Score,
			Indexes: m.MatchedIndexes,
		})
	}
	return out, nil
}
