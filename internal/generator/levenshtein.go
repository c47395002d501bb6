package generator

import (
	"context"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"spellcheck/internal/annotation"
)

const DefaultMaxDistance = 2

// Levenshtein proposes dictionary words within MaxDistance edits of the
// anomaly. Adjacent transpositions count as one edit.
type Levenshtein struct {
	MaxDistance int
}

func (Levenshtein) Name() string { return "levenshtein" }

func (g Levenshtein) Generate(ctx context.Context, req Request) ([]annotation.Candidate, error) {
	d := g.MaxDistance
	if d <= 0 {
		d = DefaultMaxDistance
	}
	w := req.query()
	n := utf8.RuneCountInString(w)
	var items []scored
	i := 0
	req.Dictionary.Range(n-d, n+d, func(word string, freq int64) bool {
		i++
		if i%4096 == 0 && ctx.Err() != nil {
			return false
		}
		if word == w {
			return true
		}
		if dist := edlib.OSADamerauLevenshteinDistance(w, word); dist <= d {
			items = append(items, scored{word: word, cost: float64(dist), freq: freq})
		}
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return req.limit(best(items, g.Name())), nil
}
