package generator

import (
	"context"
	"math"
	"strings"

	"spellcheck/internal/annotation"
	"spellcheck/internal/dictionary"
)

// MissingSpace repairs word boundaries. It splits an anomaly into two known
// words, and merges it with the following anomalous token when only
// whitespace separates them and the concatenation is known.
type MissingSpace struct {
	// MinPartLength is the shortest half a split may produce, in runes.
	MinPartLength int
}

func (MissingSpace) Name() string { return "missing_space" }

func (g MissingSpace) Generate(ctx context.Context, req Request) ([]annotation.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	minPart := max(g.MinPartLength, 1)
	var out []annotation.Candidate

	if m, ok := g.merge(req); ok {
		out = append(out, m)
	}

	w := []rune(req.query())
	mid := float64(len(w)) / 2
	var splits []scored
	for i := minPart; i <= len(w)-minPart; i++ {
		left, right := string(w[:i]), string(w[i:])
		if !req.Dictionary.Contains(left) || !req.Dictionary.Contains(right) {
			continue
		}
		freq := min(req.Dictionary.Frequency(left), req.Dictionary.Frequency(right))
		splits = append(splits, scored{word: left + " " + right, cost: math.Abs(float64(i) - mid), freq: freq})
	}
	out = append(out, best(splits, g.Name())...)
	return req.limit(out), nil
}

func (g MissingSpace) merge(req Request) (annotation.Candidate, bool) {
	doc := req.Document
	if doc == nil {
		return annotation.Candidate{}, false
	}
	last := req.Anomaly.Span.Last
	tokens := doc.Tokens()
	if last+1 >= len(tokens) {
		return annotation.Candidate{}, false
	}
	next := tokens[last+1]
	gap := doc.Gap(last)
	if next.Kind != annotation.Word || gap == "" || strings.TrimSpace(gap) != "" {
		return annotation.Candidate{}, false
	}
	if doc.AnomalyAt(last+1) == nil {
		return annotation.Candidate{}, false
	}
	joined := req.Anomaly.Surface + next.Surface
	if !req.Dictionary.Contains(joined) {
		return annotation.Candidate{}, false
	}
	return annotation.Candidate{
		Text:   dictionary.Normalize(joined),
		Source: g.Name(),
		Span:   annotation.Span{First: req.Anomaly.Span.First, Last: last + 1},
	}, true
}
