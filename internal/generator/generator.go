// Package generator proposes replacement candidates for a single anomaly.
// Generators only read the dictionary and the document; they never touch the
// anomaly they are asked about.
package generator

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"spellcheck/internal/annotation"
	"spellcheck/internal/dictionary"
)

// ErrResourceUnavailable is returned by generators whose optional resource
// (layout, phoneme table, engine) is not configured. Callers treat it as an
// empty contribution.
var ErrResourceUnavailable = errors.New("generator: resource unavailable")

type Request struct {
	Anomaly       *annotation.Anomaly
	Document      *annotation.Document
	Dictionary    *dictionary.Dictionary
	MaxCandidates int
}

func (r Request) query() string {
	return dictionary.Normalize(r.Anomaly.Surface)
}

func (r Request) limit(cs []annotation.Candidate) []annotation.Candidate {
	if r.MaxCandidates > 0 && len(cs) > r.MaxCandidates {
		return cs[:r.MaxCandidates]
	}
	return cs
}

type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) ([]annotation.Candidate, error)
}

type scored struct {
	word string
	cost float64
	freq int64
}

// best sorts by cost, then frequency descending, then lexically.
func best(items []scored, source string) []annotation.Candidate {
	slices.SortFunc(items, func(a, b scored) int {
		if c := cmp.Compare(a.cost, b.cost); c != 0 {
			return c
		}
		if c := cmp.Compare(b.freq, a.freq); c != 0 {
			return c
		}
		return cmp.Compare(a.word, b.word)
	})
	out := make([]annotation.Candidate, len(items))
	for i, it := range items {
		out[i] = annotation.Candidate{Text: it.word, Source: source, Cost: it.cost}
	}
	return out
}
