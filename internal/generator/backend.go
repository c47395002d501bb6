package generator

import (
	"context"

	"spellcheck/internal/annotation"
	"spellcheck/internal/dictionary"
	"spellcheck/internal/engine"
)

// Backend forwards to an external engine's suggestions. Cost is the rank the
// engine gave.
type Backend struct {
	Engine engine.Engine
}

func (Backend) Name() string { return "backend" }

func (g Backend) Generate(ctx context.Context, req Request) ([]annotation.Candidate, error) {
	if g.Engine == nil {
		return nil, ErrResourceUnavailable
	}
	sugg, err := g.Engine.Suggest(ctx, req.Anomaly.Surface)
	if err != nil {
		return nil, err
	}
	w := req.query()
	out := make([]annotation.Candidate, 0, len(sugg))
	for _, s := range sugg {
		if s == "" || dictionary.Normalize(s) == w {
			continue
		}
		out = append(out, annotation.Candidate{Text: s, Source: g.Name(), Cost: float64(len(out))})
	}
	return req.limit(out), nil
}
