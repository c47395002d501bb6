package corrector

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"spellcheck/internal/annotation"
	"spellcheck/internal/dictionary"
	"spellcheck/internal/engine"
	"spellcheck/internal/generator"
	"spellcheck/internal/ranker"
)

type call struct {
	cands []annotation.Candidate
	err   error
}

// generate runs every generator on every spelling anomaly. Calls run
// concurrently under GeneratorConcurrency, each bounded by GeneratorTimeout;
// results are gathered per anomaly before any of them is ranked. The
// returned slice is indexed like doc.Anomalies(); grammar anomalies get nil.
func (sc *SpellChecker) generate(ctx context.Context, doc *annotation.Document, dict *dictionary.Dictionary, reports map[string]SourceReport, l zerolog.Logger) [][]ranker.Source {
	anomalies := doc.Anomalies()
	calls := make([][]call, len(anomalies))
	conc := max(sc.opts.GeneratorConcurrency, 1)
	sem := make(chan struct{}, conc)
	var wg sync.WaitGroup
	for i, a := range anomalies {
		if a.Kind == annotation.KindGrammar {
			continue
		}
		calls[i] = make([]call, len(sc.generators))
		req := generator.Request{Anomaly: a, Document: doc, Dictionary: dict, MaxCandidates: sc.opts.MaxCandidates}
		for j, g := range sc.generators {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				calls[i][j] = call{err: ctx.Err()}
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				cs, err := engine.Bounded(ctx, sc.opts.GeneratorTimeout, func(ctx context.Context) ([]annotation.Candidate, error) {
					return g.Generate(ctx, req)
				})
				calls[i][j] = call{cands: cs, err: err}
			}()
		}
	}
	wg.Wait()

	out := make([][]ranker.Source, len(anomalies))
	for i, a := range anomalies {
		if calls[i] == nil {
			continue
		}
		out[i] = make([]ranker.Source, 0, len(sc.generators))
		for j, g := range sc.generators {
			c := calls[i][j]
			rep := reports[g.Name()]
			if rep.Status == "" {
				rep.Status = CodeOK
			}
			rep.Calls++
			var kept []annotation.Candidate
			err := c.err
			if err == nil {
				kept, err = validate(doc, a, g.Name(), c.cands)
			}
			if err != nil {
				serr := &SourceError{Source: g.Name(), Err: err}
				code := Classify(serr)
				rep.Failures++
				if rep.Status == CodeOK {
					rep.Status, rep.Error = code, serr.Error()
				}
				ev := l.Warn()
				if code == CodeUnavailable {
					ev = l.Debug()
				}
				ev.Err(err).Str("source", g.Name()).Str("code", code).Str("word", a.Surface).Msg("source degraded")
			}
			rep.Candidates += len(kept)
			reports[g.Name()] = rep
			out[i] = append(out[i], ranker.Source{Name: g.Name(), Candidates: kept})
		}
	}
	return out
}

// validate tags candidates with their source and rejects the whole
// contribution when any span is invalid.
func validate(doc *annotation.Document, a *annotation.Anomaly, source string, cs []annotation.Candidate) ([]annotation.Candidate, error) {
	out := make([]annotation.Candidate, 0, len(cs))
	for _, c := range cs {
		if c.Source == "" {
			c.Source = source
		}
		v, err := doc.ValidateCandidate(a, c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
