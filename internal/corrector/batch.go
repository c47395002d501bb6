package corrector

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CheckSpellingItems checks items concurrently, at most Workers at a time.
// Items share nothing but the read-only dictionary snapshot, so results are
// the same as checking each one alone. A failing item is reported in its own
// result; only cancellation of ctx fails the batch.
func (sc *SpellChecker) CheckSpellingItems(ctx context.Context, items []SpellingItem) ([]ItemResult, error) {
	batch := uuid.NewString()
	l := sc.log.With().Str("batch", batch).Logger()
	start := time.Now()
	l.Info().Int("items", len(items)).Msg("batch started")

	results := make([]ItemResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(sc.opts.Workers, 1))
	for i, it := range items {
		g.Go(func() error {
			results[i] = sc.checkItem(gctx, it)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		l.Warn().Err(err).Msg("batch aborted")
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Code != CodeOK {
			failed++
		}
	}
	l.Info().Int("items", len(items)).Int("failed", failed).Dur("elapsed", time.Since(start)).Msg("batch finished")
	return results, nil
}

func (sc *SpellChecker) checkItem(ctx context.Context, it SpellingItem) ItemResult {
	r := ItemResult{CorpusID: it.CorpusID, DocumentID: it.DocumentID, Code: CodeOK}
	res, err := sc.CheckText(ctx, it.Text)
	if err != nil {
		r.Code, r.Error = Classify(err), err.Error()
		return r
	}
	r.Result = res
	if it.ErrorSpan == nil {
		return r
	}
	for _, f := range res.Errors {
		if f.Offset < it.ErrorSpan.End && it.ErrorSpan.Begin < f.End {
			r.Detected = true
			r.GoldSuggestions = f.Suggestions
			break
		}
	}
	if it.GoldCorrection != "" {
		r.GoldFound = slices.Contains(r.GoldSuggestions, it.GoldCorrection)
	}
	return r
}
