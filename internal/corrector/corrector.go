// Package corrector runs the spelling pipeline: tokenize, detect, generate,
// rank and optionally rewrite.
package corrector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"spellcheck/internal/annotation"
	"spellcheck/internal/customdict"
	"spellcheck/internal/detector"
	"spellcheck/internal/dictionary"
	"spellcheck/internal/generator"
	"spellcheck/internal/ranker"
	"spellcheck/pkg/options"
)

// Phase is the pipeline step a check is in.
type Phase int

const (
	Idle Phase = iota
	Tokenized
	Detected
	Generated
	Ranked
	Corrected
)

func (p Phase) String() string {
	switch p {
	case Tokenized:
		return "tokenized"
	case Detected:
		return "detected"
	case Generated:
		return "generated"
	case Ranked:
		return "ranked"
	case Corrected:
		return "corrected"
	}
	return "idle"
}

type SpellChecker struct {
	opts       options.CheckerOptions
	log        zerolog.Logger
	detector   detector.Detector
	generators []generator.Generator
	ranker     ranker.Ranker

	dict atomic.Pointer[dictionary.Dictionary]

	mu          sync.Mutex // guards base, customWords and dictionary swaps
	base        *dictionary.Dictionary
	customWords mapset.Set[string]
	custom      *customdict.CustomDict
}

// New builds a checker over base. Custom words stored in cfg.Custom are
// overlaid on base before the first check.
func New(ctx context.Context, base *dictionary.Dictionary, cfg Config) (*SpellChecker, error) {
	if base == nil {
		base = dictionary.New(nil)
	}
	opts := cfg.Options
	if opts == (options.CheckerOptions{}) {
		opts = options.DefaultOptions
	}
	sc := &SpellChecker{
		opts:        opts,
		log:         cfg.Logger,
		detector:    cfg.Detector,
		generators:  cfg.Generators,
		ranker:      cfg.Ranker,
		base:        base,
		customWords: mapset.NewThreadUnsafeSet[string](),
		custom:      cfg.Custom,
	}
	if sc.detector == nil {
		sc.detector = detector.Dictionary{SkipCapitalized: opts.SkipCapitalized}
	}
	if sc.generators == nil {
		sc.generators = DefaultGenerators(opts)
	}
	if sc.ranker == nil {
		sc.ranker = ranker.Ensemble{K: opts.RRFConstant}
	}
	if sc.custom != nil {
		words, err := sc.custom.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("corrector: load custom words: %w", err)
		}
		sc.customWords.Append(words...)
	}
	sc.swap()
	return sc, nil
}

// DefaultGenerators are the dictionary-only generators. Boundary repairs
// come first so they win fusion ties against same-text edits.
func DefaultGenerators(opts options.CheckerOptions) []generator.Generator {
	return []generator.Generator{
		generator.MissingSpace{MinPartLength: opts.MinPartLength},
		generator.Levenshtein{MaxDistance: opts.MaxEditDistance},
	}
}

// swap publishes base plus custom words. Callers hold mu, or own sc.
func (sc *SpellChecker) swap() {
	sc.dict.Store(sc.base.With(sc.customWords.ToSlice(), dictionary.CustomFrequency))
}

// Dictionary returns the dictionary checks currently start from.
func (sc *SpellChecker) Dictionary() *dictionary.Dictionary {
	return sc.dict.Load()
}

// SetBase replaces the base dictionary, keeping custom words.
func (sc *SpellChecker) SetBase(base *dictionary.Dictionary) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.base = base
	sc.swap()
}

// AddCustomWord stores word and makes it known to subsequent checks.
func (sc *SpellChecker) AddCustomWord(ctx context.Context, word string) error {
	w := dictionary.Normalize(strings.TrimSpace(word))
	if w == "" {
		return fmt.Errorf("%w: empty word", annotation.ErrEmptyInput)
	}
	if sc.custom != nil {
		if err := sc.custom.Add(ctx, w); err != nil {
			return err
		}
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.customWords.Add(w)
	sc.swap()
	sc.log.Info().Str("word", w).Msg("custom word added")
	return nil
}

// RemoveCustomWord forgets a custom word. Words of the base dictionary stay.
func (sc *SpellChecker) RemoveCustomWord(ctx context.Context, word string) error {
	w := dictionary.Normalize(strings.TrimSpace(word))
	if w == "" {
		return fmt.Errorf("%w: empty word", annotation.ErrEmptyInput)
	}
	if sc.custom != nil {
		if err := sc.custom.Remove(ctx, w); err != nil {
			return err
		}
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.customWords.Remove(w)
	sc.swap()
	sc.log.Info().Str("word", w).Msg("custom word removed")
	return nil
}

// ReloadCustomWords re-reads the custom word store, picking up changes made
// by other instances.
func (sc *SpellChecker) ReloadCustomWords(ctx context.Context) error {
	if sc.custom == nil {
		return nil
	}
	words, err := sc.custom.All(ctx)
	if err != nil {
		return err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.customWords = mapset.NewThreadUnsafeSet(words...)
	sc.swap()
	return nil
}

// CustomWords lists custom words in no particular order.
func (sc *SpellChecker) CustomWords() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.customWords.ToSlice()
}

// CheckText reports anomalies and ranked candidates without changing text.
func (sc *SpellChecker) CheckText(ctx context.Context, text string) (*Result, error) {
	doc, reports, err := sc.run(ctx, text, sc.newLogger())
	if err != nil {
		return nil, err
	}
	return sc.result(doc, reports), nil
}

// CorrectText returns text with corrections applied. With autoCorrect the
// top candidate always wins; otherwise it must lead the runner-up by
// AutoCorrectMargin.
func (sc *SpellChecker) CorrectText(ctx context.Context, text string, autoCorrect bool) (string, error) {
	c, err := sc.Correct(ctx, text, autoCorrect)
	if err != nil {
		return "", err
	}
	return c.Corrected, nil
}

// Correct is CorrectText with the edits and the underlying check result.
func (sc *SpellChecker) Correct(ctx context.Context, text string, autoCorrect bool) (*Correction, error) {
	l := sc.newLogger()
	doc, reports, err := sc.run(ctx, text, l)
	if err != nil {
		return nil, err
	}
	out, edits := doc.ApplyCorrectionsFunc(func(a *annotation.Anomaly) (annotation.Candidate, bool) {
		return sc.pick(doc, a, autoCorrect)
	})
	l.Debug().Stringer("phase", Corrected).Int("edits", len(edits)).Msg("phase")
	return &Correction{
		Original:  text,
		Corrected: out,
		Edits:     edits,
		Result:    sc.result(doc, reports),
	}, nil
}

func (sc *SpellChecker) pick(doc *annotation.Document, a *annotation.Anomaly, autoCorrect bool) (annotation.Candidate, bool) {
	if a.Kind == annotation.KindGrammar {
		return annotation.Candidate{}, false
	}
	top, ok := a.Top()
	if !ok {
		return top, false
	}
	if !autoCorrect {
		runnerUp := 0.0
		if len(a.Candidates) > 1 {
			runnerUp = a.Candidates[1].Score
		}
		if top.Score-runnerUp < sc.opts.AutoCorrectMargin {
			return top, false
		}
	}
	if sc.opts.PreserveCase {
		span := top.Span
		if span == (annotation.Span{}) {
			span = a.Span
		}
		top.Text = matchCase(doc.TokenText(span), top.Text)
	}
	return top, true
}

func (sc *SpellChecker) result(doc *annotation.Document, reports map[string]SourceReport) *Result {
	res := &Result{Text: doc.Text(), Errors: []Finding{}, Sources: reports}
	for _, a := range doc.Anomalies() {
		f := Finding{
			Word:        a.Surface,
			Offset:      a.Begin,
			End:         a.End,
			Kind:        a.Kind,
			Detector:    a.Detector,
			Message:     a.Message,
			Suggestions: []string{},
			Candidates:  a.Candidates,
		}
		for _, c := range a.Candidates {
			if sc.opts.MaxCandidates > 0 && len(f.Suggestions) >= sc.opts.MaxCandidates {
				break
			}
			s := c.Text
			if sc.opts.PreserveCase && c.Span == a.Span {
				s = matchCase(a.Surface, s)
			}
			f.Suggestions = append(f.Suggestions, s)
		}
		res.Errors = append(res.Errors, f)
	}
	res.ErrorCount = len(res.Errors)
	return res
}

func (sc *SpellChecker) newLogger() zerolog.Logger {
	return sc.log.With().Str("check", uuid.NewString()).Logger()
}

// run executes the pipeline up to ranking.
func (sc *SpellChecker) run(ctx context.Context, text string, l zerolog.Logger) (*annotation.Document, map[string]SourceReport, error) {
	dict := sc.dict.Load()
	reports := make(map[string]SourceReport)

	doc := annotation.New(text)
	if err := doc.Tokenize(); err != nil {
		if errors.Is(err, annotation.ErrEmptyInput) {
			l.Debug().Msg("empty input, nothing to check")
			return doc, reports, nil
		}
		return nil, nil, err
	}
	l.Debug().Stringer("phase", Tokenized).Int("tokens", len(doc.Tokens())).Msg("phase")

	anomalies, err := sc.detector.Detect(ctx, doc, dict)
	rep := SourceReport{Status: Classify(err), Calls: 1}
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		if errors.Is(err, annotation.ErrInvalidSpan) {
			return nil, nil, err
		}
		rep.Failures, rep.Error = 1, err.Error()
		l.Warn().Err(err).Str("source", sc.detector.Name()).Str("code", rep.Status).Msg("detector failed")
		doc.ResetAnomalies()
		anomalies = nil
	}
	reports["detector:"+sc.detector.Name()] = rep
	l.Debug().Stringer("phase", Detected).Int("anomalies", len(anomalies)).Msg("phase")

	sources := sc.generate(ctx, doc, dict, reports, l)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	l.Debug().Stringer("phase", Generated).Msg("phase")

	for i, a := range doc.Anomalies() {
		if sources[i] == nil {
			continue
		}
		ranked := sc.ranker.Rank(ranker.Request{Anomaly: a, Document: doc, Sources: sources[i]})
		if err := doc.SetCandidates(a, ranked); err != nil {
			return nil, nil, err
		}
	}
	l.Debug().Stringer("phase", Ranked).Msg("phase")
	return doc, reports, nil
}
