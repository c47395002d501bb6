// Package detector marks anomalous token spans on a tokenized document.
package detector

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog"

	"spellcheck/internal/annotation"
	"spellcheck/internal/dictionary"
	"spellcheck/internal/engine"
)

// Detector replaces a document's anomaly layer. Running it twice on the same
// document yields the same anomalies.
type Detector interface {
	Name() string
	Detect(ctx context.Context, doc *annotation.Document, dict *dictionary.Dictionary) ([]*annotation.Anomaly, error)
}

// checkable reports whether a token is a spell-checking target: words made of
// letters, apostrophes and hyphens only.
func checkable(tok annotation.Token, skipCapitalized bool) bool {
	if tok.Kind != annotation.Word {
		return false
	}
	if strings.IndexFunc(tok.Surface, unicode.IsDigit) >= 0 {
		return false
	}
	if skipCapitalized {
		r, _ := utf8.DecodeRuneInString(tok.Surface)
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Dictionary flags words missing from the dictionary.
type Dictionary struct {
	// SkipCapitalized leaves words starting with an upper-case letter alone
	// (proper nouns, sentence starts).
	SkipCapitalized bool
}

func (Dictionary) Name() string { return "dictionary" }

func (d Dictionary) Detect(ctx context.Context, doc *annotation.Document, dict *dictionary.Dictionary) ([]*annotation.Anomaly, error) {
	doc.ResetAnomalies()
	for _, tok := range doc.Tokens() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !checkable(tok, d.SkipCapitalized) || dict.Contains(tok.Surface) {
			continue
		}
		a, err := doc.AddAnomaly(tok.Begin, tok.End, annotation.KindSpelling)
		if err != nil {
			return nil, err
		}
		a.Detector = d.Name()
	}
	return doc.Anomalies(), nil
}

// Engine flags words an external engine rejects and dict does not know.
// When the engine also reports text-level issues, grammar issues become
// KindGrammar anomalies.
type Engine struct {
	Engine          engine.Engine
	SkipCapitalized bool
}

func (Engine) Name() string { return "engine" }

func (d Engine) Detect(ctx context.Context, doc *annotation.Document, dict *dictionary.Dictionary) ([]*annotation.Anomaly, error) {
	doc.ResetAnomalies()
	for _, tok := range doc.Tokens() {
		if !checkable(tok, d.SkipCapitalized) {
			continue
		}
		// custom words live only in dict
		if dict.Contains(tok.Surface) {
			continue
		}
		ok, err := d.Engine.Check(ctx, tok.Surface)
		if err != nil {
			return nil, err
		}
		if ok {
			continue
		}
		a, err := doc.AddAnomaly(tok.Begin, tok.End, annotation.KindSpelling)
		if err != nil {
			return nil, err
		}
		a.Detector = d.Name()
	}

	r, ok := d.Engine.(engine.IssueReporter)
	if !ok {
		return doc.Anomalies(), nil
	}
	issues, err := r.Issues(ctx, doc.Text())
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		kind := annotation.KindSpelling
		if is.Grammar {
			kind = annotation.KindGrammar
		}
		a, err := doc.AddAnomaly(is.Offset, is.Offset+is.Length, kind)
		if errors.Is(err, annotation.ErrInvalidSpan) {
			// not aligned on tokens, or already flagged
			continue
		}
		if err != nil {
			return nil, err
		}
		a.Detector = d.Name()
		a.Message = is.Message
	}
	return doc.Anomalies(), nil
}

// Composite chains detectors. The first detector to flag a span owns it;
// later overlapping findings are dropped. A failing member is skipped.
type Composite struct {
	Detectors []Detector
	Logger    zerolog.Logger
}

func (Composite) Name() string { return "composite" }

func (c Composite) Detect(ctx context.Context, doc *annotation.Document, dict *dictionary.Dictionary) ([]*annotation.Anomaly, error) {
	type found struct {
		a      annotation.Anomaly
		member string
	}
	var all []found
	seen := mapset.NewThreadUnsafeSet[[2]int]()
	for _, det := range c.Detectors {
		scratch := annotation.New(doc.Text())
		if err := scratch.Tokenize(); err != nil {
			return nil, err
		}
		as, err := det.Detect(ctx, scratch, dict)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.Logger.Warn().Err(err).Str("detector", det.Name()).Msg("detector failed, skipping")
			continue
		}
		for _, a := range as {
			if seen.Add([2]int{a.Begin, a.End}) {
				all = append(all, found{a: *a, member: det.Name()})
			}
		}
	}

	doc.ResetAnomalies()
	for _, f := range all {
		a, err := doc.AddAnomaly(f.a.Begin, f.a.End, f.a.Kind)
		if errors.Is(err, annotation.ErrInvalidSpan) {
			continue
		}
		if err != nil {
			return nil, err
		}
		a.Detector = f.member
		a.Message = f.a.Message
		a.Confidence = f.a.Confidence
	}
	return doc.Anomalies(), nil
}
