// Package engine defines the capability set consumed from external spelling
// and grammar engines, plus helpers to bound their latency.
package engine

import (
	"context"
	"fmt"
	"time"

	"spellcheck/internal/annotation"
)

// Engine is an external spell checker.
type Engine interface {
	// Check reports whether word is correctly spelled.
	Check(ctx context.Context, word string) (bool, error)
	// Suggest returns corrections, best first.
	Suggest(ctx context.Context, word string) ([]string, error)
	// CorrectText rewrites a whole text.
	CorrectText(ctx context.Context, text string) (string, error)
}

// Issue is a problem reported on a text span by engines that go beyond
// single-word checks.
type Issue struct {
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Message      string   `json:"message"`
	Replacements []string `json:"replacements"`
	Grammar      bool     `json:"grammar"`
}

// IssueReporter is implemented by engines that check whole texts.
type IssueReporter interface {
	Issues(ctx context.Context, text string) ([]Issue, error)
}

type timed struct {
	e Engine
	d time.Duration
}

type timedReporter struct {
	timed
	r IssueReporter
}

// WithTimeout bounds every call to e by d. A call still running at the
// deadline is abandoned and returns context.DeadlineExceeded.
func WithTimeout(e Engine, d time.Duration) Engine {
	t := timed{e: e, d: d}
	if r, ok := e.(IssueReporter); ok {
		return &timedReporter{timed: t, r: r}
	}
	return &t
}

type outcome[T any] struct {
	v   T
	err error
}

// Bounded runs fn under a deadline of d (no deadline when d <= 0) and returns
// as soon as ctx is done, even if fn ignores cancellation.
func Bounded[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	ch := make(chan outcome[T], 1)
	go func() {
		var o outcome[T]
		defer func() {
			if r := recover(); r != nil {
				o.err = fmt.Errorf("panic: %v", r)
			}
			ch <- o
		}()
		o.v, o.err = fn(ctx)
	}()
	select {
	case o := <-ch:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (t *timed) Check(ctx context.Context, word string) (bool, error) {
	return Bounded(ctx, t.d, func(ctx context.Context) (bool, error) { return t.e.Check(ctx, word) })
}

func (t *timed) Suggest(ctx context.Context, word string) ([]string, error) {
	return Bounded(ctx, t.d, func(ctx context.Context) ([]string, error) { return t.e.Suggest(ctx, word) })
}

func (t *timed) CorrectText(ctx context.Context, text string) (string, error) {
	return Bounded(ctx, t.d, func(ctx context.Context) (string, error) { return t.e.CorrectText(ctx, text) })
}

func (t *timedReporter) Issues(ctx context.Context, text string) ([]Issue, error) {
	return Bounded(ctx, t.d, func(ctx context.Context) ([]Issue, error) { return t.r.Issues(ctx, text) })
}

// CorrectWords implements CorrectText for word-level engines: every word the
// engine rejects is replaced by its first suggestion.
func CorrectWords(ctx context.Context, e Engine, text string) (string, error) {
	doc := annotation.New(text)
	if err := doc.Tokenize(); err != nil {
		return text, nil
	}
	for _, tok := range doc.Tokens() {
		if tok.Kind != annotation.Word {
			continue
		}
		ok, err := e.Check(ctx, tok.Surface)
		if err != nil {
			return "", err
		}
		if ok {
			continue
		}
		sugg, err := e.Suggest(ctx, tok.Surface)
		if err != nil {
			return "", err
		}
		if len(sugg) == 0 {
			continue
		}
		a, err := doc.AddAnomaly(tok.Begin, tok.End, annotation.KindSpelling)
		if err != nil {
			return "", err
		}
		if err := doc.AddCandidate(a, annotation.Candidate{Text: sugg[0]}); err != nil {
			return "", err
		}
	}
	out, _ := doc.ApplyCorrections()
	return out, nil
}
