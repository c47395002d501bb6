package corrector

import (
	"context"
	"errors"
	"fmt"

	"spellcheck/internal/annotation"
	"spellcheck/internal/generator"
)

// ErrGeneratorFailure marks a source that errored or panicked.
var ErrGeneratorFailure = errors.New("corrector: generator failure")

// Classification codes used in source reports and logs.
const (
	CodeOK          = "ok"
	CodeTimeout     = "timeout"
	CodeUnavailable = "unavailable"
	CodeFailure     = "failure"
	CodeInvalidSpan = "invalid_span"
	CodeEmptyInput  = "empty_input"
)

// SourceError is a contained failure of one generator or detector.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrGeneratorFailure, e.Err}
}

// Classify maps an error to its classification code.
func Classify(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, generator.ErrResourceUnavailable):
		return CodeUnavailable
	case errors.Is(err, annotation.ErrInvalidSpan):
		return CodeInvalidSpan
	case errors.Is(err, annotation.ErrEmptyInput):
		return CodeEmptyInput
	}
	return CodeFailure
}
