package corrector

import (
	"github.com/rs/zerolog"

	"spellcheck/internal/annotation"
	"spellcheck/internal/customdict"
	"spellcheck/internal/detector"
	"spellcheck/internal/generator"
	"spellcheck/internal/ranker"
	"spellcheck/pkg/options"
)

// Config wires the pipeline. Zero fields fall back to dictionary detection,
// Levenshtein and missing-space generation, and ensemble ranking.
type Config struct {
	Options    options.CheckerOptions
	Detector   detector.Detector
	Generators []generator.Generator
	Ranker     ranker.Ranker
	Custom     *customdict.CustomDict
	Logger     zerolog.Logger
}

// Finding is one anomaly as reported to callers.
type Finding struct {
	Word        string                 `json:"word"`
	Offset      int                    `json:"offset"`
	End         int                    `json:"end"`
	Kind        annotation.Kind        `json:"kind"`
	Detector    string                 `json:"detector,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Suggestions []string               `json:"suggestions"`
	Candidates  []annotation.Candidate `json:"candidates,omitempty"`
}

// SourceReport summarizes one generator or detector over a check.
type SourceReport struct {
	Status     string `json:"status"`
	Calls      int    `json:"calls"`
	Failures   int    `json:"failures"`
	Candidates int    `json:"candidates"`
	Error      string `json:"error,omitempty"`
}

type Result struct {
	Text       string                  `json:"text"`
	ErrorCount int                     `json:"error_count"`
	Errors     []Finding               `json:"errors"`
	Sources    map[string]SourceReport `json:"sources"`
}

// Correction is the outcome of CorrectText with the edits that produced it.
type Correction struct {
	Original  string            `json:"original"`
	Corrected string            `json:"corrected"`
	Edits     []annotation.Edit `json:"edits"`
	Result    *Result           `json:"result"`
}

// ErrorSpan is a byte range in an item's text.
type ErrorSpan struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// SpellingItem is one record of a batch, optionally carrying a gold error.
type SpellingItem struct {
	CorpusID       string     `json:"corpus_id"`
	DocumentID     string     `json:"document_id"`
	Text           string     `json:"text"`
	ErrorSpan      *ErrorSpan `json:"error_span,omitempty"`
	GoldCorrection string     `json:"gold_correction,omitempty"`
}

type ItemResult struct {
	CorpusID   string  `json:"corpus_id"`
	DocumentID string  `json:"document_id"`
	Result     *Result `json:"result,omitempty"`
	// Gold evaluation, only set when the item has an ErrorSpan.
	Detected        bool     `json:"detected"`
	GoldSuggestions []string `json:"gold_suggestions,omitempty"`
	GoldFound       bool     `json:"gold_found"`
	Code            string   `json:"code"`
	Error           string   `json:"error,omitempty"`
}
