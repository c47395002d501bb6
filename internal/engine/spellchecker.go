package engine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/f1monkey/spellchecker"

	"spellcheck/internal/dictionary"
)

// DefaultAlphabet covers English and Russian lower-case letters.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz'" + "абвгдеёжзийклмнопрстуфхцчшщъыьэюя"

// Spellchecker is an in-process engine backed by a symspell-style index.
type Spellchecker struct {
	mu      sync.Mutex
	sc      *spellchecker.Spellchecker
	maxSugg int
}

// NewSpellchecker builds an engine accepting up to maxErrors edits and
// returning at most maxSuggestions per word.
func NewSpellchecker(alphabet string, maxErrors, maxSuggestions int) (*Spellchecker, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	sc, err := spellchecker.New(alphabet, spellchecker.WithMaxErrors(maxErrors))
	if err != nil {
		return nil, fmt.Errorf("engine: spellchecker: %w", err)
	}
	if maxSuggestions <= 0 {
		maxSuggestions = 10
	}
	return &Spellchecker{sc: sc, maxSugg: maxSuggestions}, nil
}

// Add indexes words.
func (s *Spellchecker) Add(words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		s.sc.Add(dictionary.Normalize(w))
	}
}

// AddFrom indexes a whitespace separated word list.
func (s *Spellchecker) AddFrom(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sc.AddFrom(r)
}

// AddDictionary indexes every word of d.
func (s *Spellchecker) AddDictionary(d *dictionary.Dictionary) {
	var words []string
	d.Range(1, 1<<16, func(w string, _ int64) bool {
		words = append(words, w)
		return true
	})
	s.Add(words...)
}

func (s *Spellchecker) Check(ctx context.Context, word string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sc.IsCorrect(dictionary.Normalize(word)), nil
}

func (s *Spellchecker) Suggest(ctx context.Context, word string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.sc.Suggest(dictionary.Normalize(word), s.maxSugg)
	if err != nil {
		// unknown words with no match come back as errors
		return nil, nil
	}
	return out, nil
}

func (s *Spellchecker) CorrectText(ctx context.Context, text string) (string, error) {
	return CorrectWords(ctx, s, text)
}
