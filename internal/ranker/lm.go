package ranker

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"spellcheck/internal/annotation"
	"spellcheck/internal/dictionary"
)

// Model holds unigram and bigram counts.
type Model struct {
	unigrams map[string]int64
	bigrams  map[[2]string]int64
}

func NewModel() *Model {
	return &Model{unigrams: make(map[string]int64), bigrams: make(map[[2]string]int64)}
}

// Add records a count for a unigram (one word) or a bigram (two words).
func (m *Model) Add(count int64, words ...string) {
	switch len(words) {
	case 1:
		m.unigrams[dictionary.Normalize(words[0])] += count
	case 2:
		m.bigrams[[2]string{dictionary.Normalize(words[0]), dictionary.Normalize(words[1])}] += count
	}
}

// Empty reports whether the model has no counts.
func (m *Model) Empty() bool {
	return m == nil || len(m.unigrams) == 0
}

// LoadModel reads an n-gram count file: "word count" and "word word count"
// lines; # starts a comment.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ranker: model: %w", err)
	}
	defer f.Close()
	return ParseModel(f)
}

func ParseModel(r io.Reader) (*Model, error) {
	m := NewModel()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) != 2 && len(fields) != 3 {
			return nil, fmt.Errorf("ranker: model line %d: want 2 or 3 fields, got %d", line, len(fields))
		}
		n, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ranker: model line %d: %w", line, err)
		}
		m.Add(n, fields[:len(fields)-1]...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ranker: model: %w", err)
	}
	return m, nil
}

// logProb is the add-one smoothed log P(b | a).
func (m *Model) logProb(a, b string) float64 {
	v := float64(len(m.unigrams) + 1)
	return math.Log((float64(m.bigrams[[2]string{a, b}]) + 1) / (float64(m.unigrams[a]) + v))
}

// sequence scores a word sequence under the bigram chain.
func (m *Model) sequence(words []string) float64 {
	s := 0.0
	for i := 1; i < len(words); i++ {
		s += m.logProb(words[i-1], words[i])
	}
	return s
}

// LanguageModel reorders candidates by how well they fit their neighbours.
// Window is the number of words taken on each side.
type LanguageModel struct {
	Model  *Model
	Window int
}

func (LanguageModel) Name() string { return "lm" }

func (r LanguageModel) Available() bool { return !r.Model.Empty() }

func (r LanguageModel) Rank(req Request) []annotation.Candidate {
	out := Cost{}.Rank(req)
	if !r.Available() || req.Document == nil || req.Anomaly == nil {
		return out
	}
	window := max(r.Window, 1)
	for i := range out {
		left, right := r.context(req, out[i], window)
		words := append(left, strings.Fields(dictionary.Normalize(out[i].Text))...)
		words = append(words, right...)
		out[i].Score = r.Model.sequence(words)
	}
	slices.SortStableFunc(out, func(a, b annotation.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// context returns up to n normalized words before the anomaly and after the
// candidate's span, skipping punctuation and numbers.
func (r LanguageModel) context(req Request, c annotation.Candidate, n int) (left, right []string) {
	tokens := req.Document.Tokens()
	span := c.Span
	if span == (annotation.Span{}) {
		span = req.Anomaly.Span
	}
	for i := span.First - 1; i >= 0 && len(left) < n; i-- {
		if tokens[i].Kind == annotation.Word {
			left = append(left, dictionary.Normalize(tokens[i].Surface))
		}
	}
	slices.Reverse(left)
	for i := span.Last + 1; i < len(tokens) && len(right) < n; i++ {
		if tokens[i].Kind == annotation.Word {
			right = append(right, dictionary.Normalize(tokens[i].Surface))
		}
	}
	return left, right
}
