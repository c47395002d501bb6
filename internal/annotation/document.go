// Package annotation holds a text together with its token and anomaly layers.
// All offsets are byte offsets into the original string.
package annotation

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyInput is returned when a text has nothing to tokenize.
	ErrEmptyInput = errors.New("annotation: empty input")
	// ErrInvalidSpan signals an annotation that violates token/anomaly span rules.
	ErrInvalidSpan = errors.New("annotation: invalid span")
)

type TokenKind int

const (
	Word TokenKind = iota
	Number
	Punct
)

func (k TokenKind) String() string {
	switch k {
	case Number:
		return "number"
	case Punct:
		return "punct"
	default:
		return "word"
	}
}

// Kind tags what a detector flagged.
type Kind string

const (
	KindSpelling Kind = "spelling"
	KindGrammar  Kind = "grammar"
)

type Token struct {
	Begin   int       `json:"begin"`
	End     int       `json:"end"`
	Surface string    `json:"surface"`
	Kind    TokenKind `json:"-"`
}

// Span is an inclusive range of token indices.
type Span struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func (s Span) Len() int { return s.Last - s.First + 1 }

// Candidate is a proposed replacement for the text covered by Span.
type Candidate struct {
	Text    string   `json:"text"`
	Source  string   `json:"source"`
	Sources []string `json:"sources,omitempty"`
	Cost    float64  `json:"cost"`
	Score   float64  `json:"score"`
	Span    Span     `json:"span"`
}

type Anomaly struct {
	Span       Span        `json:"span"`
	Begin      int         `json:"begin"`
	End        int         `json:"end"`
	Surface    string      `json:"surface"`
	Kind       Kind        `json:"kind"`
	Confidence float64     `json:"confidence"`
	Detector   string      `json:"detector,omitempty"`
	Message    string      `json:"message,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Top returns the best candidate, if any.
func (a *Anomaly) Top() (Candidate, bool) {
	if a == nil || len(a.Candidates) == 0 {
		return Candidate{}, false
	}
	return a.Candidates[0], true
}

// Document is a source string plus its annotation layers. The text never
// changes; corrected output is produced by ApplyCorrections.
type Document struct {
	text      string
	tokens    []Token
	anomalies []*Anomaly
}

// New builds a Document with zero tokens.
func New(text string) *Document {
	return &Document{text: text}
}

func (d *Document) Text() string { return d.text }

// Tokens returns the token layer. Callers must not modify it.
func (d *Document) Tokens() []Token { return d.tokens }

// Anomalies returns anomalies sorted by start offset.
func (d *Document) Anomalies() []*Anomaly { return d.anomalies }

// TokenText returns the original text covered by a token span.
func (d *Document) TokenText(s Span) string {
	return d.text[d.tokens[s.First].Begin:d.tokens[s.Last].End]
}

// ResetAnomalies drops the anomaly layer.
func (d *Document) ResetAnomalies() {
	d.anomalies = nil
}

// spanFor resolves a byte range to the token span it fully contains.
func (d *Document) spanFor(begin, end int) (Span, error) {
	if begin < 0 || end > len(d.text) || begin >= end {
		return Span{}, fmt.Errorf("%w: [%d,%d) out of range", ErrInvalidSpan, begin, end)
	}
	if len(d.tokens) == 0 {
		return Span{}, fmt.Errorf("%w: document has no tokens", ErrInvalidSpan)
	}
	first := sort.Search(len(d.tokens), func(i int) bool { return d.tokens[i].Begin >= begin })
	if first == len(d.tokens) || d.tokens[first].Begin != begin {
		return Span{}, fmt.Errorf("%w: begin %d is not a token boundary", ErrInvalidSpan, begin)
	}
	last := sort.Search(len(d.tokens), func(i int) bool { return d.tokens[i].End >= end })
	if last == len(d.tokens) || d.tokens[last].End != end {
		return Span{}, fmt.Errorf("%w: end %d is not a token boundary", ErrInvalidSpan, end)
	}
	return Span{First: first, Last: last}, nil
}

func (d *Document) validSpan(s Span) bool {
	return s.First >= 0 && s.First <= s.Last && s.Last < len(d.tokens)
}

// AddAnomaly flags the tokens fully covered by [begin, end). Spans that cut a
// token or overlap an existing anomaly are rejected and leave d unchanged.
func (d *Document) AddAnomaly(begin, end int, kind Kind) (*Anomaly, error) {
	span, err := d.spanFor(begin, end)
	if err != nil {
		return nil, err
	}
	i := sort.Search(len(d.anomalies), func(i int) bool { return d.anomalies[i].Begin >= begin })
	if i < len(d.anomalies) && d.anomalies[i].Begin < end {
		return nil, fmt.Errorf("%w: [%d,%d) overlaps anomaly at %d", ErrInvalidSpan, begin, end, d.anomalies[i].Begin)
	}
	if i > 0 && d.anomalies[i-1].End > begin {
		return nil, fmt.Errorf("%w: [%d,%d) overlaps anomaly at %d", ErrInvalidSpan, begin, end, d.anomalies[i-1].Begin)
	}
	a := &Anomaly{
		Span:       span,
		Begin:      begin,
		End:        end,
		Surface:    d.text[begin:end],
		Kind:       kind,
		Confidence: 1,
	}
	d.anomalies = append(d.anomalies, nil)
	copy(d.anomalies[i+1:], d.anomalies[i:])
	d.anomalies[i] = a
	return a, nil
}

// AnomalyAt returns the anomaly whose span starts at token index ti.
func (d *Document) AnomalyAt(ti int) *Anomaly {
	for _, a := range d.anomalies {
		if a.Span.First == ti {
			return a
		}
	}
	return nil
}

func (d *Document) checkCandidate(a *Anomaly, c *Candidate) error {
	if c.Span == (Span{}) {
		c.Span = a.Span
	}
	if !d.validSpan(c.Span) {
		return fmt.Errorf("%w: candidate %q span %v", ErrInvalidSpan, c.Text, c.Span)
	}
	if c.Span.First != a.Span.First || c.Span.Last < a.Span.Last {
		return fmt.Errorf("%w: candidate %q span %v does not cover anomaly %v", ErrInvalidSpan, c.Text, c.Span, a.Span)
	}
	return nil
}

// ValidateCandidate returns c with its span resolved, or ErrInvalidSpan.
// The document is not modified.
func (d *Document) ValidateCandidate(a *Anomaly, c Candidate) (Candidate, error) {
	err := d.checkCandidate(a, &c)
	return c, err
}

// AddCandidate appends c to a's candidate list. A zero Span means the
// anomaly's own span.
func (d *Document) AddCandidate(a *Anomaly, c Candidate) error {
	if err := d.checkCandidate(a, &c); err != nil {
		return err
	}
	a.Candidates = append(a.Candidates, c)
	return nil
}

// SetCandidates replaces a's candidate list. Nothing changes on error.
func (d *Document) SetCandidates(a *Anomaly, cs []Candidate) error {
	out := make([]Candidate, len(cs))
	for i := range cs {
		out[i] = cs[i]
		if err := d.checkCandidate(a, &out[i]); err != nil {
			return err
		}
	}
	a.Candidates = out
	return nil
}
