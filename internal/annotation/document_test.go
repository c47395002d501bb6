package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeOffsets(t *testing.T) {
	texts := []string{
		"tset speling",
		"  Hello, world!  It's a well-known fact: 3.14 is pi.",
		"Привет мир — это тест",
		"a",
		"tabs\tand\nnewlines",
	}
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			d := New(text)
			require.NoError(t, d.Tokenize())
			prevEnd := 0
			var rebuilt string
			for i, tok := range d.Tokens() {
				assert.Equal(t, tok.Surface, text[tok.Begin:tok.End])
				assert.GreaterOrEqual(t, tok.Begin, prevEnd, "token %d overlaps", i)
				rebuilt += text[prevEnd:tok.Begin] + tok.Surface
				prevEnd = tok.End
			}
			rebuilt += text[prevEnd:]
			assert.Equal(t, text, rebuilt)
		})
	}
}

func TestTokenizeKinds(t *testing.T) {
	d := New("It's 3.14, ok-ish.")
	require.NoError(t, d.Tokenize())

	var got []string
	var kinds []TokenKind
	for _, tok := range d.Tokens() {
		got = append(got, tok.Surface)
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []string{"It's", "3.14", ",", "ok-ish", "."}, got)
	assert.Equal(t, []TokenKind{Word, Number, Punct, Word, Punct}, kinds)
}

func TestTokenizeEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		assert.ErrorIs(t, New(text).Tokenize(), ErrEmptyInput)
	}
}

func TestAddAnomalySpans(t *testing.T) {
	d := New("hel lo world")
	require.NoError(t, d.Tokenize())

	a, err := d.AddAnomaly(0, 6, KindSpelling)
	require.NoError(t, err)
	assert.Equal(t, Span{First: 0, Last: 1}, a.Span)
	assert.Equal(t, "hel lo", a.Surface)

	cases := []struct {
		name       string
		begin, end int
	}{
		{"partial token start", 1, 3},
		{"partial token end", 7, 10},
		{"out of range", 7, 99},
		{"empty", 7, 7},
		{"overlaps existing", 4, 12},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.AddAnomaly(tt.begin, tt.end, KindSpelling)
			assert.ErrorIs(t, err, ErrInvalidSpan)
			assert.Len(t, d.Anomalies(), 1)
		})
	}

	_, err = d.AddAnomaly(7, 12, KindSpelling)
	require.NoError(t, err)
	assert.Len(t, d.Anomalies(), 2)
}

func TestAddAnomalyKeepsOrder(t *testing.T) {
	d := New("one two three")
	require.NoError(t, d.Tokenize())
	_, err := d.AddAnomaly(8, 13, KindSpelling)
	require.NoError(t, err)
	_, err = d.AddAnomaly(0, 3, KindGrammar)
	require.NoError(t, err)

	as := d.Anomalies()
	require.Len(t, as, 2)
	assert.Equal(t, "one", as[0].Surface)
	assert.Equal(t, "three", as[1].Surface)
}

func TestAddAnomalyWithoutTokens(t *testing.T) {
	d := New("abc")
	_, err := d.AddAnomaly(0, 3, KindSpelling)
	assert.ErrorIs(t, err, ErrInvalidSpan)
}

func TestAddCandidateSpan(t *testing.T) {
	d := New("hel lo")
	require.NoError(t, d.Tokenize())
	a, err := d.AddAnomaly(0, 3, KindSpelling)
	require.NoError(t, err)

	require.NoError(t, d.AddCandidate(a, Candidate{Text: "help"}))
	assert.Equal(t, a.Span, a.Candidates[0].Span)

	require.NoError(t, d.AddCandidate(a, Candidate{Text: "hello", Span: Span{First: 0, Last: 1}}))
	assert.ErrorIs(t, d.AddCandidate(a, Candidate{Text: "x", Span: Span{First: 1, Last: 1}}), ErrInvalidSpan)
	assert.ErrorIs(t, d.AddCandidate(a, Candidate{Text: "x", Span: Span{First: 0, Last: 5}}), ErrInvalidSpan)
	assert.Len(t, a.Candidates, 2)

	err = d.SetCandidates(a, []Candidate{{Text: "ok"}, {Text: "bad", Span: Span{First: 1, Last: 1}}})
	assert.ErrorIs(t, err, ErrInvalidSpan)
	assert.Len(t, a.Candidates, 2)
}
