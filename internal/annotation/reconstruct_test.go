package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCorrectionsNoAnomalies(t *testing.T) {
	for _, text := range []string{"all good here.", "  spaced   out  ", "x"} {
		d := New(text)
		require.NoError(t, d.Tokenize())
		got, edits := d.ApplyCorrections()
		assert.Equal(t, text, got)
		assert.Empty(t, edits)
	}
}

func TestApplyCorrectionsOffsetDrift(t *testing.T) {
	d := New("I wnt to teh  store, pls.")
	require.NoError(t, d.Tokenize())

	fix := map[string]string{"wnt": "want", "teh": "the", "pls": "please"}
	for _, tok := range d.Tokens() {
		if repl, ok := fix[tok.Surface]; ok {
			a, err := d.AddAnomaly(tok.Begin, tok.End, KindSpelling)
			require.NoError(t, err)
			require.NoError(t, d.AddCandidate(a, Candidate{Text: repl}))
		}
	}

	got, edits := d.ApplyCorrections()
	assert.Equal(t, "I want to the  store, please.", got)
	require.Len(t, edits, 3)
	for _, e := range edits {
		assert.Equal(t, e.Replacement, got[e.NewBegin:e.NewEnd])
		assert.Equal(t, e.Original, d.Text()[e.Begin:e.End])
	}
}

func TestApplyCorrectionsMergeSwallowsNext(t *testing.T) {
	d := New("say hel lo now")
	require.NoError(t, d.Tokenize())
	a1, err := d.AddAnomaly(4, 7, KindSpelling)
	require.NoError(t, err)
	a2, err := d.AddAnomaly(8, 10, KindSpelling)
	require.NoError(t, err)
	require.NoError(t, d.AddCandidate(a1, Candidate{Text: "hello", Span: Span{First: 1, Last: 2}}))
	require.NoError(t, d.AddCandidate(a2, Candidate{Text: "low"}))

	got, edits := d.ApplyCorrections()
	assert.Equal(t, "say hello now", got)
	require.Len(t, edits, 1)
	assert.Equal(t, "hel lo", edits[0].Original)
}

func TestApplyCorrectionsFuncSkips(t *testing.T) {
	d := New("aa bb cc")
	require.NoError(t, d.Tokenize())
	for _, tok := range d.Tokens() {
		a, err := d.AddAnomaly(tok.Begin, tok.End, KindSpelling)
		require.NoError(t, err)
		require.NoError(t, d.AddCandidate(a, Candidate{Text: tok.Surface + tok.Surface}))
	}
	got, edits := d.ApplyCorrectionsFunc(func(a *Anomaly) (Candidate, bool) {
		if a.Surface == "bb" {
			return Candidate{}, false
		}
		return a.Top()
	})
	assert.Equal(t, "aaaa bb cccc", got)
	require.Len(t, edits, 2)
	assert.Equal(t, 8, edits[1].NewBegin)
	assert.Equal(t, 12, edits[1].NewEnd)
}
