package ranker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcheck/internal/annotation"
)

func cand(text string, cost float64) annotation.Candidate {
	return annotation.Candidate{Text: text, Cost: cost}
}

func texts(cs []annotation.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text
	}
	return out
}

func scoreOf(cs []annotation.Candidate, text string) float64 {
	for _, c := range cs {
		if c.Text == text {
			return c.Score
		}
	}
	return 0
}

func anomalyDoc(t *testing.T, text, word string) (*annotation.Document, *annotation.Anomaly) {
	t.Helper()
	doc := annotation.New(text)
	require.NoError(t, doc.Tokenize())
	i := strings.Index(text, word)
	require.GreaterOrEqual(t, i, 0)
	a, err := doc.AddAnomaly(i, i+len(word), annotation.KindSpelling)
	require.NoError(t, err)
	return doc, a
}

func TestCostRanker(t *testing.T) {
	out := Cost{}.Rank(Request{Sources: []Source{
		{Name: "a", Candidates: []annotation.Candidate{cand("far", 2), cand("near", 1)}},
		{Name: "b", Candidates: []annotation.Candidate{cand("mid", 1.5)}},
	}})
	assert.Equal(t, []string{"near", "mid", "far"}, texts(out))
	assert.Equal(t, -1.0, out[0].Score)
	assert.Equal(t, "a", out[0].Source)
}

func TestDedupKeepsCheapestAndAllSources(t *testing.T) {
	sources := []Source{
		{Name: "levenshtein", Candidates: []annotation.Candidate{cand("test", 1), cand("text", 2)}},
		{Name: "backend", Candidates: []annotation.Candidate{cand("test", 0)}},
	}
	for _, r := range []Ranker{Cost{}, Ensemble{}} {
		t.Run(r.Name(), func(t *testing.T) {
			out := r.Rank(Request{Sources: sources})
			require.Equal(t, []string{"test", "text"}, texts(out))
			assert.Equal(t, 0.0, out[0].Cost)
			assert.Equal(t, "backend", out[0].Source)
			assert.Equal(t, []string{"levenshtein", "backend"}, out[0].Sources)
		})
	}
}

func TestDedupMergesSameTextAcrossSpans(t *testing.T) {
	doc, a := anomalyDoc(t, "hel lo", "hel")
	merged := annotation.Candidate{Text: "hello", Span: annotation.Span{First: 0, Last: 1}}
	sources := []Source{
		{Name: "missing_space", Candidates: []annotation.Candidate{merged}},
		{Name: "levenshtein", Candidates: []annotation.Candidate{cand("hello", 2), cand("help", 2)}},
	}
	for _, r := range []Ranker{Cost{}, Ensemble{}} {
		t.Run(r.Name(), func(t *testing.T) {
			out := r.Rank(Request{Anomaly: a, Document: doc, Sources: sources})
			require.Equal(t, []string{"hello", "help"}, texts(out))
			assert.Equal(t, annotation.Span{First: 0, Last: 1}, out[0].Span)
			assert.Equal(t, 0.0, out[0].Cost)
			assert.Equal(t, []string{"missing_space", "levenshtein"}, out[0].Sources)
			assert.Greater(t, out[0].Score, out[1].Score)
		})
	}
}

func TestEnsembleMonotonic(t *testing.T) {
	fewer := []Source{
		{Name: "a", Candidates: []annotation.Candidate{cand("x", 1), cand("y", 2)}},
		{Name: "b", Candidates: []annotation.Candidate{cand("z", 1)}},
	}
	more := []Source{
		{Name: "a", Candidates: []annotation.Candidate{cand("x", 1), cand("y", 2)}},
		{Name: "b", Candidates: []annotation.Candidate{cand("x", 1), cand("z", 2)}},
	}
	e := Ensemble{}
	before := e.Rank(Request{Sources: fewer})
	after := e.Rank(Request{Sources: more})
	assert.GreaterOrEqual(t, scoreOf(after, "x"), scoreOf(before, "x"))
	assert.Equal(t, "x", after[0].Text)
	assert.InDelta(t, 1.0, after[0].Score, 1e-9)
}

func TestEnsembleTiesKeepGeneratorOrder(t *testing.T) {
	out := Ensemble{}.Rank(Request{Sources: []Source{
		{Name: "a", Candidates: []annotation.Candidate{cand("first", 5)}},
		{Name: "b", Candidates: []annotation.Candidate{cand("second", 0)}},
	}})
	assert.Equal(t, []string{"first", "second"}, texts(out))
	assert.Equal(t, out[0].Score, out[1].Score)
}

func TestEnsembleWeights(t *testing.T) {
	out := Ensemble{Weights: map[string]float64{"a": 1, "b": 3}}.Rank(Request{Sources: []Source{
		{Name: "a", Candidates: []annotation.Candidate{cand("first", 0)}},
		{Name: "b", Candidates: []annotation.Candidate{cand("second", 0)}},
	}})
	assert.Equal(t, []string{"second", "first"}, texts(out))
	assert.InDelta(t, 0.75, out[0].Score, 1e-9)
}

func lmModel(t *testing.T) *Model {
	t.Helper()
	m, err := ParseModel(strings.NewReader(`# counts
the 100
test 10
set 10
was 50
the test 8
test was 5
`))
	require.NoError(t, err)
	return m
}

func TestLanguageModelUsesContext(t *testing.T) {
	doc, a := anomalyDoc(t, "the tset was fine", "tset")
	req := Request{Anomaly: a, Document: doc, Sources: []Source{
		{Name: "levenshtein", Candidates: []annotation.Candidate{cand("set", 1), cand("test", 1)}},
	}}

	out := LanguageModel{Model: lmModel(t), Window: 1}.Rank(req)
	assert.Equal(t, []string{"test", "set"}, texts(out))

	// no model: plain cost order
	out = LanguageModel{}.Rank(req)
	assert.Equal(t, []string{"set", "test"}, texts(out))
}

func TestEnsembleSkipsUnavailableModel(t *testing.T) {
	doc, a := anomalyDoc(t, "the tset was fine", "tset")
	req := Request{Anomaly: a, Document: doc, Sources: []Source{
		{Name: "levenshtein", Candidates: []annotation.Candidate{cand("set", 1), cand("test", 1)}},
	}}
	plain := Ensemble{}.Rank(req)
	withEmpty := Ensemble{Extra: []Ranker{LanguageModel{}}}.Rank(req)
	assert.Equal(t, plain, withEmpty)

	withLM := Ensemble{Extra: []Ranker{LanguageModel{Model: lmModel(t)}}}.Rank(req)
	assert.Equal(t, scoreOf(withLM, "set"), scoreOf(withLM, "test"))
}

func TestParseModelErrors(t *testing.T) {
	_, err := ParseModel(strings.NewReader("a b c 1\n"))
	assert.Error(t, err)
	_, err = ParseModel(strings.NewReader("word many\n"))
	assert.Error(t, err)
}
