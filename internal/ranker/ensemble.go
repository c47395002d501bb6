package ranker

import (
	"cmp"
	"slices"

	"spellcheck/internal/annotation"
)

// DefaultRRFConstant is added to the zero-based rank in fusion.
const DefaultRRFConstant = 1.0

// availability is implemented by rankers that depend on an optional model.
type availability interface {
	Available() bool
}

// Ensemble fuses orderings by weighted reciprocal rank: each source's own
// candidates ordered by Member, plus each Extra ranker over the pooled set.
// A candidate scores sum(w / (rank + K)) over the orderings that contain it,
// with weights normalized to sum to 1. Costs from different generators are
// never compared directly.
type Ensemble struct {
	Member  Ranker
	Extra   []Ranker
	Weights map[string]float64
	K       float64
}

func (Ensemble) Name() string { return "ensemble" }

func (e Ensemble) weight(name string) float64 {
	if w, ok := e.Weights[name]; ok {
		return w
	}
	return 1
}

func (e Ensemble) Rank(req Request) []annotation.Candidate {
	member := e.Member
	if member == nil {
		member = Cost{}
	}
	k := e.K
	if k <= 0 {
		k = DefaultRRFConstant
	}

	type ordering struct {
		w  float64
		cs []annotation.Candidate
	}
	var orderings []ordering
	total := 0.0
	for _, s := range req.Sources {
		w := e.weight(s.Name)
		total += w
		if len(s.Candidates) == 0 {
			continue
		}
		one := req
		one.Sources = []Source{s}
		orderings = append(orderings, ordering{w: w, cs: member.Rank(one)})
	}
	for _, r := range e.Extra {
		if a, ok := r.(availability); ok && !a.Available() {
			continue
		}
		w := e.weight(r.Name())
		total += w
		orderings = append(orderings, ordering{w: w, cs: r.Rank(req)})
	}

	out := pool(req)
	if total <= 0 {
		total = 1
	}
	idx := make(map[string]int, len(out))
	for i := range out {
		out[i].Score = 0
		idx[out[i].Text] = i
	}
	for _, o := range orderings {
		for rank, c := range o.cs {
			if i, ok := idx[c.Text]; ok {
				out[i].Score += o.w / total / (float64(rank) + k)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b annotation.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
