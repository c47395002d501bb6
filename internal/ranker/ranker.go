// Package ranker orders and fuses the candidate lists generators produced for
// one anomaly.
package ranker

import (
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"spellcheck/internal/annotation"
)

// Source is one generator's output, in the generator's own order.
type Source struct {
	Name       string
	Candidates []annotation.Candidate
}

type Request struct {
	Anomaly  *annotation.Anomaly
	Document *annotation.Document
	Sources  []Source
}

// Ranker returns candidates best first, with no two sharing text.
type Ranker interface {
	Name() string
	Rank(req Request) []annotation.Candidate
}

// pool merges all sources in generator order, one candidate per text. The
// first proposal fixes the span, so a merge from an earlier generator keeps
// its wider span. Duplicates lower the cost to the cheapest proposal (first
// on ties) and record every proposing source.
func pool(req Request) []annotation.Candidate {
	var out []annotation.Candidate
	idx := make(map[string]int)
	prov := make(map[string]mapset.Set[string])
	for _, s := range req.Sources {
		for _, c := range s.Candidates {
			if c.Source == "" {
				c.Source = s.Name
			}
			k := c.Text
			i, ok := idx[k]
			if !ok {
				idx[k] = len(out)
				prov[k] = mapset.NewThreadUnsafeSet(c.Source)
				out = append(out, c)
				continue
			}
			prov[k].Add(c.Source)
			if c.Cost < out[i].Cost {
				out[i].Cost = c.Cost
				out[i].Source = c.Source
			}
		}
	}
	for i := range out {
		out[i].Sources = ordered(prov[out[i].Text], req.Sources)
	}
	return out
}

// ordered lists set members in source order.
func ordered(set mapset.Set[string], sources []Source) []string {
	out := make([]string, 0, set.Cardinality())
	for _, s := range sources {
		if set.Contains(s.Name) && !slices.Contains(out, s.Name) {
			out = append(out, s.Name)
		}
	}
	// names not matching any source, e.g. candidates tagged by their generator
	extra := set.Clone()
	extra.RemoveAll(out...)
	rest := extra.ToSlice()
	slices.Sort(rest)
	return append(out, rest...)
}

// Cost orders candidates by ascending generator cost. Score is -Cost.
type Cost struct{}

func (Cost) Name() string { return "cost" }

func (Cost) Rank(req Request) []annotation.Candidate {
	out := pool(req)
	slices.SortStableFunc(out, func(a, b annotation.Candidate) int {
		return cmp.Compare(a.Cost, b.Cost)
	})
	for i := range out {
		out[i].Score = -out[i].Cost
	}
	return out
}
