package generator

import (
	"context"
	"math"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"spellcheck/internal/annotation"
)

// Keyboard costs typos by physical key proximity: hitting a neighbouring key
// is cheaper than a random substitution.
type Keyboard struct {
	Layout *Layout
	// MaxDistance bounds the unweighted prefilter.
	MaxDistance   int
	TransposeCost float64
	InsDelCost    float64
	NearSubCost   float64
}

func (Keyboard) Name() string { return "keyboard" }

func (g Keyboard) costs() (transpose, insDel, near float64) {
	transpose, insDel, near = 0.6, 0.9, 0.6
	if g.TransposeCost > 0 {
		transpose = g.TransposeCost
	}
	if g.InsDelCost > 0 {
		insDel = g.InsDelCost
	}
	if g.NearSubCost > 0 {
		near = g.NearSubCost
	}
	return
}

func (g Keyboard) Generate(ctx context.Context, req Request) ([]annotation.Candidate, error) {
	if g.Layout == nil {
		return nil, ErrResourceUnavailable
	}
	d := g.MaxDistance
	if d <= 0 {
		d = DefaultMaxDistance
	}
	w := req.query()
	n := utf8.RuneCountInString(w)
	var items []scored
	i := 0
	req.Dictionary.Range(n-d, n+d, func(word string, freq int64) bool {
		i++
		if i%4096 == 0 && ctx.Err() != nil {
			return false
		}
		if word == w || edlib.OSADamerauLevenshteinDistance(w, word) > d {
			return true
		}
		items = append(items, scored{word: word, cost: g.weightedDL(w, word), freq: freq})
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return req.limit(best(items, g.Name())), nil
}

// weightedDL is Damerau-Levenshtein with keyboard-aware substitution.
func (g Keyboard) weightedDL(a, b string) float64 {
	transpose, insDel, near := g.costs()
	if isOneAdjacentSwap(a, b) {
		return transpose
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return float64(lb) * insDel
	}
	if lb == 0 {
		return float64(la) * insDel
	}
	prev2 := make([]float64, lb+1)
	prev := make([]float64, lb+1)
	curr := make([]float64, lb+1)
	for j := 1; j <= lb; j++ {
		prev[j] = float64(j) * insDel
	}
	for i := 1; i <= la; i++ {
		curr[0] = float64(i) * insDel
		for j := 1; j <= lb; j++ {
			sub := 0.0
			if ra[i-1] != rb[j-1] {
				sub = g.Layout.SubstitutionCost(ra[i-1], rb[j-1], near)
			}
			cell := math.Min(prev[j]+insDel, math.Min(curr[j-1]+insDel, prev[j-1]+sub))
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				cell = math.Min(cell, prev2[j-2]+transpose)
			}
			curr[j] = cell
		}
		copy(prev2, prev)
		copy(prev, curr)
	}
	return prev[lb]
}

// isOneAdjacentSwap reports whether b is a with exactly one pair of
// neighbouring runes swapped.
func isOneAdjacentSwap(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) || len(ra) < 2 {
		return false
	}
	diff := -1
	for i := range ra {
		if ra[i] != rb[i] {
			diff = i
			break
		}
	}
	if diff == -1 || diff+1 >= len(ra) {
		return false
	}
	if ra[diff] != rb[diff+1] || ra[diff+1] != rb[diff] {
		return false
	}
	for j := diff + 2; j < len(ra); j++ {
		if ra[j] != rb[j] {
			return false
		}
	}
	return true
}
