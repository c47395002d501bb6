// Package dictionary provides the read-only word list shared by detectors and
// generators. A Dictionary is never mutated after construction; overlays build
// a new value.
package dictionary

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// CustomFrequency is assigned to user-supplied words so they win frequency
// tie-breaks against corpus words.
const CustomFrequency = 1_000_000_000

// Normalize case-folds a surface form for lookups.
func Normalize(s string) string {
	return cases.Fold().String(s)
}

type Dictionary struct {
	freq  map[string]int64
	byLen map[int][]string
}

// New builds a dictionary from normalized-or-not words and their frequencies.
func New(entries map[string]int64) *Dictionary {
	d := &Dictionary{freq: make(map[string]int64, len(entries))}
	for w, f := range entries {
		d.add(w, f)
	}
	d.index()
	return d
}

// FromWords builds a dictionary where every word has frequency 1.
func FromWords(words ...string) *Dictionary {
	d := &Dictionary{freq: make(map[string]int64, len(words))}
	for _, w := range words {
		d.add(w, 1)
	}
	d.index()
	return d
}

func (d *Dictionary) add(word string, f int64) {
	w := Normalize(word)
	if w == "" {
		return
	}
	if f < 1 {
		f = 1
	}
	if f > d.freq[w] {
		d.freq[w] = f
	}
}

func (d *Dictionary) index() {
	d.byLen = make(map[int][]string)
	for w := range d.freq {
		n := utf8.RuneCountInString(w)
		d.byLen[n] = append(d.byLen[n], w)
	}
	for _, ws := range d.byLen {
		sort.Strings(ws)
	}
}

// With returns a new dictionary holding d's words plus words at frequency f.
func (d *Dictionary) With(words []string, f int64) *Dictionary {
	nd := &Dictionary{freq: make(map[string]int64, len(d.freq)+len(words))}
	for w, fr := range d.freq {
		nd.freq[w] = fr
	}
	for _, w := range words {
		nd.add(w, f)
	}
	nd.index()
	return nd
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.freq)
}

// Contains reports whether the case-folded word is known.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.freq[Normalize(word)]
	return ok
}

// Frequency returns the count of a known word, 0 otherwise.
func (d *Dictionary) Frequency(word string) int64 {
	if d == nil {
		return 0
	}
	return d.freq[Normalize(word)]
}

// Range calls fn for every word whose rune length is within [minLen, maxLen],
// shortest first and lexically within a length. Iteration stops when fn
// returns false.
func (d *Dictionary) Range(minLen, maxLen int, fn func(word string, freq int64) bool) {
	if d == nil {
		return
	}
	minLen = max(minLen, 1)
	for n := minLen; n <= maxLen; n++ {
		for _, w := range d.byLen[n] {
			if !fn(w, d.freq[w]) {
				return
			}
		}
	}
}
