package annotation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// joiner reports whether r may sit inside a word token between two word runes:
// apostrophes and hyphens inside words, separators inside numbers.
func joiner(r rune, prevDigit bool) bool {
	switch r {
	case '\'', '’', '-':
		return true
	case '.', ',', ':', '/':
		return prevDigit
	}
	return false
}

// Tokenize fills the token layer. It splits on whitespace, emits each
// punctuation rune as its own token and keeps word-internal apostrophes and
// hyphens. Re-tokenizing drops existing anomalies.
func (d *Document) Tokenize() error {
	if strings.TrimSpace(d.text) == "" {
		return ErrEmptyInput
	}
	d.tokens = d.tokens[:0]
	d.anomalies = nil
	s := d.text
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isWordRune(r):
			start := i
			letters := false
			prev := r
			for i < len(s) {
				r, size = utf8.DecodeRuneInString(s[i:])
				if isWordRune(r) {
					letters = letters || unicode.IsLetter(r)
					prev = r
					i += size
					continue
				}
				if joiner(r, unicode.IsDigit(prev)) && i+size < len(s) {
					next, _ := utf8.DecodeRuneInString(s[i+size:])
					if isWordRune(next) {
						prev = r
						i += size
						continue
					}
				}
				break
			}
			kind := Word
			if !letters {
				kind = Number
			}
			d.tokens = append(d.tokens, Token{Begin: start, End: i, Surface: s[start:i], Kind: kind})
		default:
			d.tokens = append(d.tokens, Token{Begin: i, End: i + size, Surface: s[i : i+size], Kind: Punct})
			i += size
		}
	}
	return nil
}

// Gap returns the text between token ti and token ti+1.
func (d *Document) Gap(ti int) string {
	if ti+1 >= len(d.tokens) {
		return d.text[d.tokens[ti].End:]
	}
	return d.text[d.tokens[ti].End:d.tokens[ti+1].Begin]
}
