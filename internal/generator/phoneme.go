package generator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"spellcheck/internal/annotation"
	"spellcheck/internal/dictionary"
)

// PhonemeRules is a grapheme-to-phoneme table applied by longest match.
// Letters without a rule are kept as they are.
type PhonemeRules struct {
	rules  map[string]string
	maxLen int
}

var englishRules = [][2]string{
	{"tion", "ʃən"}, {"sion", "ʒən"}, {"ough", "ɔ"}, {"augh", "ɔ"},
	{"igh", "aɪ"}, {"tch", "tʃ"}, {"dge", "dʒ"}, {"sch", "sk"},
	{"ph", "f"}, {"gh", "g"}, {"ck", "k"}, {"ch", "tʃ"}, {"sh", "ʃ"}, {"th", "θ"},
	{"wh", "w"}, {"wr", "r"}, {"kn", "n"}, {"gn", "n"}, {"mb", "m"}, {"qu", "kw"},
	{"ee", "i"}, {"ea", "i"}, {"ie", "i"}, {"ei", "i"}, {"oo", "u"}, {"ou", "aʊ"},
	{"ow", "aʊ"}, {"ai", "eɪ"}, {"ay", "eɪ"}, {"oa", "oʊ"}, {"oe", "oʊ"},
	{"ll", "l"}, {"ss", "s"}, {"ff", "f"}, {"tt", "t"}, {"pp", "p"}, {"mm", "m"},
	{"nn", "n"}, {"rr", "r"}, {"dd", "d"}, {"bb", "b"}, {"gg", "g"}, {"cc", "k"}, {"zz", "z"},
	{"ce", "s"}, {"ci", "s"}, {"cy", "s"},
	{"c", "k"}, {"q", "k"}, {"x", "ks"}, {"y", "i"}, {"z", "s"},
}

// EnglishPhonemes is a small built-in rule set for English spelling.
func EnglishPhonemes() *PhonemeRules {
	p := &PhonemeRules{rules: make(map[string]string, len(englishRules))}
	for _, r := range englishRules {
		p.add(r[0], r[1])
	}
	return p
}

func (p *PhonemeRules) add(g, ph string) {
	p.rules[g] = ph
	p.maxLen = max(p.maxLen, utf8.RuneCountInString(g))
}

// LoadPhonemes reads grapheme\tphoneme lines. An empty phoneme marks a
// silent grapheme; lines starting with # are comments.
func LoadPhonemes(path string) (*PhonemeRules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("generator: phonemes: %w", err)
	}
	defer f.Close()
	return ParsePhonemes(f)
}

func ParsePhonemes(r io.Reader) (*PhonemeRules, error) {
	p := &PhonemeRules{rules: make(map[string]string)}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g, ph, ok := strings.Cut(line, "\t")
		g = strings.TrimSpace(g)
		if !ok || g == "" {
			continue
		}
		p.add(strings.ToLower(g), strings.TrimSpace(ph))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("generator: phonemes: %w", err)
	}
	return p, nil
}

// Transcribe converts a normalized word to its phoneme string.
func (p *PhonemeRules) Transcribe(word string) string {
	rs := []rune(word)
	var b strings.Builder
	for i := 0; i < len(rs); {
		matched := false
		for n := min(p.maxLen, len(rs)-i); n > 0; n-- {
			if ph, ok := p.rules[string(rs[i:i+n])]; ok {
				b.WriteString(ph)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			b.WriteRune(rs[i])
			i++
		}
	}
	return b.String()
}

// Phoneme proposes words that sound like the anomaly. Cost is the edit
// distance between phoneme strings.
type Phoneme struct {
	rules       *PhonemeRules
	maxDistance int
	cache       atomic.Pointer[phoneCache]
}

// phoneCache holds transcriptions of one dictionary's words. It is dropped
// when checks move to another dictionary, so it never outgrows the word list.
type phoneCache struct {
	dict  *dictionary.Dictionary
	codes sync.Map // word -> transcription
}

// NewPhoneme builds a phoneme generator. rules may be nil, in which case
// every call reports ErrResourceUnavailable.
func NewPhoneme(rules *PhonemeRules, maxDistance int) *Phoneme {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return &Phoneme{rules: rules, maxDistance: maxDistance}
}

func (*Phoneme) Name() string { return "phoneme" }

func (g *Phoneme) codes(d *dictionary.Dictionary) *phoneCache {
	if c := g.cache.Load(); c != nil && c.dict == d {
		return c
	}
	c := &phoneCache{dict: d}
	g.cache.Store(c)
	return c
}

// transcribe returns the cached transcription of a dictionary word.
func (c *phoneCache) transcribe(rules *PhonemeRules, word string) string {
	if v, ok := c.codes.Load(word); ok {
		return v.(string)
	}
	t := rules.Transcribe(word)
	c.codes.Store(word, t)
	return t
}

func (g *Phoneme) Generate(ctx context.Context, req Request) ([]annotation.Candidate, error) {
	if g == nil || g.rules == nil {
		return nil, ErrResourceUnavailable
	}
	w := req.query()
	// only dictionary words are cached
	target := g.rules.Transcribe(w)
	cache := g.codes(req.Dictionary)
	n := utf8.RuneCountInString(w)
	// spellings of one sound vary in length, so search wider than the edit bound
	slack := g.maxDistance + 2
	var items []scored
	i := 0
	req.Dictionary.Range(n-slack, n+slack, func(word string, freq int64) bool {
		i++
		if i%4096 == 0 && ctx.Err() != nil {
			return false
		}
		if word == w {
			return true
		}
		if d := edlib.LevenshteinDistance(target, cache.transcribe(g.rules, word)); d <= g.maxDistance {
			items = append(items, scored{word: word, cost: float64(d), freq: freq})
		}
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return req.limit(best(items, g.Name())), nil
}
