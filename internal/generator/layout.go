package generator

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultKeyDistance is used for key pairs a layout knows nothing about.
const DefaultKeyDistance = 4.0

// Layout answers how far apart two keys are.
type Layout struct {
	Name    string
	pos     map[rune][2]int
	dist    map[[2]rune]float64
	special map[[2]rune]float64
}

var (
	qwertyRows = []string{
		"qwertyuiop",
		"asdfghjkl",
		"zxcvbnm",
	}
	jcukenRows = []string{
		"ёйцукенгшщзхъ",
		"фывапролджэ",
		"ячсмитьбю",
	}
	// confusable Cyrillic pairs cheaper than their key distance
	jcukenSpecial = map[[2]rune]float64{
		{'ё', 'е'}: 0.2, {'й', 'и'}: 0.3, {'ь', 'ъ'}: 0.4, {'ц', 'й'}: 0.4,
	}
)

func rowsLayout(name string, rows []string, special map[[2]rune]float64) *Layout {
	l := &Layout{Name: name, pos: make(map[rune][2]int), special: make(map[[2]rune]float64)}
	for r, row := range rows {
		c := 0
		for _, ch := range row {
			l.pos[ch] = [2]int{r, c}
			c++
		}
	}
	for k, v := range special {
		l.special[k] = v
		l.special[[2]rune{k[1], k[0]}] = v
	}
	return l
}

// QWERTY is the English layout.
func QWERTY() *Layout { return rowsLayout("qwerty", qwertyRows, nil) }

// JCUKEN is the Russian layout.
func JCUKEN() *Layout { return rowsLayout("jcuken", jcukenRows, jcukenSpecial) }

// BuiltinLayout returns a built-in layout by name, or nil.
func BuiltinLayout(name string) *Layout {
	switch strings.ToLower(name) {
	case "qwerty", "en":
		return QWERTY()
	case "jcuken", "йцукен", "ru":
		return JCUKEN()
	}
	return nil
}

// LoadLayout reads a distance matrix file with char1\tchar2\tdistance lines.
// Pairs are symmetric; malformed lines are skipped.
func LoadLayout(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("generator: layout: %w", err)
	}
	defer f.Close()
	return ParseLayout(path, f)
}

func ParseLayout(name string, r io.Reader) (*Layout, error) {
	l := &Layout{Name: name, dist: make(map[[2]rune]float64)}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		parts := strings.Split(strings.TrimSpace(sc.Text()), "\t")
		if len(parts) < 3 {
			continue
		}
		a, na := utf8.DecodeRuneInString(parts[0])
		b, nb := utf8.DecodeRuneInString(parts[1])
		if na != len(parts[0]) || nb != len(parts[1]) {
			continue
		}
		d, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			continue
		}
		a, b = unicode.ToLower(a), unicode.ToLower(b)
		l.dist[[2]rune{a, b}] = d
		l.dist[[2]rune{b, a}] = d
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("generator: layout %s: %w", name, err)
	}
	return l, nil
}

// KeyDistance returns the physical distance between two keys.
func (l *Layout) KeyDistance(a, b rune) float64 {
	a, b = unicode.ToLower(a), unicode.ToLower(b)
	if a == b {
		return 0
	}
	if d, ok := l.dist[[2]rune{a, b}]; ok {
		return d
	}
	pa, oka := l.pos[a]
	pb, okb := l.pos[b]
	if !oka || !okb {
		return DefaultKeyDistance
	}
	dr := float64(pa[0] - pb[0])
	dc := float64(pa[1] - pb[1])
	return math.Sqrt(dr*dr + dc*dc)
}

// SubstitutionCost buckets the key distance: neighbouring keys cost nearSub,
// far keys approach a full edit and beyond.
func (l *Layout) SubstitutionCost(a, b rune, nearSub float64) float64 {
	a, b = unicode.ToLower(a), unicode.ToLower(b)
	if v, ok := l.special[[2]rune{a, b}]; ok {
		return v
	}
	d := l.KeyDistance(a, b)
	switch {
	case d <= 1.0:
		return nearSub
	case d <= 1.5:
		return 0.8
	case d <= 2.2:
		return 1.2
	}
	return 1.8
}
