package corrector

import "strings"

func isTitle(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) == string(r[0]) && strings.ToLower(string(r[1:])) == string(r[1:])
}

func isUpper(s string) bool { return strings.ToUpper(s) == s }

func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// matchCase gives repl the casing pattern of orig.
func matchCase(orig, repl string) string {
	switch {
	case orig == strings.ToLower(orig):
		return repl
	case isTitle(orig):
		return title(repl)
	case isUpper(orig):
		return strings.ToUpper(repl)
	}
	return repl
}
