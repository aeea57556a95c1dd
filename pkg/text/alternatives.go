package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord    = regexp.MustCompile(`[^a-z0-9\s]`)
	paraWord   = regexp.MustCompile(`\bpara\b`)
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Fold lowercases s, removes accents and drops everything but ASCII letters, digits and whitespace.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return nonWord.ReplaceAllString(folded, "")
}

// Alternatives returns the common misspellings of s that authors add as extra
// training phrases. The result is deduplicated and keeps rule order.
func Alternatives(s string) []string {
	base := Fold(s)
	words := strings.Split(base, " ")

	var out []string
	seen := make(map[string]bool)
	add := func(v string) {
		if seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	if anyWord(words, func(w string) bool { return strings.HasSuffix(w, "s") }) {
		add(mapWords(words, func(w string) string { return strings.TrimSuffix(w, "s") }))
	}
	if anyWord(words, func(w string) bool { return strings.HasSuffix(w, "r") }) {
		add(mapWords(words, func(w string) string { return strings.TrimSuffix(w, "r") }))
	}
	if anyWord(words, func(w string) bool { return strings.Contains(w, "qu") }) {
		add(mapWords(words, func(w string) string { return strings.ReplaceAll(w, "qu", "k") }))
	}
	if strings.HasPrefix(base, "h") || strings.Contains(base, " h") {
		add(mapWords(words, func(w string) string { return strings.TrimPrefix(w, "h") }))
	}
	if strings.Contains(base, "ll") {
		add(strings.ReplaceAll(base, "ll", "y"))
	}
	if strings.Contains(base, "para") {
		add(paraWord.ReplaceAllString(base, "pa"))
	}
	return out
}

func anyWord(words []string, pred func(string) bool) bool {
	for _, w := range words {
		if pred(w) {
			return true
		}
	}
	return false
}

func mapWords(words []string, fn func(string) string) string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = fn(w)
	}
	return strings.Join(out, " ")
}
