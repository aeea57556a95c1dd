// Package text turns raw utterances into comparable tokens.
package text

import "strings"

// punctuation is the fixed set of characters stripped before matching.
var punctuation = strings.NewReplacer(
	"¿", "",
	"?", "",
	".", "",
	",", "",
	"!", "",
)

// Normalize strips the punctuation set and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(punctuation.Replace(s))
}

// Tokenize normalizes s and splits it on runs of whitespace.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// WordCount returns the number of whitespace separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
