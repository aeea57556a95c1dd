package conflict

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/crosstalk/pkg/core"
)

// ExclusiveWords returns, per dialog, the words its utterances use that no
// other dialog's utterances use. Words are split on whitespace only and kept
// in order of first appearance.
func ExclusiveWords(corpus core.Corpus) map[string][]string {
	owners := make(map[string]map[string]bool)
	for _, u := range corpus.Utterances {
		for _, w := range strings.Fields(u.Text) {
			if owners[w] == nil {
				owners[w] = make(map[string]bool)
			}
			owners[w][u.DialogKey] = true
		}
	}

	out := make(map[string][]string, len(corpus.Dialogs))
	for _, d := range corpus.Dialogs {
		seen := make(map[string]bool)
		words := []string{}
		for _, u := range corpus.UtterancesOf(d.Key) {
			for _, w := range strings.Fields(u.Text) {
				if seen[w] || len(owners[w]) != 1 {
					continue
				}
				seen[w] = true
				words = append(words, w)
			}
		}
		out[d.Key] = words
	}
	return out
}

// Filter keeps the dialogs of r whose key matches the glob pattern.
func Filter(r Report, pattern string) (Report, error) {
	if pattern == "" {
		return r, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return Report{}, &core.ValidationError{Field: "pattern", Value: pattern, Err: doublestar.ErrBadPattern}
	}
	out := Report{
		Active:   r.Active,
		Keywords: r.Keywords,
		Results:  make(map[string][]Match),
	}
	for _, key := range r.Order {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return Report{}, err
		}
		if ok {
			out.Results[key] = r.Results[key]
			out.Order = append(out.Order, key)
		}
	}
	return out, nil
}
