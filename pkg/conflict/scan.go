// Package conflict finds utterances of other dialogs that look like they
// belong to the active dialog, and decides which of those conflicts are resolved.
package conflict

import (
	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/match"
	"github.com/aretw0/crosstalk/pkg/text"
)

// Match is one scored utterance of another dialog.
type Match struct {
	Utterance  string           `json:"utterance"`
	Percentage match.Percentage `json:"percentage"`
}

// Report is the result of scanning every other dialog against the active
// dialog's keywords. Order lists dialog keys in corpus order.
type Report struct {
	Active   string             `json:"dialog"`
	Keywords []string           `json:"keywords"`
	Results  map[string][]Match `json:"results"`
	Order    []string           `json:"-"`
}

// Scan scores the utterances of every dialog except active against keywords.
// Dialogs and utterances keep their corpus order. Scan never mutates anything.
func Scan(corpus core.Corpus, active string, keywords []string) Report {
	r := Report{
		Active:   active,
		Keywords: append([]string(nil), keywords...),
		Results:  make(map[string][]Match),
	}
	for _, d := range corpus.Dialogs {
		if d.Key == active {
			continue
		}
		if _, seen := r.Results[d.Key]; seen {
			continue
		}
		matches := []Match{}
		for _, u := range corpus.Utterances {
			if u.DialogKey != d.Key {
				continue
			}
			matches = append(matches, Match{
				Utterance:  u.Text,
				Percentage: match.Score(text.Tokenize(u.Text), keywords),
			})
		}
		r.Results[d.Key] = matches
		r.Order = append(r.Order, d.Key)
	}
	return r
}
