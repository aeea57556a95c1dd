package keywords

import (
	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/match"
	"github.com/aretw0/crosstalk/pkg/text"
)

// ComputeStatuses scores every utterance owned by dialogKey against keywords.
// Utterances of other dialogs are ignored. The result is keyed by utterance text.
func ComputeStatuses(utterances []core.Utterance, dialogKey string, keywords []string) map[string]match.Percentage {
	statuses := make(map[string]match.Percentage)
	for _, u := range utterances {
		if u.DialogKey != dialogKey {
			continue
		}
		statuses[u.Text] = match.Score(text.Tokenize(u.Text), keywords)
	}
	return statuses
}
