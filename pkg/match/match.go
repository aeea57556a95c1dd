// Package match scores an utterance against a keyword profile.
package match

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Percentage is a whole-number match percentage in [0, 100].
// It renders as "N%" everywhere it leaves the process.
type Percentage int

// String formats p as "N%".
func (p Percentage) String() string {
	return strconv.Itoa(int(p)) + "%"
}

// Positive reports whether at least one keyword matched.
func (p Percentage) Positive() bool {
	return p > 0
}

// ParsePercentage parses the "N%" form. The suffix is optional.
func ParsePercentage(s string) (Percentage, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	if n < 0 || n > 100 {
		return 0, fmt.Errorf("percentage %q out of range", s)
	}
	return Percentage(n), nil
}

func (p Percentage) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Percentage) UnmarshalText(b []byte) error {
	v, err := ParsePercentage(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Percentage) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("percentage must be a string: %w", err)
	}
	return p.UnmarshalText([]byte(s))
}

// Score returns the share of keywords present as whole tokens, rounded half up.
// Each keyword counts once no matter how often it appears in tokens.
// An empty keyword set scores 0%.
func Score(tokens, keywords []string) Percentage {
	if len(keywords) == 0 {
		return 0
	}
	matched := len(Matched(tokens, keywords))
	// round(100*m/k) half up, in integers
	return Percentage((200*matched + len(keywords)) / (2 * len(keywords)))
}

// Matched lists the keywords found in tokens, in keyword order.
func Matched(tokens, keywords []string) []string {
	present := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		present[t] = struct{}{}
	}
	var out []string
	for _, k := range keywords {
		if _, ok := present[strings.ToLower(k)]; ok {
			out = append(out, k)
		}
	}
	return out
}
