// Package keywords owns the per-dialog keyword profiles and the self-match
// statuses computed from them.
package keywords

import (
	"errors"
	"strings"
	"unicode"

	"github.com/aretw0/crosstalk/pkg/core"
)

var (
	ErrEmptyKeyword      = errors.New("keyword is empty")
	ErrKeywordWhitespace = errors.New("keyword contains whitespace")
)

// Validate trims and lowercases raw. Keywords are single tokens.
func Validate(raw string) (string, error) {
	kw := strings.TrimSpace(raw)
	if kw == "" {
		return "", &core.ValidationError{Field: "keyword", Value: raw, Err: ErrEmptyKeyword}
	}
	if strings.IndexFunc(kw, unicode.IsSpace) >= 0 {
		return "", &core.ValidationError{Field: "keyword", Value: raw, Err: ErrKeywordWhitespace}
	}
	return strings.ToLower(kw), nil
}

// Profile is an insertion-ordered set of unique keywords.
type Profile struct {
	keywords []string
}

// NewProfile builds a profile, skipping invalid and duplicate entries.
func NewProfile(keywords ...string) *Profile {
	p := &Profile{}
	for _, k := range keywords {
		_, _ = p.Add(k)
	}
	return p
}

// Add validates and appends kw. It reports false when kw was already present.
func (p *Profile) Add(kw string) (bool, error) {
	kw, err := Validate(kw)
	if err != nil {
		return false, err
	}
	if p.Contains(kw) {
		return false, nil
	}
	p.keywords = append(p.keywords, kw)
	return true, nil
}

// Remove deletes kw and reports whether it was present.
func (p *Profile) Remove(kw string) bool {
	kw = strings.ToLower(strings.TrimSpace(kw))
	for i, k := range p.keywords {
		if k == kw {
			p.keywords = append(p.keywords[:i:i], p.keywords[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether kw is part of the profile.
func (p *Profile) Contains(kw string) bool {
	for _, k := range p.keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// Keywords returns a copy in insertion order.
func (p *Profile) Keywords() []string {
	return append([]string(nil), p.keywords...)
}

// Len returns the number of keywords.
func (p *Profile) Len() int {
	return len(p.keywords)
}
