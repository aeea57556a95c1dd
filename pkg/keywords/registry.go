package keywords

import (
	"maps"
	"sort"

	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/match"
)

// Entry is the persisted view of one dialog: its keywords and the last
// computed self-match statuses.
type Entry struct {
	Keywords []string                    `json:"keywords"`
	Statuses map[string]match.Percentage `json:"statuses"`
}

// Snapshot is the keywordsByDialog map handed to renderers and storage.
type Snapshot map[string]Entry

// Registry holds the keyword profile and status cache of every dialog.
// It is not safe for concurrent use; the workspace serializes access.
type Registry struct {
	profiles map[string]*Profile
	statuses map[string]map[string]match.Percentage
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[string]*Profile),
		statuses: make(map[string]map[string]match.Percentage),
	}
}

// AddKeyword validates kw, adds it to dialogKey's profile and recomputes that
// dialog's statuses. A duplicate keyword changes nothing and skips the recompute.
func (r *Registry) AddKeyword(dialogKey, kw string, utterances []core.Utterance) (bool, error) {
	p, ok := r.profiles[dialogKey]
	if !ok {
		p = &Profile{}
	}
	added, err := p.Add(kw)
	if err != nil || !added {
		return false, err
	}
	r.profiles[dialogKey] = p
	r.Recompute(dialogKey, utterances)
	return added, nil
}

// RemoveKeyword removes kw from dialogKey's profile and recomputes.
func (r *Registry) RemoveKeyword(dialogKey, kw string, utterances []core.Utterance) bool {
	p, ok := r.profiles[dialogKey]
	if !ok {
		return false
	}
	removed := p.Remove(kw)
	r.Recompute(dialogKey, utterances)
	return removed
}

// Recompute replaces the status cache of dialogKey with a full pass.
func (r *Registry) Recompute(dialogKey string, utterances []core.Utterance) {
	p, ok := r.profiles[dialogKey]
	if !ok {
		return
	}
	r.statuses[dialogKey] = ComputeStatuses(utterances, dialogKey, p.Keywords())
}

// RecomputeAll refreshes every dialog that has a profile.
func (r *Registry) RecomputeAll(utterances []core.Utterance) {
	for key := range r.profiles {
		r.Recompute(key, utterances)
	}
}

// Keywords returns dialogKey's keywords, or nil.
func (r *Registry) Keywords(dialogKey string) []string {
	if p, ok := r.profiles[dialogKey]; ok {
		return p.Keywords()
	}
	return nil
}

// Entry returns a copy of dialogKey's keywords and statuses.
func (r *Registry) Entry(dialogKey string) (Entry, bool) {
	p, ok := r.profiles[dialogKey]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Keywords: p.Keywords(),
		Statuses: maps.Clone(r.statuses[dialogKey]),
	}, true
}

// Dialogs lists dialogs with a profile, sorted.
func (r *Registry) Dialogs() []string {
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot copies the whole registry.
func (r *Registry) Snapshot() Snapshot {
	out := make(Snapshot, len(r.profiles))
	for key := range r.profiles {
		e, _ := r.Entry(key)
		if e.Statuses == nil {
			e.Statuses = map[string]match.Percentage{}
		}
		out[key] = e
	}
	return out
}

// Restore replaces the registry contents with snap. Invalid keywords are dropped.
func (r *Registry) Restore(snap Snapshot) {
	r.profiles = make(map[string]*Profile, len(snap))
	r.statuses = make(map[string]map[string]match.Percentage, len(snap))
	for key, e := range snap {
		r.profiles[key] = NewProfile(e.Keywords...)
		r.statuses[key] = maps.Clone(e.Statuses)
	}
}
