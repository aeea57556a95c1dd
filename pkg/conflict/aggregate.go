package conflict

import (
	"github.com/aretw0/crosstalk/pkg/ledger"
)

// State classifies how far the remediation of a set of conflicts has come.
type State string

const (
	StateClean      State = "clean"
	StateUnresolved State = "unresolved"
	StatePartial    State = "partial"
	StateResolved   State = "resolved"
)

// PositiveMatchCount counts matches above 0% that no ledger entry resolves for active.
func PositiveMatchCount(matches []Match, active string, todo ledger.Snapshot) int {
	n := 0
	for _, m := range matches {
		if !m.Percentage.Positive() {
			continue
		}
		if e, ok := todo.Lookup(m.Utterance); ok && e.Resolves(active) {
			continue
		}
		n++
	}
	return n
}

// ChangeCount counts matches touched by remediation, whatever their percentage.
func ChangeCount(matches []Match, active string, todo ledger.Snapshot) int {
	n := 0
	for _, m := range matches {
		if e, ok := todo.Lookup(m.Utterance); ok && e.Resolves(active) {
			n++
		}
	}
	return n
}

// IsResolved reports whether the number of conflicts, counted as if nothing had
// been remediated, is positive and exactly equal to the number of changes.
func IsResolved(matches []Match, active string, todo ledger.Snapshot) bool {
	conflicts := PositiveMatchCount(matches, active, nil)
	return conflicts > 0 && conflicts == ChangeCount(matches, active, todo)
}

func classify(baseline, changes int, resolved bool) State {
	switch {
	case resolved:
		return StateResolved
	case baseline == 0 && changes == 0:
		return StateClean
	case changes == 0:
		return StateUnresolved
	default:
		return StatePartial
	}
}

// DialogSummary is the aggregation of one other dialog's matches.
type DialogSummary struct {
	Dialog    string `json:"dialog"`
	Conflicts int    `json:"conflicts"`
	Pending   int    `json:"pending"`
	Changes   int    `json:"changes"`
	Resolved  bool   `json:"resolved"`
	State     State  `json:"state"`
}

// Summary aggregates a whole report against the ledger.
type Summary struct {
	Active      string          `json:"dialog"`
	Conflicting int             `json:"conflictingDialogs"`
	Conflicts   int             `json:"conflicts"`
	Pending     int             `json:"pending"`
	Changes     int             `json:"changes"`
	Resolved    bool            `json:"resolved"`
	State       State           `json:"state"`
	Dialogs     []DialogSummary `json:"dialogs"`
}

// ConflictingDialogCount counts other dialogs with at least one pending conflict.
func ConflictingDialogCount(r Report, todo ledger.Snapshot) int {
	n := 0
	for _, key := range r.Order {
		if PositiveMatchCount(r.Results[key], r.Active, todo) > 0 {
			n++
		}
	}
	return n
}

// Summarize aggregates every dialog of the report, then the report as a whole.
func Summarize(r Report, todo ledger.Snapshot) Summary {
	s := Summary{Active: r.Active, Dialogs: []DialogSummary{}}
	for _, key := range r.Order {
		matches := r.Results[key]
		ds := DialogSummary{
			Dialog:    key,
			Conflicts: PositiveMatchCount(matches, r.Active, nil),
			Pending:   PositiveMatchCount(matches, r.Active, todo),
			Changes:   ChangeCount(matches, r.Active, todo),
			Resolved:  IsResolved(matches, r.Active, todo),
		}
		ds.State = classify(ds.Conflicts, ds.Changes, ds.Resolved)
		if ds.Pending > 0 {
			s.Conflicting++
		}
		s.Conflicts += ds.Conflicts
		s.Pending += ds.Pending
		s.Changes += ds.Changes
		s.Dialogs = append(s.Dialogs, ds)
	}
	s.Resolved = s.Conflicts > 0 && s.Conflicts == s.Changes
	s.State = classify(s.Conflicts, s.Changes, s.Resolved)
	return s
}
