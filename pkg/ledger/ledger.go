package ledger

import "slices"

// Entry is the remediation record of one utterance text.
type Entry struct {
	Action      Action
	FlaggedFrom []string
}

// IsEmpty reports whether the entry carries neither an action nor a flag.
func (e Entry) IsEmpty() bool {
	return e.Action.IsNone() && len(e.FlaggedFrom) == 0
}

// IsFlaggedFrom reports whether dialogKey flagged the utterance.
func (e Entry) IsFlaggedFrom(dialogKey string) bool {
	return slices.Contains(e.FlaggedFrom, dialogKey)
}

// Resolves reports whether the entry counts as remediation for conflicts
// raised by dialogKey: any action, or a flag from that dialog.
func (e Entry) Resolves(dialogKey string) bool {
	return !e.Action.IsNone() || e.IsFlaggedFrom(dialogKey)
}

func (e Entry) clone() Entry {
	e.FlaggedFrom = slices.Clone(e.FlaggedFrom)
	return e
}

// uniqueFlags drops repeated dialog keys, keeping first appearance order.
func uniqueFlags(flags []string) []string {
	if len(flags) == 0 {
		return nil
	}
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Snapshot is the toDoList map, keyed by utterance text.
type Snapshot map[string]Entry

// Lookup returns the entry for text.
func (s Snapshot) Lookup(text string) (Entry, bool) {
	e, ok := s[text]
	return e, ok
}

// Ledger is the single holder of remediation entries.
// Entries are keyed by raw utterance text, so identical texts in different
// dialogs share one entry. It is not safe for concurrent use.
type Ledger struct {
	entries map[string]Entry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]Entry)}
}

// SetAction toggles the exclusive action slot of text.
// Requesting the kind already stored clears it back to None and discards its
// parameter; any other kind replaces the stored action. Flags are never touched.
// The resulting entry is returned; ok is false when the entry no longer exists.
func (l *Ledger) SetAction(text string, a Action) (Entry, bool, error) {
	e := l.entries[text]
	if !e.Action.IsNone() && e.Action.Kind == a.Kind {
		e.Action = Action{Kind: None}
	} else {
		if err := a.Validate(); err != nil {
			return e.clone(), !e.IsEmpty(), err
		}
		e.Action = a.normalized()
	}
	return l.store(text, e)
}

// ToggleFlag adds source to the flags of text, or removes it when present.
func (l *Ledger) ToggleFlag(text, source string) (Entry, bool) {
	e := l.entries[text].clone()
	if i := slices.Index(e.FlaggedFrom, source); i >= 0 {
		e.FlaggedFrom = slices.Delete(e.FlaggedFrom, i, i+1)
	} else {
		e.FlaggedFrom = append(e.FlaggedFrom, source)
	}
	entry, ok, _ := l.store(text, e)
	return entry, ok
}

func (l *Ledger) store(text string, e Entry) (Entry, bool, error) {
	if e.IsEmpty() {
		delete(l.entries, text)
		return Entry{Action: Action{Kind: None}}, false, nil
	}
	if e.Action.Kind == "" {
		e.Action.Kind = None
	}
	l.entries[text] = e
	return e.clone(), true, nil
}

// Get returns a copy of the entry for text.
func (l *Ledger) Get(text string) (Entry, bool) {
	e, ok := l.entries[text]
	return e.clone(), ok
}

// Len returns the number of live entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Snapshot copies every entry.
func (l *Ledger) Snapshot() Snapshot {
	out := make(Snapshot, len(l.entries))
	for k, e := range l.entries {
		out[k] = e.clone()
	}
	return out
}

// Restore replaces the ledger contents. Empty entries are dropped and
// repeated flags collapse to one.
func (l *Ledger) Restore(snap Snapshot) {
	l.entries = make(map[string]Entry, len(snap))
	for k, e := range snap {
		e.FlaggedFrom = uniqueFlags(e.FlaggedFrom)
		if e.IsEmpty() {
			continue
		}
		_, _, _ = l.store(k, e)
	}
}
