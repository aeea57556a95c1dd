package conflict

import "github.com/aretw0/crosstalk/pkg/ledger"

// Display is the per-utterance label shown next to a match.
type Display string

const (
	DisplayPending Display = "pending"
	DisplayFlagged Display = "flagged"
	DisplayEdited  Display = "edited"
	DisplayMoved   Display = "moved"
	DisplayDeleted Display = "deleted"
)

// DisplayFor labels an utterance as seen from viewer. A flag raised by the
// viewer wins over the action.
func DisplayFor(todo ledger.Snapshot, text, viewer string) Display {
	e, _ := todo.Lookup(text)
	return DisplayOf(e, viewer)
}

// DisplayOf labels a single ledger entry. The zero entry is pending.
func DisplayOf(e ledger.Entry, viewer string) Display {
	if e.IsFlaggedFrom(viewer) {
		return DisplayFlagged
	}
	switch e.Action.Kind {
	case ledger.Edit:
		return DisplayEdited
	case ledger.Move:
		return DisplayMoved
	case ledger.Remove:
		return DisplayDeleted
	}
	return DisplayPending
}
