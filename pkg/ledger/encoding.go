package ledger

import (
	"encoding/json"
	"fmt"
)

// wireEntry is the persisted shape of an entry.
type wireEntry struct {
	Action       Kind     `json:"action"`
	EditedText   string   `json:"editedText,omitempty"`
	NewDialogKey string   `json:"newDialogKey,omitempty"`
	FlaggedFrom  []string `json:"flaggedFrom"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	kind := e.Action.Kind
	if kind == "" {
		kind = None
	}
	flags := e.FlaggedFrom
	if flags == nil {
		flags = []string{}
	}
	return json.Marshal(wireEntry{
		Action:       kind,
		EditedText:   e.Action.EditedText,
		NewDialogKey: e.Action.TargetDialog,
		FlaggedFrom:  flags,
	})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var w struct {
		Action       *string  `json:"action"`
		EditedText   string   `json:"editedText"`
		NewDialogKey string   `json:"newDialogKey"`
		FlaggedFrom  []string `json:"flaggedFrom"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var raw string
	if w.Action != nil {
		raw = *w.Action
	}
	// older files stored the flag as an action
	if raw == "flag" {
		raw = ""
	}
	kind, err := ParseKind(raw)
	if err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	e.Action = Action{Kind: kind, EditedText: w.EditedText, TargetDialog: w.NewDialogKey}.normalized()
	e.FlaggedFrom = uniqueFlags(w.FlaggedFrom)
	return nil
}
