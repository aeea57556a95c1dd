// Package ledger records the remediation decided for each conflicting utterance.
package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is returned when an action is missing its parameter.
var ErrInvalidAction = errors.New("invalid action")

// Kind tags the exclusive remediation action of an entry.
type Kind string

const (
	None   Kind = "none"
	Remove Kind = "remove"
	Edit   Kind = "edit"
	Move   Kind = "move"
)

// ParseKind accepts the persisted names. The empty string maps to None.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", None:
		return None, nil
	case Remove, Edit, Move:
		return Kind(s), nil
	}
	return None, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, s)
}

// Action is a tagged variant: only the field matching Kind is meaningful.
type Action struct {
	Kind         Kind
	EditedText   string
	TargetDialog string
}

// RemoveAction marks the utterance for deletion.
func RemoveAction() Action { return Action{Kind: Remove} }

// EditAction rewrites the utterance to text.
func EditAction(text string) Action { return Action{Kind: Edit, EditedText: text} }

// MoveAction moves the utterance to the target dialog.
func MoveAction(target string) Action { return Action{Kind: Move, TargetDialog: target} }

// IsNone reports whether no action is set.
func (a Action) IsNone() bool {
	return a.Kind == "" || a.Kind == None
}

// Validate checks that the parameter required by Kind is present.
func (a Action) Validate() error {
	switch a.Kind {
	case Remove:
		return nil
	case Edit:
		if a.EditedText == "" {
			return fmt.Errorf("%w: edit needs the new text", ErrInvalidAction)
		}
		return nil
	case Move:
		if a.TargetDialog == "" {
			return fmt.Errorf("%w: move needs a target dialog", ErrInvalidAction)
		}
		return nil
	}
	return fmt.Errorf("%w: cannot set %q", ErrInvalidAction, a.Kind)
}

// normalized drops parameters that do not belong to Kind.
func (a Action) normalized() Action {
	switch a.Kind {
	case Edit:
		return Action{Kind: Edit, EditedText: a.EditedText}
	case Move:
		return Action{Kind: Move, TargetDialog: a.TargetDialog}
	case Remove:
		return Action{Kind: Remove}
	}
	return Action{Kind: None}
}
