package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly          = errors.New("repository is in read-only mode")
	ErrNotFound          = errors.New("document not found")
	ErrUtteranceNotFound = errors.New("utterance does not belong to dialog")
	ErrUnknownDialog     = errors.New("unknown dialog")
)

// ValidationError is returned when user input is rejected before it reaches any state.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ContractError reports a caller passing a ref that does not resolve.
// The operation is aborted and no state is touched.
type ContractError struct {
	Op  string
	Ref UtteranceRef
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: utterance %q not found in dialog %q", e.Op, e.Ref.ID, e.Ref.DialogKey)
}

func (e *ContractError) Unwrap() error { return ErrUtteranceNotFound }
