package core

import "fmt"

// Fields is the flexible key-value payload of a stored document.
type Fields map[string]any

// Document is the unit the storage collaborator reads and writes.
// The core never looks at how it is laid out on disk.
type Document struct {
	ID     string
	Fields Fields
}

// Well-known document IDs.
const (
	DocCorpus   = "corpus"
	DocKeywords = "keywords"
	DocTodo     = "todo"
)

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the store.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
