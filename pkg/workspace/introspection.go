package workspace

import "github.com/aretw0/introspection"

// State is the observable summary of a workspace.
type State struct {
	Utterances int      `json:"utterances"`
	Dialogs    int      `json:"dialogs"`
	Services   int      `json:"services"`
	Profiles   []string `json:"profiles"`
	ToDo       int      `json:"todo"`
	Persistent bool     `json:"persistent"`
}

// State implements introspection.Introspectable.
func (w *Workspace) State() any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return State{
		Utterances: len(w.corpus.Utterances),
		Dialogs:    len(w.corpus.Dialogs),
		Services:   len(w.corpus.Services),
		Profiles:   w.registry.Dialogs(),
		ToDo:       w.ledger.Len(),
		Persistent: w.repo != nil,
	}
}

// ComponentType implements introspection.Component.
func (w *Workspace) ComponentType() string {
	return "workspace"
}

var _ introspection.Introspectable = (*Workspace)(nil)
var _ introspection.Component = (*Workspace)(nil)
