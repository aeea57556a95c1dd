package crosstalk

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/crosstalk/internal/platform"
	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/workspace"
)

// --- Types ---

// Workspace owns the corpus, the keyword profiles and the resolution ledger.
type Workspace = workspace.Workspace

// Corpus is the entity snapshot handed over by the authoring tool.
type Corpus = core.Corpus

// Utterance is a single training phrase owned by a dialog.
type Utterance = core.Utterance

// Dialog is a named intent bucket.
type Dialog = core.Dialog

// UtteranceRef addresses one utterance inside the dialog that owns it.
type UtteranceRef = core.UtteranceRef

// --- Configuration ---

// Option defines a functional option for configuring crosstalk.
type Option = platform.Option

// WithAutoInit creates the vault when it does not exist yet.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the workspace and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat selects the file format of the fs adapter ("json" or "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithWatchDebounce sets how long the fs adapter coalesces bursts of changes.
func WithWatchDebounce(d time.Duration) Option {
	return platform.WithWatchDebounce(d)
}

// --- Factory ---

// New opens the storage at uri and loads a workspace from it.
func New(ctx context.Context, uri string, opts ...Option) (*Workspace, error) {
	return platform.New(ctx, uri, opts...)
}

// Init prepares the storage at uri without loading a workspace.
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(ctx, uri, opts...)
}
