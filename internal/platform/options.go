package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/crosstalk/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration for a crosstalk workspace.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	adapter      string
	format       string
	autoInit     bool
	mustExist    bool
	readOnly     bool
	debounce     time.Duration
	errorHandler func(error)
}

// Option defines a functional option for configuring crosstalk.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:  AdapterFS,
		format:   "json",
		autoInit: true,
	}
}

// WithAutoInit creates the vault when it does not exist yet. Enabled by default.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithLogger sets the logger for the workspace and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter, skipping adapter selection.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat selects the file format of the fs adapter ("json" or "yaml").
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithReadOnly enables read-only mode.
// In this mode writes return core.ErrReadOnly and no directory is created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithWatchDebounce sets how long the fs adapter coalesces bursts of changes.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the watch loop,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
