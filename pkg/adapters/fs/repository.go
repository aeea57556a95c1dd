// Package fs stores crosstalk documents as JSON or YAML files in a flat vault directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/crosstalk/pkg/core"
)

// DefaultSystemDir marks a directory as a crosstalk vault.
const DefaultSystemDir = ".crosstalk"

// Repository implements core.Repository on top of the filesystem.
// Each document is one file named after its ID. Returned Fields share nested
// values with the parse cache and must be treated as read-only.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	cache       *cache

	mu            sync.RWMutex
	readOnly      bool
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	Format    string // "json" (default) or "yaml"
	MustExist bool
	ReadOnly  bool
	SystemDir string // defaults to DefaultSystemDir
	Logger    *slog.Logger
	// Debounce coalesces bursts of filesystem events per document. Zero means 50ms.
	Debounce time.Duration
	// ErrorHandler receives errors raised inside the watch loop.
	ErrorHandler func(error)
	// TempPrefix names Save's scratch files. Defaults to TempFilePrefix.
	TempPrefix string
	// StaleTempAge is the age after which Initialize deletes scratch files
	// left by an interrupted Save. Zero means DefaultStaleTempAge, negative keeps them.
	StaleTempAge time.Duration
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Format == "" {
		config.Format = "json"
	}
	if config.TempPrefix == "" {
		config.TempPrefix = TempFilePrefix
	}
	if config.StaleTempAge == 0 {
		config.StaleTempAge = DefaultStaleTempAge
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(),
		cache:       newCache(),
		readOnly:    config.ReadOnly,
	}
}

// Initialize prepares the vault directory. Read-only vaults must already exist.
func (r *Repository) Initialize(ctx context.Context) error {
	if _, ok := r.serializers["."+r.config.Format]; !ok {
		return fmt.Errorf("unsupported format: %s", r.config.Format)
	}

	if r.config.MustExist || r.readOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	}
	if r.readOnly {
		return nil
	}

	if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	if _, err := r.sweepTemp(time.Now()); err != nil {
		return fmt.Errorf("failed to clean vault: %w", err)
	}
	return nil
}

// Save writes the document atomically in the configured format. A copy of the
// same document in another format is removed so reads stay unambiguous.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.isReadOnly() {
		return core.ErrReadOnly
	}
	if err := validateID(doc.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ext := "." + r.config.Format
	data, err := r.serializers[ext].Serialize(doc.Fields)
	if err != nil {
		return fmt.Errorf("failed to serialize document %s: %w", doc.ID, err)
	}

	name := doc.ID + ext
	if err := r.writeAtomic(name, data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	r.cache.Delete(name)

	for other := range r.serializers {
		if other == ext {
			continue
		}
		stale := doc.ID + other
		if err := os.Remove(filepath.Join(r.Path, stale)); err == nil {
			r.cache.Delete(stale)
			r.debug("removed stale copy", "file", stale)
		}
	}
	return nil
}

// Get reads a document, preferring the configured format.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	if err := validateID(id); err != nil {
		return core.Document{}, err
	}
	for _, ext := range r.extensions() {
		name := id + ext
		info, err := os.Stat(filepath.Join(r.Path, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return core.Document{}, err
		}
		fields, err := r.load(name, info)
		if err != nil {
			return core.Document{}, fmt.Errorf("failed to parse document %s: %w", id, err)
		}
		return core.Document{ID: id, Fields: fields}, nil
	}
	return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
}

// List reads every document of the vault, ordered by ID.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	seen := make(map[string]bool)
	var docs []core.Document
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := r.idOf(de.Name())
		if de.IsDir() || !ok || seen[id] {
			continue
		}
		doc, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		seen[id] = true
		docs = append(docs, doc)
	}

	keep := make(map[string]bool)
	for _, de := range entries {
		keep[de.Name()] = true
	}
	r.cache.Prune(keep)

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Delete removes every file of the document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.isReadOnly() {
		return core.ErrReadOnly
	}
	if err := validateID(id); err != nil {
		return err
	}
	found := false
	for _, ext := range r.extensions() {
		name := id + ext
		err := os.Remove(filepath.Join(r.Path, name))
		if err == nil {
			found = true
			r.cache.Delete(name)
			continue
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) load(name string, info os.FileInfo) (core.Fields, error) {
	if fields, ok := r.cache.Get(name, info.ModTime(), info.Size()); ok {
		return maps.Clone(fields), nil
	}
	f, err := os.Open(filepath.Join(r.Path, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields, err := r.serializers[filepath.Ext(name)].Parse(f)
	if err != nil {
		return nil, err
	}
	r.cache.Set(name, fields, info.ModTime(), info.Size())
	return maps.Clone(fields), nil
}

// extensions lists supported extensions with the configured one first.
func (r *Repository) extensions() []string {
	preferred := "." + r.config.Format
	exts := []string{preferred}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if ext != preferred {
			exts = append(exts, ext)
		}
	}
	return exts
}

// idOf maps a file name to a document ID, skipping temp and foreign files.
func (r *Repository) idOf(name string) (string, bool) {
	if strings.HasPrefix(name, r.config.TempPrefix) || strings.HasPrefix(name, ".") {
		return "", false
	}
	ext := filepath.Ext(name)
	if _, ok := r.serializers[ext]; !ok {
		return "", false
	}
	return strings.TrimSuffix(name, ext), true
}

func (r *Repository) isReadOnly() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readOnly
}

func (r *Repository) debug(msg string, args ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, args...)
	}
}

var errBadID = errors.New("document IDs must be plain file names")

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("document has no ID")
	}
	if strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return &core.ValidationError{Field: "id", Value: id, Err: errBadID}
	}
	return nil
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
