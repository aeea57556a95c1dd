// Package sqlite stores crosstalk documents as JSON rows in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/crosstalk/pkg/core"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path     string // database file, or MemoryPath
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository with one row per document.
type Repository struct {
	config Config

	mu sync.RWMutex
	db *sql.DB
}

// NewRepository creates a repository. The database is opened by Initialize.
func NewRepository(config Config) *Repository {
	return &Repository{config: config}
}

// Initialize opens the database and creates the schema.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return nil
	}

	path := r.config.Path
	if path == "" {
		return fmt.Errorf("sqlite: no database path")
	}
	if path != MemoryPath {
		if r.config.ReadOnly {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("sqlite: database does not exist: %w", err)
			}
		} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sqlite: open database: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	if path != MemoryPath && !r.config.ReadOnly {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	if !r.config.ReadOnly {
		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS documents (
				id         TEXT PRIMARY KEY,
				body       TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`); err != nil {
			_ = db.Close()
			return fmt.Errorf("sqlite: migration: %w", err)
		}
	}

	r.db = db
	r.debug("database opened", "path", path, "read_only", r.config.ReadOnly)
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if doc.ID == "" {
		return fmt.Errorf("document has no ID")
	}
	db, err := r.handle()
	if err != nil {
		return err
	}
	fields := doc.Fields
	if fields == nil {
		fields = core.Fields{}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("sqlite: encode %s: %w", doc.ID, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		doc.ID, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", doc.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	db, err := r.handle()
	if err != nil {
		return core.Document{}, err
	}
	var body string
	err = db.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Document{}, fmt.Errorf("sqlite: get %s: %w", id, err)
	}
	return decode(id, body)
}

// List returns every document ordered by ID.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	db, err := r.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT id, body FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("sqlite: list: %w", err)
		}
		doc, err := decode(id, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := r.handle()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) handle() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, fmt.Errorf("sqlite: repository not initialized")
	}
	return r.db, nil
}

func decode(id, body string) (core.Document, error) {
	fields := core.Fields{}
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return core.Document{}, fmt.Errorf("sqlite: decode %s: %w", id, err)
	}
	return core.Document{ID: id, Fields: fields}, nil
}

func (r *Repository) debug(msg string, args ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, args...)
	}
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
	Open     bool   `json:"open"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepositoryState{Path: r.config.Path, ReadOnly: r.config.ReadOnly, Open: r.db != nil}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var (
	_ core.Repository              = (*Repository)(nil)
	_ core.Closer                  = (*Repository)(nil)
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
)
