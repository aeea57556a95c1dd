package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/crosstalk/pkg/adapters/fs"
	"github.com/aretw0/crosstalk/pkg/adapters/memory"
	"github.com/aretw0/crosstalk/pkg/adapters/sqlite"
	"github.com/aretw0/crosstalk/pkg/core"
)

// DatabaseFile is the SQLite file created inside a vault's system directory.
const DatabaseFile = "crosstalk.db"

// Init prepares the storage behind a workspace.
// The uri is adapter specific: the vault directory for fs, the vault
// directory or a .db file for sqlite, and ignored for memory.
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case AdapterFS:
		repo = fs.NewRepository(fs.Config{
			Path:         uri,
			Format:       o.format,
			MustExist:    o.mustExist || !o.autoInit,
			ReadOnly:     o.readOnly,
			Logger:       o.logger,
			Debounce:     o.debounce,
			ErrorHandler: o.errorHandler,
		})
	case AdapterSQLite:
		repo = sqlite.NewRepository(sqlite.Config{
			Path:     databasePath(uri),
			ReadOnly: o.readOnly || (o.mustExist && !o.autoInit),
			Logger:   o.logger,
		})
	case AdapterMemory:
		repo = memory.NewRepository()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	if o.logger != nil {
		o.logger.Debug("storage ready", "adapter", o.adapter, "uri", uri, "read_only", o.readOnly)
	}
	return repo, nil
}

func databasePath(uri string) string {
	if uri == sqlite.MemoryPath || filepath.Ext(uri) == ".db" {
		return uri
	}
	return filepath.Join(uri, fs.DefaultSystemDir, DatabaseFile)
}
