package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crosstalk/pkg/adapters/sqlite"
	"github.com/aretw0/crosstalk/pkg/core"
)

func open(t *testing.T, cfg sqlite.Config) *sqlite.Repository {
	t.Helper()
	repo := sqlite.NewRepository(cfg)
	require.NoError(t, repo.Initialize(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCRUD(t *testing.T) {
	for name, path := range map[string]string{
		"memory": sqlite.MemoryPath,
		"file":   filepath.Join(t.TempDir(), "data", "crosstalk.db"),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t, sqlite.Config{Path: path})

			_, err := repo.Get(ctx, "todo")
			assert.ErrorIs(t, err, core.ErrNotFound)

			doc := core.Document{ID: "todo", Fields: core.Fields{
				"I want a refund now": map[string]any{"action": "remove", "flaggedFrom": []any{}},
			}}
			require.NoError(t, repo.Save(ctx, doc))
			require.NoError(t, repo.Save(ctx, doc), "upsert")

			got, err := repo.Get(ctx, "todo")
			require.NoError(t, err)
			assert.Equal(t, doc.Fields, got.Fields)

			require.NoError(t, repo.Save(ctx, core.Document{ID: "keywords"}))
			list, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "keywords", list[0].ID)

			require.NoError(t, repo.Delete(ctx, "todo"))
			assert.ErrorIs(t, repo.Delete(ctx, "todo"), core.ErrNotFound)
		})
	}
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crosstalk.db")

	first := sqlite.NewRepository(sqlite.Config{Path: path})
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.Save(ctx, core.Document{ID: "keywords", Fields: core.Fields{"Billing": "x"}}))
	require.NoError(t, first.Close())

	ro := open(t, sqlite.Config{Path: path, ReadOnly: true})
	got, err := ro.Get(ctx, "keywords")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Fields["Billing"])
	assert.ErrorIs(t, ro.Save(ctx, core.Document{ID: "keywords"}), core.ErrReadOnly)

	st := ro.State().(sqlite.RepositoryState)
	assert.True(t, st.Open)
	assert.True(t, st.ReadOnly)
}

func TestUninitialized(t *testing.T) {
	repo := sqlite.NewRepository(sqlite.Config{Path: sqlite.MemoryPath})
	_, err := repo.Get(context.Background(), "todo")
	assert.Error(t, err)

	missing := sqlite.NewRepository(sqlite.Config{Path: filepath.Join(t.TempDir(), "none.db"), ReadOnly: true})
	assert.Error(t, missing.Initialize(context.Background()))
}
