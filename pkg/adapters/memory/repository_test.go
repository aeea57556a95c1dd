package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crosstalk/pkg/adapters/memory"
	"github.com/aretw0/crosstalk/pkg/core"
)

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()

	_, err := repo.Get(ctx, "todo")
	assert.ErrorIs(t, err, core.ErrNotFound)

	fields := core.Fields{"nested": map[string]any{"a": []any{"x"}}}
	require.NoError(t, repo.Save(ctx, core.Document{ID: "todo", Fields: fields}))

	fields["nested"].(map[string]any)["a"] = "mutated"
	got, err := repo.Get(ctx, "todo")
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, got.Fields["nested"].(map[string]any)["a"], "stored copy is isolated")

	require.NoError(t, repo.Save(ctx, core.Document{ID: "keywords", Fields: core.Fields{}}))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "keywords", list[0].ID)

	require.NoError(t, repo.Delete(ctx, "todo"))
	assert.ErrorIs(t, repo.Delete(ctx, "todo"), core.ErrNotFound)
}

func TestReadOnly(t *testing.T) {
	repo := memory.NewReadOnly(core.Document{ID: "corpus", Fields: core.Fields{"dialogs": []any{}}})
	ctx := context.Background()

	_, err := repo.Get(ctx, "corpus")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, core.Document{ID: "x"}), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Delete(ctx, "corpus"), core.ErrReadOnly)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := memory.NewRepository()

	events, err := repo.Watch(ctx, "k*")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, core.Document{ID: "todo"}))
	require.NoError(t, repo.Save(ctx, core.Document{ID: "keywords"}))
	require.NoError(t, repo.Save(ctx, core.Document{ID: "keywords"}))

	select {
	case e := <-events:
		assert.Equal(t, core.Event{Type: core.EventCreate, ID: "keywords", Timestamp: e.Timestamp}, e)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
	e := <-events
	assert.Equal(t, core.EventModify, e.Type)

	cancel()
	select {
	case _, open := <-events:
		assert.False(t, open, "channel closes with the context")
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	_, err = repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}
