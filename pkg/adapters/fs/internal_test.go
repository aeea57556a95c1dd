package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/crosstalk/pkg/core"
)

func TestWriteAtomic(t *testing.T) {
	t.Run("Overwrites And Leaves No Scratch Files", func(t *testing.T) {
		dir := t.TempDir()
		r := NewRepository(Config{Path: dir, TempPrefix: "scratch-"})
		if err := os.WriteFile(filepath.Join(dir, "todo.json"), []byte("initial"), 0600); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if err := r.writeAtomic("todo.json", []byte("overwritten")); err != nil {
			t.Fatalf("writeAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filepath.Join(dir, "todo.json"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "overwritten" {
			t.Errorf("expected 'overwritten', got %q", got)
		}
		info, _ := os.Stat(filepath.Join(dir, "todo.json"))
		if info.Mode().Perm() != 0644 {
			t.Errorf("expected mode 0644, got %v", info.Mode().Perm())
		}

		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), "scratch-") {
				t.Errorf("scratch file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Fails if Vault Missing", func(t *testing.T) {
		r := NewRepository(Config{Path: filepath.Join(t.TempDir(), "missing")})
		if err := r.writeAtomic("todo.json", []byte("fail")); err == nil {
			t.Error("expected error when the vault is missing")
		}
	})
}

func TestSweepTemp(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, TempFilePrefix+"old")
	fresh := filepath.Join(dir, TempFilePrefix+"fresh")
	doc := filepath.Join(dir, "todo.json")
	for _, p := range []string{old, fresh, doc} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(doc, past, past); err != nil {
		t.Fatal(err)
	}

	kept := NewRepository(Config{Path: dir, StaleTempAge: -1})
	if n, err := kept.sweepTemp(time.Now()); err != nil || n != 0 {
		t.Fatalf("disabled sweep removed %d files (err %v)", n, err)
	}

	r := NewRepository(Config{Path: dir})
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("stale scratch file should be removed")
	}
	for _, p := range []string{fresh, doc} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should survive: %v", filepath.Base(p), err)
		}
	}
}

func TestCache(t *testing.T) {
	c := newCache()
	stamp := time.Now()

	c.Set("todo.json", core.Fields{"a": 1}, stamp, 10)
	if _, ok := c.Get("todo.json", stamp, 10); !ok {
		t.Fatal("expected hit")
	}
	if _, ok := c.Get("todo.json", stamp.Add(time.Second), 10); ok {
		t.Error("newer mtime must miss")
	}
	if _, ok := c.Get("todo.json", stamp, 11); ok {
		t.Error("different size must miss")
	}

	c.Set("keywords.json", core.Fields{}, stamp, 2)
	c.Prune(map[string]bool{"keywords.json": true})
	if c.Len() != 1 {
		t.Errorf("expected 1 entry after prune, got %d", c.Len())
	}
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	var fired []core.Event
	record := func(e core.Event) {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, e)
	}

	d.add(core.Event{Type: core.EventCreate, ID: "todo"}, record)
	d.add(core.Event{Type: core.EventModify, ID: "todo"}, record)
	d.add(core.Event{Type: core.EventModify, ID: "keywords"}, record)

	time.Sleep(100 * time.Millisecond)
	d.stopAndWait()

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 2 {
		t.Fatalf("expected 2 coalesced events, got %d: %v", len(fired), fired)
	}
	for _, e := range fired {
		if e.ID == "todo" && e.Type != core.EventCreate {
			t.Errorf("create followed by modify should stay a create, got %s", e.Type)
		}
	}

	d.add(core.Event{Type: core.EventModify, ID: "late"}, record)
	time.Sleep(40 * time.Millisecond)
	if len(fired) != 2 {
		t.Error("stopped debouncer must drop events")
	}
}
