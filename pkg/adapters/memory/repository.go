// Package memory provides an in-process core.Repository.
// It backs tests and the "memory" adapter of the CLI.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/crosstalk/pkg/core"
)

const watchBuffer = 64

type subscriber struct {
	pattern string
	ch      chan core.Event
}

// Repository keeps documents in a map. It is safe for concurrent use.
type Repository struct {
	mu       sync.RWMutex
	docs     map[string]core.Fields
	readOnly bool
	subs     []*subscriber
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{docs: make(map[string]core.Fields)}
}

// NewReadOnly returns a repository preloaded with docs that rejects writes.
func NewReadOnly(docs ...core.Document) *Repository {
	r := NewRepository()
	for _, d := range docs {
		r.docs[d.ID] = cloneFields(d.Fields)
	}
	r.readOnly = true
	return r
}

func (r *Repository) Initialize(ctx context.Context) error { return nil }

func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return core.ErrReadOnly
	}
	typ := core.EventModify
	if _, ok := r.docs[doc.ID]; !ok {
		typ = core.EventCreate
	}
	r.docs[doc.ID] = cloneFields(doc.Fields)
	r.notify(core.Event{Type: typ, ID: doc.ID, Timestamp: time.Now().Unix()})
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fields, ok := r.docs[id]
	if !ok {
		return core.Document{}, core.ErrNotFound
	}
	return core.Document{ID: id, Fields: cloneFields(fields)}, nil
}

// List returns documents ordered by ID.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Document, 0, len(r.docs))
	for id, fields := range r.docs {
		out = append(out, core.Document{ID: id, Fields: cloneFields(fields)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return core.ErrReadOnly
	}
	if _, ok := r.docs[id]; !ok {
		return core.ErrNotFound
	}
	delete(r.docs, id)
	r.notify(core.Event{Type: core.EventDelete, ID: id, Timestamp: time.Now().Unix()})
	return nil
}

// Watch emits events for documents whose ID matches the glob pattern.
// Events are dropped when the consumer falls more than a buffer behind.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	sub := &subscriber{pattern: pattern, ch: make(chan core.Event, watchBuffer)}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s == sub {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				break
			}
		}
		close(sub.ch)
	}()
	return sub.ch, nil
}

// notify must be called with mu held.
func (r *Repository) notify(e core.Event) {
	for _, s := range r.subs {
		if ok, _ := doublestar.Match(s.pattern, e.ID); !ok {
			continue
		}
		select {
		case s.ch <- e:
		default:
		}
	}
}

func cloneFields(f core.Fields) core.Fields {
	if f == nil {
		return core.Fields{}
	}
	out := make(core.Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case core.Fields:
		return cloneFields(t)
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
