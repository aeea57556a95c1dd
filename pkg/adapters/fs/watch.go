package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/crosstalk/pkg/core"
)

const defaultDebounce = 50 * time.Millisecond

// Watch emits an event for each change to a document whose ID matches the
// glob pattern. The channel is closed once ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	delay := r.config.Debounce
	if delay <= 0 {
		delay = defaultDebounce
	}

	out := make(chan core.Event)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		deb := newDebouncer(delay)
		defer close(out)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		defer deb.stopAndWait()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("watcher events channel closed")
				}
				e, ok := r.translate(event, pattern)
				if !ok {
					continue
				}
				r.debug("event received", "type", e.Type, "id", e.ID)
				deb.add(e, func(e core.Event) {
					select {
					case out <- e:
						r.recordEvent()
					case <-ctx.Done():
					}
				})

			case wErr, ok := <-watcher.Errors:
				if !ok {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("watcher errors channel closed")
				}
				r.handleWatchError(wErr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.handleWatchError(fmt.Errorf("watch loop: %w", err))
	}))

	return out, nil
}

// translate maps a raw filesystem event onto a document event.
func (r *Repository) translate(event fsnotify.Event, pattern string) (core.Event, bool) {
	id, ok := r.idOf(filepath.Base(event.Name))
	if !ok {
		return core.Event{}, false
	}
	if match, _ := doublestar.Match(pattern, id); !match {
		return core.Event{}, false
	}

	var typ core.EventType
	switch {
	case event.Has(fsnotify.Create):
		typ = core.EventCreate
	case event.Has(fsnotify.Write):
		typ = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		typ = core.EventDelete
	default:
		return core.Event{}, false
	}
	return core.Event{Type: typ, ID: id, Timestamp: time.Now().Unix()}, true
}

func (r *Repository) handleWatchError(err error) {
	if r.config.Logger != nil {
		r.config.Logger.Error("watch error", "error", err)
	}
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}
