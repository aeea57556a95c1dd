// Package lifecycle turns repository change events into reload requests
// published as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"
	"strings"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/crosstalk/pkg/core"
)

// Change asks the consumer to reload the listed documents. Events that were
// already queued when the first one arrived are folded into the same Change.
type Change struct {
	IDs     []string
	Deleted bool
}

func (c Change) String() string {
	verb := "changed"
	if c.Deleted {
		verb = "changed or deleted"
	}
	return strings.Join(c.IDs, ",") + " " + verb
}

// Option configures the source.
type Option func(*reloadSource)

// WithIDs forwards only events for the given document IDs.
func WithIDs(ids ...string) Option {
	return func(s *reloadSource) {
		s.ids = append(s.ids, ids...)
	}
}

type reloadSource struct {
	events <-chan core.Event
	ids    []string
	out    chan lifecycle.Event
}

// NewSource reads events until they close and publishes a Change per burst.
func NewSource(events <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &reloadSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reloadSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start publishes until ctx is done or the input closes, then closes Events.
func (s *reloadSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var c Change
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				s.fold(&c, e)
			}
			open := s.drain(&c)
			if len(c.IDs) > 0 {
				select {
				case s.out <- c:
				case <-ctx.Done():
					return nil
				}
			}
			if !open {
				return nil
			}
		}
	})
	return nil
}

// drain folds every event already waiting. It reports false once the input is closed.
func (s *reloadSource) drain(c *Change) bool {
	for {
		select {
		case e, ok := <-s.events:
			if !ok {
				return false
			}
			s.fold(c, e)
		default:
			return true
		}
	}
}

func (s *reloadSource) fold(c *Change, e core.Event) {
	if len(s.ids) > 0 && !slices.Contains(s.ids, e.ID) {
		return
	}
	if !slices.Contains(c.IDs, e.ID) {
		c.IDs = append(c.IDs, e.ID)
	}
	if e.Type == core.EventDelete {
		c.Deleted = true
	}
}
