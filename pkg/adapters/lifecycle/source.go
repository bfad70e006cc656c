// Package lifecycle exposes data directory changes as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/fittrack/pkg/core"
)

type changeSource struct {
	changes <-chan core.Event
	out     chan lifecycle.Event
}

// NewSource wraps the channel returned by Service.Watch. Events are
// forwarded until the channel closes or the context passed to Start ends;
// then Events is closed.
func NewSource(changes <-chan core.Event) lifecycle.Source {
	return &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-s.changes:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event through String.
				select {
				case s.out <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
