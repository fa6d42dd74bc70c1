package query

import (
	"context"
	"sync"
)

// Mutation runs a write action once and, when it succeeds, invalidates the
// keys it affects. Writes are never retried.
type Mutation[In, Out any] struct {
	client      *Client
	fn          func(context.Context, In) (Out, error)
	invalidates func(In, Out) []Key

	mu    sync.Mutex
	state State
}

func NewMutation[In, Out any](c *Client, fn func(context.Context, In) (Out, error), invalidates func(In, Out) []Key) *Mutation[In, Out] {
	return &Mutation[In, Out]{client: c, fn: fn, invalidates: invalidates, state: State{Status: StatusPending}}
}

func (m *Mutation[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	out, err := m.fn(ctx, in)
	if err != nil {
		m.set(State{Status: StatusError, Err: err, UpdatedAt: m.client.now()})
		return out, err
	}
	m.set(State{Status: StatusSuccess, UpdatedAt: m.client.now()})

	if m.invalidates != nil {
		if keys := m.invalidates(in, out); len(keys) > 0 {
			// The write already happened; a failed broadcast only leaves other
			// processes serving stale data until their stale time runs out.
			if err := m.client.Invalidate(ctx, keys...); err != nil {
				m.client.logger.Warn("invalidate after mutation failed", "err", err)
			}
		}
	}
	return out, nil
}

func (m *Mutation[In, Out]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mutation[In, Out]) set(st State) {
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
}
