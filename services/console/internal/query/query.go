package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"
)

type Result[T any] struct {
	Data      T
	Err       error
	Status    Status
	UpdatedAt time.Time
	// FromCache is set when Data was not fetched by this call.
	FromCache bool
}

func (r Result[T]) OK() bool { return r.Status == StatusSuccess }

type QueryOption func(*Options)

func StaleTime(d time.Duration) QueryOption { return func(o *Options) { o.StaleTime = d } }
func Retry(n int) QueryOption               { return func(o *Options) { o.Retry = n } }

// LocalOnly keeps results in this process even when the client shares its
// cache with other processes.
func LocalOnly() QueryOption { return func(o *Options) { o.localOnly = true } }

// Query binds an action to a cache key.
type Query[T any] struct {
	client *Client
	key    Key
	fn     func(context.Context) (T, error)
	opts   Options
}

func New[T any](c *Client, key Key, fn func(context.Context) (T, error), options ...QueryOption) *Query[T] {
	opts := c.opts
	for _, o := range options {
		o(&opts)
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	return &Query[T]{client: c, key: key, fn: fn, opts: opts}
}

func (q *Query[T]) Key() Key { return q.key }

func (q *Query[T]) State() State { return q.client.State(q.key) }

// Fetch serves a fresh cached value without calling the action. Otherwise it
// fetches; if that fails while an older value is cached, the older value is
// returned together with the error.
func (q *Query[T]) Fetch(ctx context.Context) Result[T] {
	return q.run(ctx, false)
}

// Refetch ignores the staleness window.
func (q *Query[T]) Refetch(ctx context.Context) Result[T] {
	return q.run(ctx, true)
}

func (q *Query[T]) run(ctx context.Context, force bool) Result[T] {
	c := q.client
	key := q.key.String()
	store := c.storeFor(q.opts)
	storeKey := c.storeKey(key)

	cached, haveCached := q.cached(ctx, store, storeKey)
	if haveCached && !force && c.now().Sub(cached.UpdatedAt) < q.opts.StaleTime {
		c.setState(key, State{Status: StatusSuccess, UpdatedAt: cached.UpdatedAt})
		return cached
	}
	if !haveCached {
		c.setState(key, State{Status: StatusPending})
	}

	gen := c.generation()
	ch := c.group.DoChan(storeKey, func() (any, error) {
		f := c.track(storeKey, key)
		defer c.untrack(storeKey, f)
		if c.invalidatedSince(key, gen) {
			c.group.Forget(storeKey)
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.opts.Timeout)
		defer cancel()
		data, err := q.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		e := Entry{Data: raw, UpdatedAt: c.now()}
		c.write(fetchCtx, store, key, storeKey, e, gen, q.opts.CacheTime)
		return e, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		// The shared fetch carries on for whoever else is waiting.
		if haveCached {
			cached.Err = ctx.Err()
			cached.Status = StatusError
			return cached
		}
		return Result[T]{Err: ctx.Err(), Status: StatusError}
	}

	err := res.Err
	if err == nil {
		e := res.Val.(Entry)
		var data T
		if err = json.Unmarshal(e.Data, &data); err == nil {
			c.setState(key, State{Status: StatusSuccess, UpdatedAt: e.UpdatedAt})
			return Result[T]{Data: data, Status: StatusSuccess, UpdatedAt: e.UpdatedAt, FromCache: res.Shared}
		}
		err = fmt.Errorf("decode %s: %w", key, err)
	}

	c.setState(key, State{Status: StatusError, Err: err, UpdatedAt: cached.UpdatedAt})
	c.logger.Debug("query failed", "key", key, "cached", haveCached, "err", err)
	if haveCached {
		cached.Err = err
		cached.Status = StatusError
		return cached
	}
	return Result[T]{Err: err, Status: StatusError}
}

func (q *Query[T]) cached(ctx context.Context, store Store, storeKey string) (Result[T], bool) {
	e, ok, err := store.Get(ctx, storeKey)
	if err != nil {
		q.client.logger.Warn("query cache read failed", "key", q.key.String(), "err", err)
		return Result[T]{}, false
	}
	if !ok {
		return Result[T]{}, false
	}
	var data T
	if err := json.Unmarshal(e.Data, &data); err != nil {
		q.client.logger.Warn("query cache entry unreadable", "key", q.key.String(), "err", err)
		return Result[T]{}, false
	}
	return Result[T]{Data: data, Status: StatusSuccess, UpdatedAt: e.UpdatedAt, FromCache: true}, true
}

// fetch calls the action, retrying up to opts.Retry more times with an
// exponential delay. Non-retryable errors stop immediately.
func (q *Query[T]) fetch(ctx context.Context) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.opts.RetryDelay
	b.MaxInterval = q.opts.MaxRetryDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0

	attempt := 0
	op := func() (T, error) {
		attempt++
		v, err := q.fn(ctx)
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	v, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(q.opts.Retry+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			q.client.logger.Debug("retrying query", "key", q.key.String(), "attempt", attempt, "next_in", next, "err", err)
		}),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return v, err
}
