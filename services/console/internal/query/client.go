// Package query caches action results under keys, refetches them once they
// go stale, retries transient failures a fixed number of times and tracks a
// pending/error/success status per key.
package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/apierror"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

type Options struct {
	// StaleTime is how long a cached result is served without refetching.
	StaleTime time.Duration
	// CacheTime is how long a result is kept at all.
	CacheTime time.Duration
	// Retry is the number of extra attempts after a failed fetch.
	Retry         int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	// Timeout bounds one shared fetch, retries included. It keeps running
	// when the caller that started it gives up, as others may be waiting.
	Timeout time.Duration

	localOnly bool
}

func DefaultOptions() Options {
	return Options{
		StaleTime:     5 * time.Minute,
		CacheTime:     30 * time.Minute,
		Retry:         3,
		RetryDelay:    time.Second,
		MaxRetryDelay: 30 * time.Second,
		Timeout:       2 * time.Minute,
	}
}

// Notifier carries invalidations to other processes.
type Notifier interface {
	Publish(ctx context.Context, keys []Key) error
}

type State struct {
	Status    Status
	Err       error
	UpdatedAt time.Time
}

const defaultScope = "default"

type Client struct {
	store    Store
	local    *MemoryStore
	opts     Options
	logger   *slog.Logger
	notifier Notifier
	now      func() time.Time
	scope    func() string

	group singleflight.Group

	// writeMu orders cache writes against invalidations.
	writeMu sync.Mutex

	mu     sync.Mutex
	states map[string]State
	subs   map[int]chan Key
	nextID int
	// gen counts invalidations; invalidated holds the gen at which each
	// prefix was last invalidated.
	gen         uint64
	invalidated map[string]uint64
	inflight    map[string]*flight
}

// flight is one running shared fetch.
type flight struct{ key string }

type ClientOption func(*Client)

func WithStore(s Store) ClientOption              { return func(c *Client) { c.store = s } }
func WithLogger(l *slog.Logger) ClientOption      { return func(c *Client) { c.logger = l } }
func WithNotifier(n Notifier) ClientOption        { return func(c *Client) { c.notifier = n } }
func WithClock(now func() time.Time) ClientOption { return func(c *Client) { c.now = now } }

// WithScope partitions cached results, typically by backend and token. The
// func is called on every lookup so a token change takes effect at once.
func WithScope(scope func() string) ClientOption { return func(c *Client) { c.scope = scope } }

func NewClient(opts Options, options ...ClientOption) *Client {
	def := DefaultOptions()
	if opts.StaleTime < 0 {
		opts.StaleTime = 0
	}
	if opts.CacheTime <= 0 {
		opts.CacheTime = def.CacheTime
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if opts.MaxRetryDelay <= 0 {
		opts.MaxRetryDelay = def.MaxRetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	c := &Client{
		opts:        opts,
		now:         time.Now,
		states:      make(map[string]State),
		subs:        make(map[int]chan Key),
		invalidated: make(map[string]uint64),
		inflight:    make(map[string]*flight),
	}
	for _, o := range options {
		o(c)
	}
	c.local = NewMemoryStore()
	c.local.now = c.now
	if c.store == nil {
		c.store = c.local
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func (c *Client) Options() Options { return c.opts }

// State returns the last known state of key. Keys never fetched are pending.
func (c *Client) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[key.String()]
	if !ok {
		return State{Status: StatusPending}
	}
	return st
}

func (c *Client) setState(key string, st State) {
	c.mu.Lock()
	c.states[key] = st
	c.mu.Unlock()
}

// Invalidate drops the cached results under keys and tells other processes
// to do the same.
func (c *Client) Invalidate(ctx context.Context, keys ...Key) error {
	if err := c.InvalidateLocal(ctx, keys...); err != nil {
		return err
	}
	if c.notifier == nil || len(keys) == 0 {
		return nil
	}
	if err := c.notifier.Publish(ctx, keys); err != nil {
		c.logger.Warn("publish invalidation failed", "err", err)
		return err
	}
	return nil
}

// InvalidateLocal drops the cached results under keys without broadcasting.
// Invalidations received from other processes are applied through here.
// Fetches already in flight for those keys are not written to the cache.
func (c *Client) InvalidateLocal(ctx context.Context, keys ...Key) error {
	var errs []error
	for _, key := range keys {
		prefix := key.String()
		c.markInvalidated(prefix)
		n, err := c.store.DeletePrefix(ctx, prefix)
		if c.store != Store(c.local) {
			m, lerr := c.local.DeletePrefix(ctx, prefix)
			n += m
			err = errors.Join(err, lerr)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.mu.Lock()
		for k := range c.states {
			if matchesPrefix(k, prefix) {
				delete(c.states, k)
			}
		}
		c.mu.Unlock()
		c.logger.Debug("query invalidated", "key", prefix, "entries", n)
		c.broadcast(key)
	}
	return errors.Join(errs...)
}

func (c *Client) markInvalidated(prefix string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated[prefix] = c.gen
	for flightKey, f := range c.inflight {
		if matchesPrefix(f.key, prefix) {
			c.group.Forget(flightKey)
			delete(c.inflight, flightKey)
		}
	}
}

func (c *Client) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Client) invalidatedSince(key string, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for prefix, at := range c.invalidated {
		if at > gen && matchesPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func (c *Client) track(flightKey, key string) *flight {
	f := &flight{key: key}
	c.mu.Lock()
	c.inflight[flightKey] = f
	c.mu.Unlock()
	return f
}

func (c *Client) untrack(flightKey string, f *flight) {
	c.mu.Lock()
	if c.inflight[flightKey] == f {
		delete(c.inflight, flightKey)
	}
	c.mu.Unlock()
}

// write stores a fetched entry unless key was invalidated after the fetch
// began at gen. It reports whether the entry was stored.
func (c *Client) write(ctx context.Context, store Store, key, storeKey string, e Entry, gen uint64, ttl time.Duration) bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.invalidatedSince(key, gen) {
		c.logger.Debug("dropping result fetched before invalidation", "key", key)
		return false
	}
	if err := store.Set(ctx, storeKey, e, ttl); err != nil {
		c.logger.Warn("query cache write failed", "key", key, "err", err)
		return false
	}
	return true
}

func (c *Client) storeFor(opts Options) Store {
	if opts.localOnly {
		return c.local
	}
	return c.store
}

func (c *Client) storeKey(key string) string {
	scope := defaultScope
	if c.scope != nil {
		if s := c.scope(); s != "" {
			scope = strings.ReplaceAll(s, scopeSep, "_")
		}
	}
	return scopedKey(scope, key)
}

// Subscribe reports invalidated keys. Slow readers miss events rather than
// blocking invalidation.
func (c *Client) Subscribe(buffer int) (<-chan Key, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Key, buffer)
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Client) broadcast(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- key:
		default:
		}
	}
}

// retryable reports whether another attempt could succeed. Bad input and
// client errors other than timeouts and throttling are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if _, ok := schema.AsValidation(err); ok {
		return false
	}
	if _, ok := apierror.As(err); ok {
		return apierror.Retryable(err)
	}
	return true
}
