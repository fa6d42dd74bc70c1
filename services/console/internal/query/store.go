package query

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Entry is one cached query result. Data holds the JSON encoding of the
// value so that every store, local or shared, keeps the same bytes.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store keys are "<scope>/<query key>". Scopes never contain the separator.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	// DeletePrefix removes the query key prefix and every key below it in
	// every scope, returning the count.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

const scopeSep = "/"

func scopedKey(scope, key string) string { return scope + scopeSep + key }

// unscoped strips the scope from a store key.
func unscoped(storeKey string) string {
	if i := strings.Index(storeKey, scopeSep); i >= 0 {
		return storeKey[i+len(scopeSep):]
	}
	return storeKey
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore is the per-process default. Expired entries are dropped when
// they are next read.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[key]
	if !ok {
		return Entry{}, false, nil
	}
	if !item.expiresAt.IsZero() && !s.now().Before(item.expiresAt) {
		delete(s.items, key)
		return Entry{}, false, nil
	}
	return item.entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry, ttl time.Duration) error {
	item := memoryItem{entry: e}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.items {
		if matchesPrefix(unscoped(key), prefix) {
			delete(s.items, key)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
