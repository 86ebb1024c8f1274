package storage

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value  string
	expiry time.Time
}

// MemoryStore keeps cookies in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(opts Options) *MemoryStore {
	opts = normalizeOptions(opts)
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     opts.CookieTTL,
		now:     time.Now,
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Get(name string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[name]
	m.mu.RUnlock()
	if !ok || !e.expiry.After(m.now()) {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(name, value string) error {
	m.mu.Lock()
	m.entries[name] = memoryEntry{value: value, expiry: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	delete(m.entries, name)
	m.mu.Unlock()
	return nil
}
