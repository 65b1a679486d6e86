package session

import (
	"context"
	"errors"
	"sync"
)

// Persisted keys. Both are written together on login and removed together on logout.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrNotFound is returned by Storage.Get for absent keys.
var ErrNotFound = errors.New("session: key not found")

// Storage is the durable key/value space that survives a browser reload.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	// Set writes all values atomically.
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryStorage keeps entries in process memory. It survives Store re-creation but not a
// process restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStorage returns an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *MemoryStorage) Set(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.entries[k] = v
	}
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Len reports the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// MemoryStorages hands out one MemoryStorage per browser id.
type MemoryStorages struct {
	mu       sync.Mutex
	browsers map[string]*MemoryStorage
}

// NewMemoryStorages builds an empty set.
func NewMemoryStorages() *MemoryStorages {
	return &MemoryStorages{browsers: make(map[string]*MemoryStorage)}
}

// For returns the storage of browserID, creating it on first use.
func (m *MemoryStorages) For(browserID string) Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.browsers[browserID]
	if !ok {
		s = NewMemoryStorage()
		m.browsers[browserID] = s
	}
	return s
}

// Release forgets the storage of browserID when it holds nothing. Storages with persisted
// credentials are kept so the browser can hydrate again.
func (m *MemoryStorages) Release(browserID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.browsers[browserID]; ok && s.Len() == 0 {
		delete(m.browsers, browserID)
	}
}

// Len reports the number of browsers with a storage.
func (m *MemoryStorages) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.browsers)
}
