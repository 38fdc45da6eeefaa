package store

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "github.com/allisson/reportgate/internal/errors"
)

type memoryEntry struct {
	value     []byte
	expiresAt *time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return e.expiresAt != nil && !e.expiresAt.After(now)
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an in-memory KVStore. Intended for local development
// and tests; entries are lost on restart and expiry is enforced lazily on
// access.
func NewMemoryStore() KVStore {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (m *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.expired(time.Now()) {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "entry not found")
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

func (m *memoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: cloneValue(value), expiresAt: expiresAt(time.Now(), ttl)}
	return nil
}

func (m *memoryStore) PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if entry, ok := m.entries[key]; ok && !entry.expired(now) {
		return apperrors.Wrap(apperrors.ErrConflict, "entry already exists")
	}

	m.entries[key] = memoryEntry{value: cloneValue(value), expiresAt: expiresAt(now, ttl)}
	return nil
}

func (m *memoryStore) CompareAndSwap(ctx context.Context, key string, old, new []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, ok := m.entries[key]
	if !ok || entry.expired(now) || string(entry.value) != string(old) {
		return apperrors.Wrap(apperrors.ErrConflict, "entry changed concurrently")
	}

	m.entries[key] = memoryEntry{value: cloneValue(new), expiresAt: expiresAt(now, ttl)}
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *memoryStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memoryStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var result []Entry
	for key, entry := range m.entries {
		if !strings.HasPrefix(key, prefix) || entry.expired(now) {
			continue
		}
		result = append(result, Entry{Key: key, Value: cloneValue(entry.value), ExpiresAt: entry.expiresAt})
	}
	return result, nil
}

func (m *memoryStore) CountExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var count int64
	for _, entry := range m.entries {
		if entry.expired(now) {
			count++
		}
	}
	return count, nil
}

func (m *memoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var deleted int64
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func cloneValue(value []byte) []byte {
	cloned := make([]byte, len(value))
	copy(cloned, value)
	return cloned
}
