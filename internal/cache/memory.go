package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is the least time between two sweeps of expired entries.
const sweepInterval = time.Minute

type memoryEntry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCache is an in-process Cache used when no Redis address is configured.
// Expired entries are dropped when read and swept on writes.
type MemoryCache struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if now := m.now(); entry.expired(now) {
		m.mu.Lock()
		// A Set may have replaced the entry since the read lock was released.
		if current, ok := m.entries[key]; ok && current.expired(now) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := m.now()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}
	m.mu.Lock()
	if !now.Before(m.nextSweep) {
		for k, e := range m.entries {
			if e.expired(now) {
				delete(m.entries, k)
			}
		}
		m.nextSweep = now.Add(sweepInterval)
	}
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
