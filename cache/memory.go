package cache

import (
	"sync"
	"time"
)

// Memory implements the Store interface with an in-process map.
// A single Memory instance is shared by every resource store in the
// application so that one store's write-through is visible to all others.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	now func() time.Time // overridable for tests
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Read implements Reader.
func (m *Memory) Read(key string, maxAge time.Duration) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}

	if maxAge > 0 && m.now().Sub(entry.FetchedAt) > maxAge {
		return entry, false // return entry but mark as expired
	}

	return entry, true
}

// Valid implements Reader.
func (m *Memory) Valid(key string, maxAge time.Duration) bool {
	_, ok := m.Read(key, maxAge)
	return ok
}

// Write implements Writer.
func (m *Memory) Write(key string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = &Entry{Data: data, FetchedAt: m.now()}
}

// Clear implements Clearer.
func (m *Memory) Clear(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(keys) == 0 {
		m.entries = make(map[string]*Entry)
		return
	}
	for _, key := range keys {
		delete(m.entries, key)
	}
}

// Len returns the number of live entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
