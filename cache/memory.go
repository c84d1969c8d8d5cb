package cache

import (
	"context"
	"sync"
)

// Memory is an in-process Cache bounded by entry count. When full, the
// oldest inserted entry is evicted first.
type Memory struct {
	mu      sync.Mutex
	max     int
	entries map[string][]byte
	order   []string
}

// NewMemory returns a Memory holding at most max entries; max <= 0 means
// unbounded.
func NewMemory(max int) *Memory {
	return &Memory{max: max, entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = value
	for m.max > 0 && len(m.order) > m.max {
		delete(m.entries, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
