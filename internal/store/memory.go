package store

import (
	"slices"
	"strings"
	"sync"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu   sync.RWMutex
	data map[string]Record
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]Record),
	}
}

// Get retrieves a formula by name.
func (m *Memory) Get(name string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.data[name]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Codes = slices.Clone(rec.Codes)
	return &rec, nil
}

// Put stores a formula by name.
func (m *Memory) Put(rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(rec)
	stored := *rec
	stored.Codes = slices.Clone(rec.Codes)
	m.data[rec.Name] = stored
	return nil
}

// List returns every stored formula ordered by name.
func (m *Memory) List() ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]*Record, 0, len(m.data))
	for _, rec := range m.data {
		rec.Codes = slices.Clone(rec.Codes)
		recs = append(recs, &rec)
	}
	slices.SortFunc(recs, func(a, b *Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return recs, nil
}

// Delete removes a formula by name.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[name]; !ok {
		return ErrNotFound
	}
	delete(m.data, name)
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
