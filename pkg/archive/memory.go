package archive

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// Memory is an in-process archive. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory returns an empty in-memory archive.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

// Save implements Archive.
func (m *Memory) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepare(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = *rec
	return nil
}

// Get implements Archive.
func (m *Memory) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// List implements Archive.
func (m *Memory) List(ctx context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out[:min(len(out), listLimit(limit))], nil
}

// Close does nothing for the memory archive.
func (m *Memory) Close() error { return nil }

var _ Archive = (*Memory)(nil)
