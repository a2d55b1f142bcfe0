package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryTable keeps a collection in process memory. Callers get copies.
type MemoryTable[T any] struct {
	mu   sync.RWMutex
	rows []T
}

func NewMemoryTable[T any](rows ...T) *MemoryTable[T] {
	return &MemoryTable[T]{rows: slices.Clone(rows)}
}

func (m *MemoryTable[T]) LoadAll(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.rows), nil
}

func (m *MemoryTable[T]) SaveAll(_ context.Context, rows []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = slices.Clone(rows)
	return nil
}
