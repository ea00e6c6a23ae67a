package storage

import (
	"context"
	"slices"
	"sync"
)

type memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns a process-local backend; nothing survives a restart.
func NewMemory() Blobs {
	return &memory{blobs: map[string][]byte{}}
}

func (m *memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = slices.Clone(value)
	return nil
}

func (m *memory) Close() error {
	return nil
}
