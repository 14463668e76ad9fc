package store

import (
	"context"
	"sync"
)

// Memory is a volatile backend.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	// Fail, if not nil, is returned by every Put.
	Fail error
}

func NewMemory() *Memory { return &Memory{values: make(map[string]string)} }

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
