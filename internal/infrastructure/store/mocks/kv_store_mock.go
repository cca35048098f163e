package mocks

import (
	"context"
	"sync"

	"github.com/example/ec-storefront/internal/infrastructure/store"
)

// MockKVStore is an in-memory KVStore that records writes and can be told to fail.
type MockKVStore struct {
	mu   sync.RWMutex
	data map[string]string

	// For tracking calls in tests
	SetCalls    []SetCall
	DeleteCalls []string

	GetErr    error
	SetErr    error
	DeleteErr error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value string
}

var _ store.KVStore = (*MockKVStore)(nil)

// NewMockKVStore creates a MockKVStore pre-filled with seed.
func NewMockKVStore(seed map[string]string) *MockKVStore {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &MockKVStore{data: data}
}

func (m *MockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MockKVStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value})
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	return nil
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.data, key)
	return nil
}

func (m *MockKVStore) Close() error { return nil }

// Has reports whether key is currently stored.
func (m *MockKVStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// Value returns the stored value for key.
func (m *MockKVStore) Value(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key]
}
