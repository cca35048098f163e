package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Shared behavior
// ============================================

func kvStores(t *testing.T) map[string]KVStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return map[string]KVStore{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestKVStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "user")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "user", `{"id":1}`))
			v, ok, err := s.Get(ctx, "user")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"id":1}`, v)

			require.NoError(t, s.Set(ctx, "user", `{"id":2}`))
			v, _, _ = s.Get(ctx, "user")
			assert.Equal(t, `{"id":2}`, v)

			require.NoError(t, s.Delete(ctx, "user"))
			_, ok, err = s.Get(ctx, "user")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting a missing key is not an error
			assert.NoError(t, s.Delete(ctx, "user"))
			assert.NoError(t, s.Close())
		})
	}
}

func TestKVStore_EmptyKey(t *testing.T) {
	for name, s := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Set(context.Background(), "", "v")
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestKVStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
			_, _, err := s.Get(ctx, "k")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

// ============================================
// FileStore
// ============================================

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "authToken", "abc"))
	require.NoError(t, s.Set(ctx, "user", `{"id":7}`))
	require.NoError(t, s.Delete(ctx, "user"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok, _ = reopened.Get(ctx, "user")
	assert.False(t, ok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok, err := s.Get(context.Background(), "user")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	assert.Error(t, err)
	assert.Nil(t, s)
}

// ============================================
// Factory
// ============================================

func TestNew_Kinds(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, Options{Kind: "file", Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"unknown kind", Options{Kind: "etcd"}, ErrUnknownKind},
		{"postgres without dsn", Options{Kind: "postgres"}, ErrDSNRequired},
		{"redis without dsn", Options{Kind: "redis"}, ErrDSNRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(ctx, tt.opts)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, s)
		})
	}

	_, err := New(ctx, Options{Kind: "file"})
	assert.Error(t, err)
}
