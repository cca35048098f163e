package store

import (
	"context"
	"errors"
)

var (
	ErrEmptyKey    = errors.New("key is required")
	ErrUnknownKind = errors.New("unknown store kind")
	ErrDSNRequired = errors.New("dsn is required for this store kind")
)

// KVStore is the persistent key-value blob store that survives process
// restarts. Get reports a missing key as ok == false, never as an error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
