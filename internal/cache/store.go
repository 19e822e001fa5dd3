// Package cache provides key/value stores used to memoise upstream lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrStore wraps read failures of the backing store, as opposed to failures of the loader.
	ErrStore = errors.New("cache store failure")
	// ErrStoreWrite wraps a failed write after a successful load. The loaded value is still returned.
	ErrStoreWrite = errors.New("cache store write failure")
)

// Store defines the memoisation contract. Entries never expire.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Memoize returns the value cached under key, or calls load and caches its result.
// Errors from load are returned as-is and never cached. A failed read wraps ErrStore and load is
// not called; a failed write wraps ErrStoreWrite and comes back alongside the loaded value.
func Memoize[T any](ctx context.Context, store Store, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("%w: get %s: %v", ErrStore, key, err)
	}
	if ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, true, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return zero, false, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return zero, false, fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, encoded); err != nil {
		return value, false, fmt.Errorf("%w: set %s: %v", ErrStoreWrite, key, err)
	}
	return value, false, nil
}
