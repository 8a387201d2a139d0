package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"rnimart-be/internal/kvstore"
)

// record is one JSON list persisted under a single key. Writers serialise on
// mu, persist the new value and only then swap the in-memory snapshot.
type record[T any] struct {
	key   string
	clone func(T) T

	mu    sync.RWMutex
	value []T
}

// newRecord builds a record; clone deep-copies one element and may be nil for
// values without nested slices.
func newRecord[T any](key string, clone func(T) T) *record[T] {
	return &record[T]{key: key, clone: clone}
}

// load reads the key; a missing key is replaced by seed and written back.
func (r *record[T]) load(ctx context.Context, kv kvstore.Store, seed func() []T) (seeded bool, err error) {
	raw, err := kv.Get(ctx, r.key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		return true, r.seed(ctx, kv, seed())
	case err != nil:
		return false, fmt.Errorf("failed to read %s: %w", r.key, err)
	}

	var value []T
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", r.key, err)
	}
	if value == nil {
		value = []T{}
	}

	r.mu.Lock()
	r.value = value
	r.mu.Unlock()
	return false, nil
}

func (r *record[T]) seed(ctx context.Context, kv kvstore.Store, value []T) error {
	if value == nil {
		value = []T{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.write(ctx, kv, value); err != nil {
		return err
	}
	r.value = value
	return nil
}

func (r *record[T]) get() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cloneSlice(r.value)
}

func (r *record[T]) cloneSlice(v []T) []T {
	out := slices.Clone(v)
	if r.clone != nil {
		for i := range out {
			out[i] = r.clone(out[i])
		}
	}
	return out
}

// update passes fn a copy of the current value. fn's error is returned as is.
func (r *record[T]) update(ctx context.Context, kv kvstore.Store, fn func([]T) ([]T, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := fn(r.cloneSlice(r.value))
	if err != nil {
		return err
	}
	if next == nil {
		next = []T{}
	}

	if err := r.write(ctx, kv, next); err != nil {
		return err
	}
	r.value = r.cloneSlice(next)
	return nil
}

func (r *record[T]) write(ctx context.Context, kv kvstore.Store, value []T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.key, err)
	}
	if err := kv.Set(ctx, r.key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.key, err)
	}
	return nil
}
