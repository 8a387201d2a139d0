// Package kvstore is the opaque key-value persistence used by the storefront.
// Values are JSON documents; the store never looks inside them.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	// Get returns ErrNotFound when the key has never been written, was deleted
	// or has expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes without expiry.
	Set(ctx context.Context, key string, value []byte) error
	// SetTTL writes a value that reads as missing once ttl has passed. A
	// non-positive ttl deletes the key.
	SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
