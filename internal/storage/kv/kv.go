package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Entry is a key together with its stored value.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the key-value contract every repository is built on.
// ListByPrefix drains all pages/cursors internally and returns the full
// result set; order is unspecified.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	ListByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}

// Scoper hands out per-user views of a store. Keys written through a
// user-scoped store are invisible to other users and to the deployment
// store.
type Scoper interface {
	ForUser(uid string) Store
}
