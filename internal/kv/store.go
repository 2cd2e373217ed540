package kv

import (
	"context"
	"errors"
)

// ErrNotFound signals that a key has never been written or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is a durable blob store keyed by string.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
