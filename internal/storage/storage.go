// Package storage persists raw file content under opaque generated names.
// Metadata records are the only mapping from a file id to its stored name.
package storage

import (
	"context"

	"github.com/Laisky/errors/v2"
)

// ErrNotExist is returned when the named object has no stored content.
var ErrNotExist = errors.New("content not exist")

// Backend stores and retrieves content blobs by opaque name.
//
// Store must be durable before it returns; callers rely on content being
// readable as soon as the metadata record referencing it is committed.
type Backend interface {
	Store(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) ([]byte, error)
}
