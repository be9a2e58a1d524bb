package storage

import (
	"context"
	"io"
)

// Store is the file storage boundary: bytes plus a pre-generated unique key
// in, resolvable reference out. Keys are generated by the caller (the file
// service) and are never reused, so Put never overwrites.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
