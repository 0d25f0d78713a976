package storage

import (
	"context"
	"errors"
	"io"
)

// ErrTooLarge is returned by Save when the content exceeds the store's size limit.
var ErrTooLarge = errors.New("file exceeds the maximum upload size")

// Store defines the interface for a file storage backend.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
