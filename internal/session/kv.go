package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// KV is a small string key-value store, the shape of the device storage the
// mobile app persists its login record in.
type KV interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// AferoKV stores each key as <dir>/<key>.json on an afero filesystem.
type AferoKV struct {
	fs  afero.Fs
	dir string
}

// NewAferoKV creates a store rooted at dir.
func NewAferoKV(fs afero.Fs, dir string) *AferoKV {
	return &AferoKV{fs: fs, dir: dir}
}

// Path returns the file backing key.
func (s *AferoKV) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// GetItem returns the stored value and whether the key exists.
func (s *AferoKV) GetItem(ctx context.Context, key string) (string, bool, error) {
	data, err := afero.ReadFile(s.fs, s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// SetItem writes value under key, creating the directory if needed.
func (s *AferoKV) SetItem(ctx context.Context, key, value string) error {
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.Path(key), []byte(value), 0o600)
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *AferoKV) RemoveItem(ctx context.Context, key string) error {
	err := s.fs.Remove(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
