package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// AferoStore keeps uploaded files on an afero filesystem.
type AferoStore struct {
	fs       afero.Fs
	maxBytes int64
}

// NewAferoStore creates a store on fs. maxBytes <= 0 disables the size limit.
func NewAferoStore(fs afero.Fs, maxBytes int64) *AferoStore {
	return &AferoStore{fs: fs, maxBytes: maxBytes}
}

// NewDirStore creates a store rooted at dir on the OS filesystem.
func NewDirStore(dir string, maxBytes int64) *AferoStore {
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir), maxBytes)
}

// Save writes the content of the reader to the given path. A partially written
// file is removed when the content turns out to be too large.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, err
	}

	src := reader
	if s.maxBytes > 0 {
		src = io.LimitReader(reader, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	closeErr := f.Close()
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return 0, err
	}
	return n, nil
}

// Open opens a stored file for reading.
func (s *AferoStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Delete removes a stored file.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	return s.fs.Remove(path)
}

// PhotoPath returns a fresh, collision-free storage path for a user's photo.
// The user id is reduced to a single path segment.
func PhotoPath(userID, ext string) string {
	segment := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(userID)
	if segment == "" {
		segment = "anonymous"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join("photos", segment, fmt.Sprintf("%s%s", uuid.NewString(), ext))
}
