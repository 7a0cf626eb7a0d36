package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores objects as plain files under a directory, the way
// the service originally kept its uploads folder.
type LocalStorage struct {
	dir string
}

// NewLocalStorage constructs a local-disk backend rooted at dir.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads directory is required")
	}
	return &LocalStorage{dir: dir}, nil
}

// EnsureBucket creates the uploads directory if missing.
func (l *LocalStorage) EnsureBucket(_ context.Context) error {
	return os.MkdirAll(l.dir, 0o755)
}

// Put writes an object file. Keys are flattened to their base name so a
// crafted key cannot escape the uploads directory.
func (l *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	f, err := os.Create(l.path(key))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Get opens an object file.
func (l *LocalStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(l.path(key))
}

// Delete removes an object file.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	return os.Remove(l.path(key))
}

// Bucket returns the uploads directory.
func (l *LocalStorage) Bucket() string {
	return l.dir
}

func (l *LocalStorage) path(key string) string {
	return filepath.Join(l.dir, filepath.Base(key))
}
