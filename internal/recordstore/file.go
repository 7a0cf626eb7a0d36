package recordstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one pretty-printed JSON file per collection under a
// data directory, byte-compatible with the original data files.
type FileStore struct {
	dir string
}

// NewFileStore constructs a FileStore rooted at dir, creating the
// directory if missing.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the collection file. A missing file loads as an empty array.
func (s *FileStore) Load(_ context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return emptyCollection, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return emptyCollection, nil
	}
	return data, nil
}

// Save writes the collection file via a temp file and rename, so a crash
// mid-write never leaves a truncated collection behind.
func (s *FileStore) Save(_ context.Context, collection string, data []byte) error {
	path := s.path(collection)
	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}

// Dir returns the configured data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}
