package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FileBackend persists the state blob as a JSON file on disk. Writes
// go through a temp file and rename so a crash mid-write cannot leave
// a truncated blob behind.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend persisting to the given path. The
// parent directory is created on first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the blob, returning nil when the file does not exist yet.
func (b *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", b.path, err)
	}
	return data, nil
}

// Save atomically replaces the blob on disk.
func (b *FileBackend) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := atomic.WriteFile(b.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", b.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (b *FileBackend) Close() error { return nil }
