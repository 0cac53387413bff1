package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository stores each document as <dir>/<key>.json. Writes go to a
// temp file in the same directory and are renamed over the target.
type FileRepository struct {
	dir string
	mu  sync.Mutex
}

// NewFileRepository creates the directory if needed
func NewFileRepository(dir string) (*FileRepository, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileRepository{dir: dir}, nil
}

// Path returns the file backing key
func (r *FileRepository) Path(key string) string {
	return filepath.Join(r.dir, key+".json")
}

// Get reads the document stored under key
func (r *FileRepository) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(r.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put atomically replaces the document stored under key
func (r *FileRepository) Put(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return atomicWriteFile(r.Path(key), data)
}

func atomicWriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
