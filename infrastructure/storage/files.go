package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// VideoStore persists uploaded video files on local disk. Stored names are
// uuids, which avoids path traversal, collisions, and leaking the original
// filename.
type VideoStore struct {
	dir string
}

// NewVideoStore creates the storage directory if needed.
func NewVideoStore(dir string) (*VideoStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create video directory: %w", err)
	}
	return &VideoStore{dir: dir}, nil
}

// Save writes the uploaded stream to disk and returns the stored path.
func (s *VideoStore) Save(r io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create video file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write video file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored video file. A missing file is not an error.
func (s *VideoStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove video file: %w", err)
	}
	return nil
}
