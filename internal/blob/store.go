// Package blob reads stored upload files from the local filesystem.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store resolves stored blob paths against a base directory and reads them.
// Upload records carry relative paths; the base directory is the single
// location uploads are served from.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Read returns the contents of the blob at the given relative path.
// Paths that escape the base directory are rejected.
func (s *Store) Read(path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", path, err)
	}
	return data, nil
}

// resolve joins and cleans the path, refusing anything outside the base dir.
func (s *Store) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("blob path is empty")
	}

	full := filepath.Join(s.baseDir, filepath.Clean("/"+path))
	base := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(full, base+string(filepath.Separator)) && full != base {
		return "", fmt.Errorf("blob path %s escapes base directory", path)
	}
	return full, nil
}
