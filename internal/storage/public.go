// Package storage persists generated audio under a publicly served directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PublicStore writes files into a local directory that the HTTP layer serves
// under /public.
type PublicStore struct {
	dir string
}

// NewPublicStore ensures the directory exists and returns a store over it.
func NewPublicStore(dir string) (*PublicStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create public dir: %w", err)
	}
	return &PublicStore{dir: dir}, nil
}

// Dir returns the backing directory path.
func (s *PublicStore) Dir() string { return s.dir }

// Save writes data under the given filename. Filenames are generated
// internally; anything resembling a path is rejected.
func (s *PublicStore) Save(filename string, data []byte) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid filename %q", filename)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// PurgeOlderThan removes files whose modification time is older than the
// given age and reports how many were deleted.
func (s *PublicStore) PurgeOlderThan(age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read public dir: %w", err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
