// Package file implements core.Store on the local filesystem, one JSON file
// per key. Writes go to a temp file that is renamed over the live file; the
// previous value is copied next to it with a ".backup" suffix first.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"turnero/internal/blobstore/core"
)

const (
	fileSuffix      = ".json"
	backupSuffix    = ".backup"
	filePermissions = 0o644
)

// Store implements core.Store using the local filesystem. Not safe for
// concurrent writers across processes.
type Store struct {
	root string
}

// New returns a filesystem-backed blob store rooted at root, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./data"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFile }

// Root returns the directory blobs are written to.
func (s *Store) Root() string { return s.root }

// sanitizeKey forbids path traversal, separators and absolute paths.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid key contains a path separator")
	}
	return key, nil
}

func (s *Store) pathFor(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, k+fileSuffix), nil
}

// Get reads the blob, falling back to the backup when the main file is
// missing.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = os.ReadFile(path + backupSuffix)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
		}
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put copies the current value to the backup and then renames a fully
// written temp file over the main path, so the main file always exists once
// it has been written.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := s.replace(path+backupSuffix, current); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read current: %w", err)
	}
	return s.replace(path, data)
}

// replace writes data to a temp file in the root and renames it onto path.
func (s *Store) replace(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), filePermissions); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) Close() error { return nil }
