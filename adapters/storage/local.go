// Package storage provides the local-filesystem implementation of the file
// store port.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"goimpute/domain/core"
	"goimpute/internal/errors"
	"goimpute/ports"
)

// LocalStore keeps uploaded and processed files in a single directory,
// typically the OS temp dir.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the backing directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.StorageError("failed to create upload directory", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) path(name core.StoredName) string {
	return filepath.Join(s.dir, name.String())
}

// Save writes the reader's content under the stored name.
func (s *LocalStore) Save(ctx context.Context, name core.StoredName, r io.Reader) (int64, error) {
	f, err := os.Create(s.path(name))
	if err != nil {
		return 0, errors.StorageError("failed to create file", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(s.path(name))
		return 0, errors.StorageError("failed to write file", err)
	}
	return n, nil
}

// Open returns the file content for reading.
func (s *LocalStore) Open(ctx context.Context, name core.StoredName) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("file")
		}
		return nil, errors.StorageError("failed to open file", err)
	}
	return f, nil
}

// Size returns the file size in bytes.
func (s *LocalStore) Size(ctx context.Context, name core.StoredName) (int64, error) {
	info, err := os.Stat(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NotFound("file")
		}
		return 0, errors.StorageError("failed to stat file", err)
	}
	return info.Size(), nil
}

// Exists reports whether the file is present.
func (s *LocalStore) Exists(ctx context.Context, name core.StoredName) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// Remove deletes the file if present.
func (s *LocalStore) Remove(ctx context.Context, name core.StoredName) (bool, error) {
	err := os.Remove(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.StorageError("failed to remove file", err)
	}
	return true, nil
}

var _ ports.FileStorePort = (*LocalStore)(nil)
