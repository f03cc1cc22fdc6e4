// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package objectstore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// FileStore keeps objects as files below a root directory.
type FileStore struct {
	root string
}

// NewFileStore returns a FileStore rooted at dir, creating the directory
// when needed.
func NewFileStore(dir string) (*FileStore, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, errors.Annotatef(err, "creating object store directory %q", root)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", errors.Trace(err)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put writes the object to a temporary file and renames it into place, so
// readers never see a partial object.
func (s *FileStore) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	target, err := s.path(key)
	if err != nil {
		return errors.Trace(err)
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Trace(err)
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return errors.Annotatef(err, "writing object %q", key)
	}
	if written != size {
		return errors.Errorf("writing object %q: expected %d bytes, got %d", key, size, written)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Trace(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.Rename(tmp.Name(), target))
}

// Get opens the object stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, errors.Trace(err)
	}
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, errors.Annotatef(NotFound, "%q", key)
	}
	return f, errors.Trace(err)
}

// Remove deletes the object stored under key.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return errors.Trace(err)
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return errors.Annotatef(NotFound, "%q", key)
	}
	return errors.Trace(err)
}
