// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package objectstore stores attachment content outside of the database.
// Objects are addressed by slash separated keys such as
// "attachments/<uuid>".
package objectstore

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/juju/errors"
)

const (
	// NotFound is returned when the requested object does not exist.
	NotFound = errors.ConstError("object not found")
)

// Backend names an object store implementation.
type Backend string

const (
	// FileBackend stores objects below a local directory.
	FileBackend Backend = "file"
	// S3Backend stores objects in an S3 compatible bucket.
	S3Backend Backend = "s3"
)

// ObjectStore puts, gets and removes objects by key.
type ObjectStore interface {
	// Put stores size bytes read from r under key, replacing any object
	// already stored there.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Get returns a reader for the object stored under key. The caller
	// must close it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the object stored under key.
	Remove(ctx context.Context, key string) error
}

// ValidateKey checks that a key is a clean relative path that cannot
// escape the store.
func ValidateKey(key string) error {
	if key == "" {
		return errors.NotValidf("empty object key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return errors.NotValidf("object key %q", key)
	}
	if path.Clean(key) != key {
		return errors.NotValidf("object key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return errors.NotValidf("object key %q", key)
		}
	}
	return nil
}

// Config selects and configures an object store backend.
type Config struct {
	Backend Backend `yaml:"backend"`

	// Path is the root directory of the file backend.
	Path string `yaml:"path,omitempty"`

	// The remaining fields configure the s3 backend.
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access-key,omitempty"`
	SecretKey string `yaml:"secret-key,omitempty"`
	PathStyle bool   `yaml:"path-style,omitempty"`
}

// Validate checks the configuration of the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case FileBackend:
		if c.Path == "" {
			return errors.NotValidf("file object store without path")
		}
	case S3Backend:
		if c.Bucket == "" {
			return errors.NotValidf("s3 object store without bucket")
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			return errors.NotValidf("s3 object store with partial credentials")
		}
	default:
		return errors.NotValidf("object store backend %q", c.Backend)
	}
	return nil
}

// New returns the object store selected by the configuration.
func New(ctx context.Context, cfg Config) (ObjectStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	switch cfg.Backend {
	case S3Backend:
		return NewS3Store(ctx, cfg)
	default:
		return NewFileStore(cfg.Path)
	}
}
