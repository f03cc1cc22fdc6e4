// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package objectstore

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

type objectStoreSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&objectStoreSuite{})

func (s *objectStoreSuite) TestValidateKey(c *gc.C) {
	for _, key := range []string{"attachments/abc", "a", "a/b/c.pdf"} {
		c.Check(ValidateKey(key), jc.ErrorIsNil, gc.Commentf("key %q", key))
	}
	for _, key := range []string{"", "/etc/passwd", "../x", "a/../../x", "a//b", "a/./b", `a\b`, "a/"} {
		c.Check(ValidateKey(key), jc.ErrorIs, errors.NotValid, gc.Commentf("key %q", key))
	}
}

func (s *objectStoreSuite) TestConfigValidate(c *gc.C) {
	c.Check(Config{Backend: FileBackend, Path: "/tmp/x"}.Validate(), jc.ErrorIsNil)
	c.Check(Config{Backend: S3Backend, Bucket: "b"}.Validate(), jc.ErrorIsNil)
	c.Check(Config{Backend: S3Backend, Bucket: "b", AccessKey: "a", SecretKey: "s"}.Validate(), jc.ErrorIsNil)

	c.Check(Config{Backend: FileBackend}.Validate(), jc.ErrorIs, errors.NotValid)
	c.Check(Config{Backend: S3Backend}.Validate(), jc.ErrorIs, errors.NotValid)
	c.Check(Config{Backend: S3Backend, Bucket: "b", AccessKey: "a"}.Validate(), jc.ErrorIs, errors.NotValid)
	c.Check(Config{Backend: "ftp"}.Validate(), jc.ErrorIs, errors.NotValid)
}

func (s *objectStoreSuite) TestNewFileBackend(c *gc.C) {
	store, err := New(context.Background(), Config{Backend: FileBackend, Path: c.MkDir()})
	c.Assert(err, jc.ErrorIsNil)
	_, ok := store.(*FileStore)
	c.Check(ok, jc.IsTrue)
}
