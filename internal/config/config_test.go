// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/agency-reporting/progreport/internal/objectstore"
)

type configSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&configSuite{})

const secret = "0123456789abcdef-secret"

func (s *configSuite) writeConfig(c *gc.C, content string) string {
	path := filepath.Join(c.MkDir(), "progreport.yaml")
	err := os.WriteFile(path, []byte(content), 0600)
	c.Assert(err, jc.ErrorIsNil)
	return path
}

func (s *configSuite) TestDefaultsNeedSecret(c *gc.C) {
	cfg := Default()
	c.Check(cfg.Validate(), jc.ErrorIs, errors.NotValid)

	cfg.SessionSecret = secret
	c.Check(cfg.Validate(), jc.ErrorIsNil)
	c.Check(cfg.MaxUploadSize, gc.Equals, ByteSize(10*humanize.MiByte))
	c.Check(cfg.ObjectStore.Backend, gc.Equals, objectstore.FileBackend)
}

func (s *configSuite) TestParseOverridesDefaults(c *gc.C) {
	cfg := Default()
	err := Parse([]byte(`
listen-address: 127.0.0.1:9000
session-secret: `+secret+`
session-ttl: 30m
max-upload-size: 2MB
auto-close-periods: false
object-store:
  backend: s3
  bucket: reports
  region: ap-southeast-1
  path-style: true
`), &cfg)
	c.Assert(err, jc.ErrorIsNil)

	c.Check(cfg.ListenAddress, gc.Equals, "127.0.0.1:9000")
	c.Check(cfg.DatabasePath, gc.Equals, DefaultDatabasePath)
	c.Check(cfg.SessionTTL, gc.Equals, 30*time.Minute)
	c.Check(cfg.MaxUploadSize, gc.Equals, ByteSize(2*humanize.MByte))
	c.Check(cfg.AutoClosePeriods, jc.IsFalse)
	c.Check(cfg.PeriodCheckInterval, gc.Equals, DefaultPeriodCheckInterval)
	c.Check(cfg.ObjectStore, jc.DeepEquals, objectstore.Config{
		Backend:   objectstore.S3Backend,
		Path:      DefaultObjectStorePath,
		Bucket:    "reports",
		Region:    "ap-southeast-1",
		PathStyle: true,
	})
	c.Check(cfg.Validate(), jc.ErrorIsNil)
}

func (s *configSuite) TestParseEmpty(c *gc.C) {
	cfg := Default()
	err := Parse(nil, &cfg)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, Default())
}

func (s *configSuite) TestParseUnknownKey(c *gc.C) {
	cfg := Default()
	err := Parse([]byte("listen-adress: :80\n"), &cfg)
	c.Check(err, jc.ErrorIs, errors.NotValid)
}

func (s *configSuite) TestParseBadByteSize(c *gc.C) {
	cfg := Default()
	err := Parse([]byte("max-upload-size: lots\n"), &cfg)
	c.Check(err, gc.NotNil)
}

func (s *configSuite) TestApplyEnv(c *gc.C) {
	env := map[string]string{
		"PROGREPORT_SESSION_SECRET":        secret,
		"PROGREPORT_SESSION_TTL":           "1h",
		"PROGREPORT_MAX_UPLOAD_SIZE":       "512KiB",
		"PROGREPORT_AUTO_CLOSE_PERIODS":    "false",
		"PROGREPORT_OBJECT_STORE_BACKEND":  "s3",
		"PROGREPORT_OBJECT_STORE_BUCKET":   "bucket",
		"PROGREPORT_OBJECT_STORE_ENDPOINT": "http://localhost:9000",
	}
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	c.Assert(err, jc.ErrorIsNil)

	c.Check(cfg.SessionSecret, gc.Equals, secret)
	c.Check(cfg.SessionTTL, gc.Equals, time.Hour)
	c.Check(cfg.MaxUploadSize, gc.Equals, ByteSize(512*humanize.KiByte))
	c.Check(cfg.AutoClosePeriods, jc.IsFalse)
	c.Check(cfg.ObjectStore.Backend, gc.Equals, objectstore.S3Backend)
	c.Check(cfg.ObjectStore.Endpoint, gc.Equals, "http://localhost:9000")
	c.Check(cfg.Validate(), jc.ErrorIsNil)
}

func (s *configSuite) TestApplyEnvInvalid(c *gc.C) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "PROGREPORT_SESSION_TTL" {
			return "forever", true
		}
		return "", false
	})
	c.Check(err, jc.ErrorIs, errors.NotValid)
	c.Check(err, gc.ErrorMatches, "invalid PROGREPORT_SESSION_TTL: .*")
}

func (s *configSuite) TestLoad(c *gc.C) {
	s.PatchEnvironment("PROGREPORT_LISTEN_ADDRESS", ":7000")
	path := s.writeConfig(c, "session-secret: "+secret+"\nlisten-address: :6000\n")

	cfg, err := Load(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.ListenAddress, gc.Equals, ":7000")
	c.Check(cfg.SessionSecret, gc.Equals, secret)
}

func (s *configSuite) TestReadSkipsValidation(c *gc.C) {
	s.PatchEnvironment("PROGREPORT_DATABASE_PATH", "/var/lib/progreport/db")

	cfg, err := Read("")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.DatabasePath, gc.Equals, "/var/lib/progreport/db")
	c.Check(cfg.SessionSecret, gc.Equals, "")

	_, err = Load("")
	c.Check(err, gc.ErrorMatches, "empty session-secret not valid")
}

func (s *configSuite) TestLoadMissingFile(c *gc.C) {
	_, err := Load(filepath.Join(c.MkDir(), "missing.yaml"))
	c.Check(err, gc.ErrorMatches, `reading config .*`)
}

func (s *configSuite) TestValidate(c *gc.C) {
	valid := Default()
	valid.SessionSecret = secret

	tests := []struct {
		about  string
		mutate func(*Config)
		err    string
	}{{
		about:  "short secret",
		mutate: func(cfg *Config) { cfg.SessionSecret = "short" },
		err:    "session-secret shorter than 16 bytes not valid",
	}, {
		about:  "zero ttl",
		mutate: func(cfg *Config) { cfg.SessionTTL = 0 },
		err:    "session-ttl 0s not valid",
	}, {
		about:  "zero upload size",
		mutate: func(cfg *Config) { cfg.MaxUploadSize = 0 },
		err:    "max-upload-size 0 not valid",
	}, {
		about:  "zero interval",
		mutate: func(cfg *Config) { cfg.PeriodCheckInterval = 0 },
		err:    "period-check-interval 0s not valid",
	}, {
		about:  "unknown backend",
		mutate: func(cfg *Config) { cfg.ObjectStore.Backend = "ftp" },
		err:    `object-store: object store backend "ftp" not valid`,
	}}
	for i, test := range tests {
		c.Logf("test %d: %s", i, test.about)
		cfg := valid
		test.mutate(&cfg)
		c.Check(cfg.Validate(), gc.ErrorMatches, test.err)
	}

	valid.AutoClosePeriods = false
	valid.PeriodCheckInterval = 0
	c.Check(valid.Validate(), jc.ErrorIsNil)
}
