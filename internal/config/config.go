// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config holds the progreportd daemon configuration. Values come
// from built-in defaults, then an optional YAML file, then PROGREPORT_*
// environment variables.
package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/agency-reporting/progreport/internal/auth"
	"github.com/agency-reporting/progreport/internal/objectstore"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROGREPORT_"

const (
	DefaultListenAddress       = ":8080"
	DefaultDatabasePath        = "progreport.db"
	DefaultSessionTTL          = 12 * time.Hour
	DefaultLoggingConfig       = "<root>=INFO"
	DefaultMaxUploadSize       = 10 * humanize.MiByte
	DefaultPeriodCheckInterval = time.Hour
	DefaultObjectStorePath     = "attachments"
)

// ByteSize is a size in bytes written in human form, such as "10MiB".
type ByteSize int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	n, err := humanize.ParseBytes(value.Value)
	if err != nil {
		return errors.NotValidf("byte size %q", value.Value)
	}
	*b = ByteSize(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b ByteSize) MarshalYAML() (any, error) {
	return humanize.IBytes(uint64(b)), nil
}

// Config is the progreportd configuration.
type Config struct {
	ListenAddress       string             `yaml:"listen-address"`
	DatabasePath        string             `yaml:"database-path"`
	SessionSecret       string             `yaml:"session-secret"`
	SessionTTL          time.Duration      `yaml:"session-ttl"`
	LoggingConfig       string             `yaml:"logging-config"`
	MaxUploadSize       ByteSize           `yaml:"max-upload-size"`
	AutoClosePeriods    bool               `yaml:"auto-close-periods"`
	PeriodCheckInterval time.Duration      `yaml:"period-check-interval"`
	ObjectStore         objectstore.Config `yaml:"object-store"`
}

// Default returns the configuration used when nothing is overridden. It
// has no session secret and so does not validate on its own.
func Default() Config {
	return Config{
		ListenAddress:       DefaultListenAddress,
		DatabasePath:        DefaultDatabasePath,
		SessionTTL:          DefaultSessionTTL,
		LoggingConfig:       DefaultLoggingConfig,
		MaxUploadSize:       DefaultMaxUploadSize,
		AutoClosePeriods:    true,
		PeriodCheckInterval: DefaultPeriodCheckInterval,
		ObjectStore: objectstore.Config{
			Backend: objectstore.FileBackend,
			Path:    DefaultObjectStorePath,
		},
	}
}

// Load reads the configuration like Read and validates the result.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Trace(err)
	}
	return cfg, nil
}

// Read reads the configuration file at path, if any, over the defaults
// and applies environment overrides. The result is not validated.
func Read(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Annotatef(err, "reading config %q", path)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, errors.Annotatef(err, "parsing config %q", path)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, errors.Trace(err)
	}
	return cfg, nil
}

// Parse decodes YAML over cfg. Keys missing from data keep their current
// values; unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from PROGREPORT_* variables found by lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	overrides := []struct {
		name string
		set  func(string) error
	}{
		{"LISTEN_ADDRESS", stringSetter(&c.ListenAddress)},
		{"DATABASE_PATH", stringSetter(&c.DatabasePath)},
		{"SESSION_SECRET", stringSetter(&c.SessionSecret)},
		{"SESSION_TTL", durationSetter(&c.SessionTTL)},
		{"LOGGING_CONFIG", stringSetter(&c.LoggingConfig)},
		{"MAX_UPLOAD_SIZE", func(v string) error {
			n, err := humanize.ParseBytes(v)
			if err != nil {
				return err
			}
			c.MaxUploadSize = ByteSize(n)
			return nil
		}},
		{"AUTO_CLOSE_PERIODS", boolSetter(&c.AutoClosePeriods)},
		{"PERIOD_CHECK_INTERVAL", durationSetter(&c.PeriodCheckInterval)},
		{"OBJECT_STORE_BACKEND", func(v string) error {
			c.ObjectStore.Backend = objectstore.Backend(v)
			return nil
		}},
		{"OBJECT_STORE_PATH", stringSetter(&c.ObjectStore.Path)},
		{"OBJECT_STORE_BUCKET", stringSetter(&c.ObjectStore.Bucket)},
		{"OBJECT_STORE_REGION", stringSetter(&c.ObjectStore.Region)},
		{"OBJECT_STORE_ENDPOINT", stringSetter(&c.ObjectStore.Endpoint)},
		{"OBJECT_STORE_ACCESS_KEY", stringSetter(&c.ObjectStore.AccessKey)},
		{"OBJECT_STORE_SECRET_KEY", stringSetter(&c.ObjectStore.SecretKey)},
		{"OBJECT_STORE_PATH_STYLE", boolSetter(&c.ObjectStore.PathStyle)},
	}
	for _, o := range overrides {
		key := EnvPrefix + o.name
		v, ok := lookup(key)
		if !ok {
			continue
		}
		if err := o.set(v); err != nil {
			return errors.NewNotValid(err, "invalid "+key)
		}
	}
	return nil
}

func stringSetter(p *string) func(string) error {
	return func(v string) error {
		*p = v
		return nil
	}
}

func durationSetter(p *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*p = d
		return nil
	}
}

func boolSetter(p *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*p = b
		return nil
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.ListenAddress == "" {
		return errors.NotValidf("empty listen-address")
	}
	if c.DatabasePath == "" {
		return errors.NotValidf("empty database-path")
	}
	if c.SessionSecret == "" {
		return errors.NotValidf("empty session-secret")
	}
	if len(c.SessionSecret) < auth.MinSecretLength {
		return errors.NotValidf("session-secret shorter than %d bytes", auth.MinSecretLength)
	}
	if c.SessionTTL <= 0 {
		return errors.NotValidf("session-ttl %v", c.SessionTTL)
	}
	if c.MaxUploadSize <= 0 {
		return errors.NotValidf("max-upload-size %d", c.MaxUploadSize)
	}
	if c.AutoClosePeriods && c.PeriodCheckInterval <= 0 {
		return errors.NotValidf("period-check-interval %v", c.PeriodCheckInterval)
	}
	if err := c.ObjectStore.Validate(); err != nil {
		return errors.Annotate(err, "object-store")
	}
	return nil
}
