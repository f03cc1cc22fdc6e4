// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package logger

import (
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

// Logger is the logging surface used by services, workers and the API
// server. A loggo.Logger satisfies it.
type Logger interface {
	Criticalf(message string, args ...any)
	Errorf(message string, args ...any)
	Warningf(message string, args ...any)
	Infof(message string, args ...any)
	Debugf(message string, args ...any)
	Tracef(message string, args ...any)

	IsDebugEnabled() bool
}

// GetLogger returns the named module logger.
func GetLogger(name string) Logger {
	return loggo.GetLogger(name)
}

// Configure applies a loggo configuration specification, for example
// "<root>=INFO;progreport.apiserver=DEBUG". An empty specification is a
// no-op.
func Configure(spec string) error {
	if spec == "" {
		return nil
	}
	return errors.Annotatef(loggo.ConfigureLoggers(spec), "configuring loggers %q", spec)
}
