// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package periodcloser provides a worker that closes reporting periods
// once their end date has passed.
package periodcloser

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
	"gopkg.in/tomb.v2"

	"github.com/agency-reporting/progreport/core/logger"
)

const (
	// DefaultInterval is how often expired periods are checked for.
	DefaultInterval = time.Hour

	// maxErrorBackoff caps the delay between attempts after failures.
	maxErrorBackoff = 30 * time.Minute
)

// PeriodService closes every open period whose end date is before now.
type PeriodService interface {
	CloseExpiredPeriods(ctx context.Context, now time.Time) ([]string, error)
}

// WorkerConfig encapsulates the configuration options for the
// period closer worker.
type WorkerConfig struct {
	PeriodService PeriodService
	Interval      time.Duration
	Clock         clock.Clock
	Logger        logger.Logger
}

// Validate ensures that the config values are valid.
func (c WorkerConfig) Validate() error {
	if c.PeriodService == nil {
		return errors.NotValidf("missing PeriodService")
	}
	if c.Interval <= 0 {
		return errors.NotValidf("interval %v", c.Interval)
	}
	if c.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if c.Logger == nil {
		return errors.NotValidf("missing Logger")
	}
	return nil
}

// Closer closes expired reporting periods on a fixed interval.
type Closer struct {
	tomb tomb.Tomb
	cfg  WorkerConfig

	backoff func(time.Duration, int) time.Duration
}

// NewWorker starts a Closer. The first check runs immediately.
func NewWorker(cfg WorkerConfig) (*Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	w := &Closer{
		cfg:     cfg,
		backoff: retry.ExpBackoff(cfg.Interval/60, maxErrorBackoff, 2, false),
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Kill stops the worker.
func (w *Closer) Kill() {
	w.tomb.Kill(nil)
}

// Wait blocks until the worker has stopped.
func (w *Closer) Wait() error {
	return w.tomb.Wait()
}

func (w *Closer) loop() error {
	timer := w.cfg.Clock.NewTimer(0)
	defer timer.Stop()

	var failures int
	for {
		select {
		case <-w.tomb.Dying():
			return tomb.ErrDying

		case <-timer.Chan():
			if err := w.closeExpired(); err != nil {
				failures++
				delay := w.backoff(0, failures)
				if delay > w.cfg.Interval {
					delay = w.cfg.Interval
				}
				w.cfg.Logger.Errorf("closing expired periods (retrying in %v): %v", delay, err)
				timer.Reset(delay)
				continue
			}
			failures = 0
			timer.Reset(w.cfg.Interval)
		}
	}
}

func (w *Closer) closeExpired() error {
	ctx := w.tomb.Context(context.Background())

	closed, err := w.cfg.PeriodService.CloseExpiredPeriods(ctx, w.cfg.Clock.Now())
	if err != nil {
		return errors.Trace(err)
	}
	if len(closed) > 0 {
		w.cfg.Logger.Infof("closed %d expired reporting period(s): %v", len(closed), closed)
	}
	return nil
}
