// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package txn

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/canonical/sqlair"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
	"github.com/mattn/go-sqlite3"

	"github.com/agency-reporting/progreport/core/logger"
)

const (
	// DefaultTimeout is the deadline applied to a single transaction
	// attempt when the caller supplied context has none.
	DefaultTimeout = 30 * time.Second

	defaultAttempts = 250
	defaultDelay    = time.Millisecond
	defaultMaxDelay = 100 * time.Millisecond
)

// RetryStrategy runs the input function, retrying it according to the
// strategy's own rules.
type RetryStrategy func(context.Context, func() error) error

// Option configures a RetryingTxnRunner.
type Option func(*option)

type option struct {
	timeout       time.Duration
	logger        logger.Logger
	retryStrategy RetryStrategy
}

// WithTimeout sets the per-attempt deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(o *option) {
		o.timeout = timeout
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger logger.Logger) Option {
	return func(o *option) {
		o.logger = logger
	}
}

// WithRetryStrategy replaces the default retry strategy.
func WithRetryStrategy(retryStrategy RetryStrategy) Option {
	return func(o *option) {
		o.retryStrategy = retryStrategy
	}
}

func newOptions() *option {
	log := logger.GetLogger("progreport.database.txn")
	return &option{
		timeout:       DefaultTimeout,
		logger:        log,
		retryStrategy: DefaultRetryStrategy(clock.WallClock, log),
	}
}

// RetryingTxnRunner runs transactions, retrying them when SQLite reports a
// transient failure such as a busy or locked database.
type RetryingTxnRunner struct {
	timeout       time.Duration
	logger        logger.Logger
	retryStrategy RetryStrategy
}

// NewRetryingTxnRunner returns a new RetryingTxnRunner.
func NewRetryingTxnRunner(opts ...Option) *RetryingTxnRunner {
	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &RetryingTxnRunner{
		timeout:       o.timeout,
		logger:        o.logger,
		retryStrategy: o.retryStrategy,
	}
}

// Txn executes the input function against the sqlair database within a
// transaction. The transaction is committed when fn returns nil and rolled
// back otherwise.
func (t *RetryingTxnRunner) Txn(ctx context.Context, db *sqlair.DB, fn func(context.Context, *sqlair.TX) error) error {
	ctx, cancel := t.attemptContext(ctx)
	defer cancel()

	tx, err := db.Begin(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}

	if err := fn(ctx, tx); err != nil {
		if rErr := tx.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) {
			t.logger.Warningf("failed to rollback transaction: %v", rErr)
		}
		return errors.Trace(err)
	}

	return errors.Trace(tx.Commit())
}

// StdTxn executes the input function against the standard library
// database within a transaction.
func (t *RetryingTxnRunner) StdTxn(ctx context.Context, db *sql.DB, fn func(context.Context, *sql.Tx) error) error {
	ctx, cancel := t.attemptContext(ctx)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}

	if err := fn(ctx, tx); err != nil {
		if rErr := tx.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) {
			t.logger.Warningf("failed to rollback transaction: %v", rErr)
		}
		return errors.Trace(err)
	}

	return errors.Trace(tx.Commit())
}

// Retry calls fn until it succeeds, returns a non-retryable error, the
// context is done or the retry strategy gives up.
func (t *RetryingTxnRunner) Retry(ctx context.Context, fn func() error) error {
	return t.retryStrategy(ctx, fn)
}

func (t *RetryingTxnRunner) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}

// DefaultRetryStrategy returns a retry strategy that backs off
// exponentially on retryable SQLite errors.
func DefaultRetryStrategy(clock clock.Clock, logger logger.Logger) RetryStrategy {
	return func(ctx context.Context, fn func() error) error {
		err := retry.Call(retry.CallArgs{
			Func: func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return fn()
			},
			IsFatalError: func(err error) bool {
				if ctx.Err() != nil {
					return true
				}
				return !IsErrRetryable(err)
			},
			NotifyFunc: func(lastError error, attempt int) {
				if attempt > 1 && attempt%50 == 0 {
					logger.Warningf("retrying transaction (attempt %d): %v", attempt, lastError)
				}
			},
			Attempts:    defaultAttempts,
			Delay:       defaultDelay,
			MaxDelay:    defaultMaxDelay,
			BackoffFunc: retry.DoubleDelay,
			Clock:       clock,
			Stop:        ctx.Done(),
		})
		if retry.IsAttemptsExceeded(err) || retry.IsDurationExceeded(err) || retry.IsRetryStopped(err) {
			return errors.Trace(retry.LastError(err))
		}
		return errors.Trace(err)
	}
}

// IsErrRetryable reports whether the error is a transient SQLite failure
// that is worth retrying.
func IsErrRetryable(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return true
		}
	}
	if errors.Is(err, sqlite3.ErrBusy) || errors.Is(err, sqlite3.ErrLocked) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "cannot start a transaction within a transaction") ||
		strings.Contains(msg, "bad connection")
}
