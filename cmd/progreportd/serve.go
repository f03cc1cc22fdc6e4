// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agency-reporting/progreport/apiserver"
	coredatabase "github.com/agency-reporting/progreport/core/database"
	"github.com/agency-reporting/progreport/core/logger"
	"github.com/agency-reporting/progreport/domain/services"
	"github.com/agency-reporting/progreport/internal/auth"
	"github.com/agency-reporting/progreport/internal/objectstore"
	"github.com/agency-reporting/progreport/internal/worker/periodcloser"
	"github.com/agency-reporting/progreport/version"
)

const shutdownTimeout = 15 * time.Second

type serveOptions struct {
	*rootOptions

	listenAddress string
	secureCookies bool
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return opts.run(ctx)
		},
	}
	cmd.Flags().StringVar(&opts.listenAddress, "listen-address", "", "Override the listen address")
	cmd.Flags().BoolVar(&opts.secureCookies, "secure-cookies", false, "Mark session cookies as HTTPS only")
	return cmd
}

func (o *serveOptions) run(ctx context.Context) error {
	cfg, err := o.readConfig()
	if err != nil {
		return errors.Trace(err)
	}
	if o.listenAddress != "" {
		cfg.ListenAddress = o.listenAddress
	}
	if err := cfg.Validate(); err != nil {
		return errors.Annotate(err, "invalid configuration")
	}

	db, runner, _, err := openDatabase(ctx, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	defer db.Close()

	store, err := objectstore.New(ctx, cfg.ObjectStore)
	if err != nil {
		return errors.Annotate(err, "opening object store")
	}

	factory := services.NewFactory(services.Config{
		DB:            coredatabase.NoopTxnRunnerFactory(runner),
		ObjectStore:   store,
		Clock:         clock.WallClock,
		MaxUploadSize: int64(cfg.MaxUploadSize),
	})
	tokens, err := auth.NewTokenManager([]byte(cfg.SessionSecret), cfg.SessionTTL, clock.WallClock)
	if err != nil {
		return errors.Trace(err)
	}
	server, err := apiserver.NewServer(apiserver.Config{
		Services:      factory,
		Tokens:        tokens,
		Clock:         clock.WallClock,
		Logger:        logger.GetLogger("progreport.apiserver"),
		SecureCookies: o.secureCookies,
	})
	if err != nil {
		return errors.Trace(err)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("progreportd %s listening on %s", version.Current, cfg.ListenAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Annotate(err, "serving API")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Trace(httpServer.Shutdown(shutdownCtx))
	})

	if cfg.AutoClosePeriods {
		closer, err := periodcloser.NewWorker(periodcloser.WorkerConfig{
			PeriodService: factory.Period(),
			Interval:      cfg.PeriodCheckInterval,
			Clock:         clock.WallClock,
			Logger:        logger.GetLogger("progreport.worker.periodcloser"),
		})
		if err != nil {
			return errors.Trace(err)
		}
		g.Go(func() error {
			<-ctx.Done()
			closer.Kill()
			return errors.Trace(closer.Wait())
		})
	}

	return errors.Trace(g.Wait())
}
