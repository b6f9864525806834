package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/linesmerrill/studio-api/api/handlers"
	"github.com/linesmerrill/studio-api/api/scheduler"
	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
)

// ShutdownTimeout bounds draining in-flight requests and jobs on SIGINT/SIGTERM
const ShutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the http api and the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	conf := config.New()
	defer func() { _ = zap.L().Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := handlers.App{Config: *conf}
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(a.Database())
	if err := sched.Start(); err != nil {
		return multierr.Append(err, a.Close(context.Background()))
	}

	srv := &http.Server{
		Addr:              ":" + conf.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	zap.S().Infow("studio-api is up and running",
		"port", conf.Port,
		"url", conf.BaseURL,
	)

	var err error
	select {
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		zap.S().Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	sched.Stop()
	err = multierr.Append(err, srv.Shutdown(shutdownCtx))
	return multierr.Append(err, a.Close(shutdownCtx))
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := config.New()
			ctx := cmd.Context()
			client, db, err := connect(ctx, conf)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			if err := databases.EnsureIndexes(ctx, db); err != nil {
				return err
			}
			cmd.Printf("ensured indexes on %d collections\n", len(databases.Indexes()))
			return nil
		},
	}
}
