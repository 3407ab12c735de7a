package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"wellflow/internal/api"
	"wellflow/internal/api/handler/v1handler"
	"wellflow/internal/config"
	"wellflow/internal/drawdown"
	"wellflow/internal/sweep"
	"wellflow/internal/worker"
	"wellflow/pkg/logger"
	"wellflow/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, deps v1handler.Deps) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{Deps: deps}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// newDrawdown creates the pipeline service. Solver metrics are registered
// on the default prometheus registry when register is set.
func newDrawdown(ctx context.Context, cfg *config.Config, register bool) drawdown.Service {
	var m *metrics.Solver
	if register {
		var err error
		if m, err = metrics.NewSolver(prometheus.DefaultRegisterer); err != nil {
			logger.Fatal(ctx, "could not register solver metrics", zap.Error(err))
		}
	}

	dd, err := drawdown.New(drawdown.NewOptions(cfg), m)
	if err != nil {
		logger.Fatal(ctx, "could not create drawdown service", zap.Error(err))
	}

	return dd
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background sweep workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			dd := newDrawdown(ctx, cfg, true)
			sweeper := sweep.New(strg, dd, sweep.NewOptions(cfg))

			jobs, err := metrics.NewJobs(prometheus.DefaultRegisterer)
			if err != nil {
				logger.Fatal(ctx, "could not register job metrics", zap.Error(err))
			}
			riverClient, err := worker.Start(ctx, strg.Pool, sweeper, jobs, cfg.Sweep.QueueWorkers)
			if err != nil {
				logger.Fatal(ctx, "could not start sweep workers", zap.Error(err))
			}

			stopWebserver := setupServer(ctx, cfg, v1handler.Deps{Drawdown: dd, Sweeper: sweeper})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(ctx, "stopping sweep workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(ctx, "could not stop sweep workers", zap.Error(err))
			}
		},
	}

	return cmd
}
