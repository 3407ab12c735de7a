// Package worker runs sweep jobs from the River queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"wellflow/internal/sweep"
	"wellflow/pkg/logger"
	"wellflow/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Start registers the run worker and starts a River client processing at most
// queueWorkers runs at a time. jobs may be nil to disable metrics.
func Start(
	ctx context.Context,
	dbPool *pgxpool.Pool,
	sweeper sweep.Sweeper,
	jobs *metrics.Jobs,
	queueWorkers int,
) (*river.Client[pgx.Tx], error) {
	if queueWorkers < 1 {
		queueWorkers = 1
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRunWorker(sweeper, jobs))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: queueWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
