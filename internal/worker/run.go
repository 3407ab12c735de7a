package worker

import (
	"context"
	"errors"
	"fmt"

	"wellflow/internal/sweep"
	"wellflow/pkg/domain"
	"wellflow/pkg/logger"
	"wellflow/pkg/metrics"
	"wellflow/pkg/serrors"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// RunWorker is a River worker that solves sweep runs through a sweep.Sweeper.
//
// Error handling: runs that no longer exist or are no longer pending, and runs
// whose parameters are outside the domain of the pipelines, cancel the job.
// Any other error is returned so River retries the job until its attempts are
// exhausted. The last attempt is flagged to the sweeper so it marks the run
// failed instead of leaving it pending.
type RunWorker struct {
	river.WorkerDefaults[sweep.JobArgs]

	sweeper sweep.Sweeper
	jobs    *metrics.Jobs
}

// NewRunWorker constructs a RunWorker using the provided sweeper. jobs may be
// nil to disable metrics.
func NewRunWorker(sweeper sweep.Sweeper, jobs *metrics.Jobs) *RunWorker {
	return &RunWorker{sweeper: sweeper, jobs: jobs}
}

// Work solves the run of a single job and maps errors to River actions.
func (w *RunWorker) Work(ctx context.Context, job *river.Job[sweep.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("runID", job.Args.RunID),
		zap.Int("attempt", job.Attempt))

	id, err := uuid.Parse(job.Args.RunID)
	if err != nil {
		w.jobs.Inc(metrics.JobCancelled)

		return river.JobCancel(fmt.Errorf("invalid run ID %q: %w", job.Args.RunID, err)) //nolint: wrapcheck
	}

	final := job.MaxAttempts > 0 && job.Attempt >= job.MaxAttempts
	if err := w.sweeper.Process(ctx, domain.RunID(id), final); err != nil {
		if cancels(err) {
			logger.Warn(ctx, "run cannot be solved, cancelling job", zap.Error(err))
			w.jobs.Inc(metrics.JobCancelled)

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "error in solving run", zap.Bool("final", final), zap.Error(err))
		w.jobs.Inc(metrics.JobRetried)

		return fmt.Errorf("could not solve run: %w", err)
	}

	logger.Info(ctx, "run solved successfully")
	w.jobs.Inc(metrics.JobCompleted)

	return nil
}

func cancels(err error) bool {
	return errors.Is(err, serrors.ErrNotFound) ||
		errors.Is(err, serrors.ErrConflict) ||
		errors.Is(err, serrors.ErrDomain) ||
		errors.Is(err, serrors.ErrInvalidArgument)
}
