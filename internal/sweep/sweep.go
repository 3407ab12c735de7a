// Package sweep persists parameter sweeps as runs, queues one background job
// per run and solves runs when their job is worked.
package sweep

import (
	"context"
	"errors"
	"fmt"

	"wellflow/internal/config"
	"wellflow/internal/drawdown"
	"wellflow/pkg/domain"
	"wellflow/pkg/logger"
	"wellflow/pkg/serrors"
	"wellflow/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configure how run jobs are enqueued.
type Options struct {
	// MaxAttempts is the maximum number of attempts the background worker should
	// make when solving a run before marking it failed.
	MaxAttempts int
	// MaxRuns limits the number of parameter sets of a single sweep.
	MaxRuns int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxAttempts: cfg.Sweep.MaxAttempts,
		MaxRuns:     cfg.Sweep.MaxRuns,
	}
}

// Sweep is a set of parameter sets sharing one pumping test and model.
type Sweep struct {
	Params  []domain.ParameterSet
	Pumping domain.Pumping
	Model   domain.Model
	Times   []float64
	Radii   []float64
}

// sweeper is the concrete implementation of the Sweeper interface.
// It coordinates persistence with the storage layer, job enqueueing and the
// drawdown pipelines.
type sweeper struct {
	options  Options
	storage  storage.Storage
	drawdown drawdown.Service
}

// Submit validates the sweep, stores one pending run per parameter set and
// enqueues one job per run in the same transaction.
func (s sweeper) Submit(ctx context.Context, sw Sweep) (domain.SweepID, []domain.Run, error) {
	if err := s.validate(sw); err != nil {
		return domain.SweepID{}, nil, err
	}

	sweepID := domain.SweepID(uuid.New())
	runs := make([]domain.Run, len(sw.Params))
	for i, p := range sw.Params {
		runs[i] = domain.Run{
			SweepID: sweepID,
			Status:  domain.RunStatusPending,
			Spec: domain.RunSpec{
				Params:  p,
				Pumping: sw.Pumping,
				Model:   sw.Model,
				Times:   sw.Times,
				Radii:   sw.Radii,
			},
		}
	}

	var stored []domain.Run
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		res, err := tx.StoreRuns(ctx, runs...)
		if err != nil {
			return fmt.Errorf("could not store runs: %w", err)
		}
		stored = res

		for _, run := range stored {
			if _, err := tx.AddJob(ctx, JobArgs{
				RunID:       run.ID.String(),
				maxAttempts: s.options.MaxAttempts,
			}, nil); err != nil {
				return fmt.Errorf("could not add job: %w", err)
			}
		}

		return nil
	}); err != nil {
		return domain.SweepID{}, nil, fmt.Errorf("could not submit sweep: %w", err)
	}

	logger.Info(ctx, "sweep submitted", zap.Stringer("sweepID", sweepID), zap.Int("runs", len(stored)))

	return sweepID, stored, nil
}

func (s sweeper) validate(sw Sweep) error {
	switch {
	case len(sw.Params) == 0:
		return serrors.With(serrors.ErrInvalidArgument, "sweep needs at least one parameter set")
	case s.options.MaxRuns > 0 && len(sw.Params) > s.options.MaxRuns:
		return serrors.With(serrors.ErrInvalidArgument, "sweep has %d parameter sets, at most %d allowed",
			len(sw.Params), s.options.MaxRuns)
	case len(sw.Times) == 0 || len(sw.Radii) == 0:
		return serrors.With(serrors.ErrInvalidArgument, "sweep needs times and radii")
	}

	// catch malformed names before anything is queued
	if _, err := RequestFromSpec(domain.RunSpec{Params: sw.Params[0], Pumping: sw.Pumping, Model: sw.Model}); err != nil {
		return err
	}

	return nil
}

// Run fetches a single run by ID. It returns a not-found error when no
// matching run exists.
func (s sweeper) Run(ctx context.Context, runID domain.RunID) (*domain.Run, error) {
	res, err := s.storage.RunByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("could not get run: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "run not found")
	}

	return res, nil
}

// Runs returns a page of runs matching filter. cursor is the opaque token
// returned with the previous page; the next token is empty on the last page.
func (s sweeper) Runs(ctx context.Context, filter storage.RunFilter, cursor string, limit uint) ([]domain.Run, string, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, "", serrors.With(serrors.ErrInvalidArgument, "unknown run status %q", filter.Status)
	}

	var after *storage.RunCursor
	if cursor != "" {
		c, err := storage.ParseRunCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		after = &c
	}

	page, err := s.storage.Runs(ctx, filter, after, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get runs: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.String()
	}

	return page.Runs, next, nil
}

// Process solves a pending run and stores the outcome. Domain and argument
// errors fail the run at once; other errors only record the message unless
// final is set, in which case the run fails as well. The solve error is
// returned in every failing case so the caller can decide about retries.
func (s sweeper) Process(ctx context.Context, runID domain.RunID, final bool) error {
	ctx = logger.WithFields(ctx, zap.Stringer("runID", runID))

	run, err := s.storage.RunByID(ctx, runID)
	if err != nil {
		return fmt.Errorf("could not get run: %w", err)
	}
	if run == nil {
		return serrors.With(serrors.ErrNotFound, "run not found")
	}
	if run.Status != domain.RunStatusPending {
		return serrors.With(serrors.ErrConflict, "run is already %s", run.Status)
	}

	solveErr := s.solve(ctx, run)
	if solveErr == nil {
		return nil
	}

	msg := solveErr.Error()
	updates := storage.RunUpdates{LastError: &msg}
	if final || permanent(solveErr) {
		updates.Status = domain.RunStatusFailed
	}
	if _, err := s.storage.UpdateRunByID(ctx, runID, updates); err != nil {
		return errors.Join(solveErr, fmt.Errorf("could not record run failure: %w", err))
	}
	logger.Warn(ctx, "run failed",
		zap.Bool("final", updates.Status == domain.RunStatusFailed),
		zap.Error(solveErr))

	return solveErr
}

func (s sweeper) solve(ctx context.Context, run *domain.Run) error {
	req, err := RequestFromSpec(run.Spec)
	if err != nil {
		return err
	}

	field, err := s.drawdown.ExtTheis(ctx, req)
	if err != nil {
		return fmt.Errorf("could not solve run: %w", err)
	}

	none := ""
	updated, err := s.storage.UpdateRunByID(ctx, run.ID, storage.RunUpdates{
		Status:    domain.RunStatusCompleted,
		Result:    DrawdownFromField(field),
		LastError: &none,
	})
	if err != nil {
		return fmt.Errorf("could not store run result: %w", err)
	}
	if updated == nil {
		return serrors.With(serrors.ErrConflict, "run was finished concurrently")
	}
	logger.Info(ctx, "run completed", zap.Uint("attempts", updated.Attempts))

	return nil
}

// permanent reports whether retrying err cannot succeed.
func permanent(err error) bool {
	return errors.Is(err, serrors.ErrDomain) ||
		errors.Is(err, serrors.ErrInvalidArgument) ||
		errors.Is(err, serrors.ErrConflict)
}

// New creates a new Sweeper instance backed by the provided storage and
// pipelines and configured with the given options.
func New(storage storage.Storage, dd drawdown.Service, options Options) Sweeper {
	return &sweeper{
		options:  options,
		storage:  storage,
		drawdown: dd,
	}
}
