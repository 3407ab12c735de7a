package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wellflow/internal/sweep"
	mocksweep "wellflow/internal/sweep/mock"
	"wellflow/internal/worker"
	"wellflow/pkg/domain"
	"wellflow/pkg/logger"
	"wellflow/pkg/metrics"
	"wellflow/pkg/serrors"
)

func TestMain(m *testing.M) {
	_ = logger.Setup(logger.DevelopmentEnvironment, "")
	m.Run()
}

func makeJob(id int64, runID string, attempt, maxAttempts int) *river.Job[sweep.JobArgs] {
	return &river.Job[sweep.JobArgs]{
		JobRow: &rivertype.JobRow{ID: id, Attempt: attempt, MaxAttempts: maxAttempts},
		Args:   sweep.JobArgs{RunID: runID},
	}
}

func TestRunWorker_Work_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mocksweep.NewMockSweeper(ctrl)
	w := worker.NewRunWorker(mock, nil)

	id := uuid.New()
	mock.EXPECT().Process(gomock.Any(), domain.RunID(id), false).Return(nil)

	require.NoError(t, w.Work(context.Background(), makeJob(1, id.String(), 1, 3)))
}

func TestRunWorker_Work_LastAttemptIsFinal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mocksweep.NewMockSweeper(ctrl)
	w := worker.NewRunWorker(mock, nil)

	id := uuid.New()
	mock.EXPECT().Process(gomock.Any(), domain.RunID(id), true).Return(nil)

	require.NoError(t, w.Work(context.Background(), makeJob(2, id.String(), 3, 3)))
}

func TestRunWorker_Work_Cancels(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: serrors.With(serrors.ErrNotFound, "run not found")},
		{name: "conflict", err: serrors.With(serrors.ErrConflict, "run is already COMPLETED")},
		{name: "domain", err: serrors.With(serrors.ErrDomain, "variance must be >= 0")},
		{name: "invalid argument", err: serrors.With(serrors.ErrInvalidArgument, "unknown law kind")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mock := mocksweep.NewMockSweeper(ctrl)
			w := worker.NewRunWorker(mock, nil)

			id := uuid.New()
			mock.EXPECT().Process(gomock.Any(), domain.RunID(id), false).Return(tc.err)

			err := w.Work(context.Background(), makeJob(3, id.String(), 1, 3))
			require.Error(t, err)
			var cancelErr *river.JobCancelError
			require.ErrorAs(t, err, &cancelErr)
		})
	}
}

func TestRunWorker_Work_ConvergenceRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mocksweep.NewMockSweeper(ctrl)
	w := worker.NewRunWorker(mock, nil)

	id := uuid.New()
	solveErr := serrors.With(serrors.ErrConvergence, "levels disagree")
	mock.EXPECT().Process(gomock.Any(), domain.RunID(id), false).Return(solveErr)

	err := w.Work(context.Background(), makeJob(4, id.String(), 1, 3))
	require.ErrorIs(t, err, solveErr)
	var cancelErr *river.JobCancelError
	require.NotErrorAs(t, err, &cancelErr, "did not expect JobCancelError")
}

func TestRunWorker_Work_GenericErrorWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mocksweep.NewMockSweeper(ctrl)
	w := worker.NewRunWorker(mock, nil)

	id := uuid.New()
	mock.EXPECT().Process(gomock.Any(), domain.RunID(id), false).Return(errors.New("boom"))

	err := w.Work(context.Background(), makeJob(5, id.String(), 2, 3))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.NotErrorAs(t, err, &cancelErr, "did not expect JobCancelError")
}

func TestRunWorker_Work_InvalidRunIDCancels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := worker.NewRunWorker(mocksweep.NewMockSweeper(ctrl), nil)

	err := w.Work(context.Background(), makeJob(6, "not-a-uuid", 1, 3))
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestRunWorker_Work_CountsResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocksweep.NewMockSweeper(ctrl)

	reg := prometheus.NewRegistry()
	jobs, err := metrics.NewJobs(reg)
	require.NoError(t, err)
	w := worker.NewRunWorker(mock, jobs)

	ok, retry, cancel := uuid.New(), uuid.New(), uuid.New()
	mock.EXPECT().Process(gomock.Any(), domain.RunID(ok), false).Return(nil)
	mock.EXPECT().Process(gomock.Any(), domain.RunID(retry), false).Return(errors.New("db down"))
	mock.EXPECT().Process(gomock.Any(), domain.RunID(cancel), false).
		Return(serrors.With(serrors.ErrDomain, "variance must be >= 0"))

	ctx := context.Background()
	require.NoError(t, w.Work(ctx, makeJob(7, ok.String(), 1, 3)))
	require.Error(t, w.Work(ctx, makeJob(8, retry.String(), 1, 3)))
	require.Error(t, w.Work(ctx, makeJob(9, cancel.String(), 1, 3)))
	require.Error(t, w.Work(ctx, makeJob(10, "nope", 1, 3)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	counts := map[string]float64{}
	for _, m := range families[0].GetMetric() {
		counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	require.Equal(t, map[string]float64{
		metrics.JobCompleted: 1,
		metrics.JobRetried:   1,
		metrics.JobCancelled: 2,
	}, counts)
}
