package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"wellflow/pkg/domain"
	"wellflow/pkg/storage"
	"wellflow/pkg/storage/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func countSweep(t *testing.T, pg *postgres.PgSQL, sweep domain.SweepID) int {
	t.Helper()

	page, err := pg.Runs(context.Background(), storage.RunFilter{SweepID: &sweep}, nil, 100)
	require.NoError(t, err)

	return len(page.Runs)
}

func TestPgSQL_Begin(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)

	inner, ok := txStorage.(*postgres.PgSQL)
	require.True(t, ok)
	_, isTx := inner.DB.(*sql.Tx)
	require.True(t, isTx)

	_, err = inner.Begin(ctx)
	require.ErrorIs(t, err, storage.ErrAlreadyInTx)
	require.ErrorIs(t, inner.Close(), storage.ErrAlreadyInTx)

	require.NoError(t, inner.Rollback())
}

func TestPgSQL_CommitAndRollback(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.ErrorIs(t, pg.Commit(), storage.ErrNotInTx)
	require.ErrorIs(t, pg.Rollback(), storage.ErrNotInTx)

	tests := []struct {
		name   string
		finish func(storage.TxStorage) error
		want   int
	}{
		{name: "commit", finish: storage.TxStorage.Commit, want: 2},
		{name: "rollback", finish: storage.TxStorage.Rollback, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sweep := domain.SweepID(uuid.New())

			tx, err := pg.Begin(ctx)
			require.NoError(t, err)
			_, err = tx.StoreRuns(ctx, newRun(sweep, 1e-4), newRun(sweep, 2e-4))
			require.NoError(t, err)

			// not visible outside the transaction yet
			require.Equal(t, 0, countSweep(t, pg, sweep))

			require.NoError(t, tc.finish(tx))
			require.Equal(t, tc.want, countSweep(t, pg, sweep))
		})
	}
}

func TestPgSQL_WithTx(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("commits runs and jobs together", func(t *testing.T) {
		sweep := domain.SweepID(uuid.New())
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			runs, err := s.StoreRuns(ctx, newRun(sweep, 1e-4))
			if err != nil {
				return err
			}
			_, err = s.AddJob(ctx, probeJobArgs{RunID: runs[0].ID.String()}, nil)

			return err
		})
		require.NoError(t, err)
		require.Equal(t, 1, countSweep(t, pg, sweep))
	})

	t.Run("error rolls back", func(t *testing.T) {
		sweep := domain.SweepID(uuid.New())
		boom := errors.New("boom")
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			if _, err := s.StoreRuns(ctx, newRun(sweep, 1e-4)); err != nil {
				return err
			}

			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 0, countSweep(t, pg, sweep))
	})

	t.Run("panic rolls back", func(t *testing.T) {
		sweep := domain.SweepID(uuid.New())
		require.Panics(t, func() {
			_ = pg.WithTx(ctx, func(s storage.AllStorage) error {
				_, _ = s.StoreRuns(ctx, newRun(sweep, 1e-4))
				panic("boom")
			})
		})
		require.Equal(t, 0, countSweep(t, pg, sweep))
	})
}
