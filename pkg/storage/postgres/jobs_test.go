package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"wellflow/pkg/storage/postgres"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

type probeJobArgs struct {
	RunID string `json:"runId" river:"unique"`
}

func (probeJobArgs) Kind() string { return "probe" }

func TestPgSQL_AddJob_WithinTransaction(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	txStorage, err := pg.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = txStorage.Rollback() }()

	added, err := txStorage.AddJob(ctx, probeJobArgs{RunID: "a"}, &river.InsertOpts{})
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInsertedTx[*riverdatabasesql.Driver](
		ctx,
		t,
		txStorage.(*postgres.PgSQL).DB.(*sql.Tx),
		&probeJobArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_OutsideTransaction(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	added, err := pg.AddJob(ctx, probeJobArgs{RunID: "b"}, &river.InsertOpts{})
	require.NoError(t, err)
	require.True(t, added)
	rivertest.RequireInserted[*riverdatabasesql.Driver](
		ctx,
		t,
		riverdatabasesql.New(pg.DB.(*sql.DB)),
		&probeJobArgs{},
		nil,
	)
}

func TestPgSQL_AddJob_UniqueDuplicateSkipped(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	opts := &river.InsertOpts{UniqueOpts: river.UniqueOpts{ByArgs: true}}

	added, err := pg.AddJob(ctx, probeJobArgs{RunID: "c"}, opts)
	require.NoError(t, err)
	require.True(t, added)

	added, err = pg.AddJob(ctx, probeJobArgs{RunID: "c"}, opts)
	require.NoError(t, err)
	require.False(t, added)
}
