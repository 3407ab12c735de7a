package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"wellflow/pkg/logger"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertype"
	"go.uber.org/zap"
)

// newJobClient creates the insert-only River client shared by a PgSQL and
// the transactions it begins. It never works jobs.
func newJobClient(db *sql.DB) (*river.Client[*sql.Tx], error) {
	client, err := river.NewClient(riverdatabasesql.New(db), &river.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	return client, nil
}

// AddJob enqueues a River job. Inside a transaction the job becomes visible
// on commit together with the rows written in it; outside a transaction it is
// visible once AddJob returns. The result is false when River skipped the
// insert as a duplicate of a unique job.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	var (
		res *rivertype.JobInsertResult
		err error
	)
	if tx, ok := p.DB.(*sql.Tx); ok {
		res, err = p.jobs.InsertTx(ctx, tx, args, opts)
	} else {
		res, err = p.jobs.Insert(ctx, args, opts)
	}
	if err != nil {
		return false, fmt.Errorf("could not insert %s job: %w", args.Kind(), err)
	}

	if res.UniqueSkippedAsDuplicate {
		logger.Debug(ctx, "duplicate job skipped", zap.String("kind", args.Kind()), zap.Int64("jobID", res.Job.ID))

		return false, nil
	}

	return true, nil
}
