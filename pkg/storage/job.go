package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs. Sweep submission uses it inside the
// same transaction that stores the runs, so a run never exists without its job.
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. It is atomic with
	// respect to the surrounding transaction. The returned flag is false when
	// River skipped the insert as a duplicate of a unique job.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
