package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"wellflow/pkg/logger"
	"wellflow/pkg/storage"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"go.uber.org/zap"
)

// MigrateResult lists the versions applied by Migrate.
type MigrateResult struct {
	// Runs are the goose versions of the runs schema.
	Runs []int64
	// Queue are the River queue schema versions.
	Queue []int
}

// Migrate applies the SQL migrations in fsys with goose and then brings the
// River queue schema to its latest version. fsys holds the *.sql files at
// its root. Already applied versions are skipped.
func (p *PgSQL) Migrate(ctx context.Context, fsys fs.FS) (*MigrateResult, error) {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return nil, storage.ErrAlreadyInTx
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("could not create goose provider: %w", err)
	}
	applied, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not migrate runs schema: %w", err)
	}

	res := &MigrateResult{}
	for _, m := range applied {
		res.Runs = append(res.Runs, m.Source.Version)
	}

	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create river migrator: %w", err)
	}
	queue, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return nil, fmt.Errorf("could not migrate river queue schema: %w", err)
	}
	for _, v := range queue.Versions {
		res.Queue = append(res.Queue, v.Version)
	}

	logger.Info(ctx, "database migrated",
		zap.Int64s("runs", res.Runs),
		zap.Ints("queue", res.Queue))

	return res, nil
}
