package postgres

import (
	"context"
	"fmt"

	"wellflow/pkg/domain"
	"wellflow/pkg/serrors"
	"wellflow/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	runsTable = "runs"
)

// StoreRuns inserts runs and returns them with their generated ID and timestamps.
func (p *PgSQL) StoreRuns(ctx context.Context, runs ...domain.Run) ([]domain.Run, error) {
	if len(runs) == 0 {
		return nil, nil
	}

	pgRuns, err := domainRunsToPg(runs)
	if err != nil {
		return nil, err
	}

	var result []PgRun
	if err := p.Builder.Insert(runsTable).
		Rows(pgRuns).
		Returning(&PgRun{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store runs into pg: %w", err)
	}

	return pgRunsToDomain(result)
}

// UpdateRunByID updates a pending run. Only non-nil fields from updates are
// set; attempts is incremented by 1 and updated_at is set.
func (p *PgSQL) UpdateRunByID(ctx context.Context, id domain.RunID, updates storage.RunUpdates) (*domain.Run, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"attempts":   goqu.L("attempts + 1"),
	}
	if updates.Status != "" {
		rec["status"] = string(updates.Status)
	}
	if updates.Result != nil {
		b, err := updates.Result.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("could not encode result: %w", err)
		}

		rec["result"] = string(b)
	}
	if updates.LastError != nil {
		if *updates.LastError == "" {
			// set to NULL when empty string provided
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	var row PgRun
	found, err := p.Builder.Update(runsTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("status").Eq(string(domain.RunStatusPending)),
	).Returning(&PgRun{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update run in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// RunByID returns a run by its ID, or nil when it does not exist.
func (p *PgSQL) RunByID(ctx context.Context, id domain.RunID) (*domain.Run, error) {
	var row PgRun
	found, err := p.Builder.From(runsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch run by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// Runs returns runs matching filter, ordered by created_at DESC, id DESC.
func (p *PgSQL) Runs(ctx context.Context, filter storage.RunFilter, cursor *storage.RunCursor, limit uint) (storage.RunPage, error) {
	if limit == 0 {
		return storage.RunPage{}, serrors.With(serrors.ErrInvalidArgument, "page limit must be > 0")
	}

	var w []goqu.Expression
	if filter.Status != "" {
		w = append(w, goqu.I("status").Eq(string(filter.Status)))
	}
	if filter.SweepID != nil {
		w = append(w, goqu.I("sweep_id").Eq(uuid.UUID(*filter.SweepID)))
	}
	if cursor != nil {
		w = append(w, goqu.L("(created_at, id) < (?, ?)", cursor.CreatedAt, uuid.UUID(cursor.ID)))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(runsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgRun
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.RunPage{}, fmt.Errorf("could not fetch runs from pg: %w", err)
	}

	var nextCursor *storage.RunCursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = &storage.RunCursor{CreatedAt: last.CreatedAt, ID: domain.RunID(last.ID)}
	}

	runs, err := pgRunsToDomain(rows)
	if err != nil {
		return storage.RunPage{}, err
	}

	return storage.RunPage{
		Runs:       runs,
		NextCursor: nextCursor,
	}, nil
}
