package storage

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"wellflow/pkg/domain"
	"wellflow/pkg/serrors"

	"github.com/google/uuid"
)

// RunUpdates describes a set of optional fields that can be applied to an
// existing run during an update. Only non-nil fields will be updated.
type RunUpdates struct {
	// Status is the new status to set for the run.
	Status domain.RunStatus
	// Result, when provided, replaces the stored drawdown.
	Result *domain.Drawdown
	// LastError, when provided, sets the last error text. An empty string value
	// indicates the error should be cleared (set to NULL).
	LastError *string
}

// RunFilter narrows a run listing. Zero fields do not filter.
type RunFilter struct {
	// Status keeps only runs in the given state.
	Status domain.RunStatus
	// SweepID keeps only runs of the given sweep.
	SweepID *domain.SweepID
}

// RunCursor is the keyset position of a run in a listing. Runs of one sweep
// share their creation time, so the ID breaks ties.
type RunCursor struct {
	CreatedAt time.Time
	ID        domain.RunID
}

// String encodes the cursor as an opaque URL-safe token.
func (c RunCursor) String() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "," + c.ID.String()

	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseRunCursor decodes a token produced by RunCursor.String.
func ParseRunCursor(s string) (RunCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return RunCursor{}, serrors.Wrap(serrors.ErrInvalidArgument, err, "invalid cursor")
	}
	at, id, ok := strings.Cut(string(raw), ",")
	if !ok {
		return RunCursor{}, serrors.With(serrors.ErrInvalidArgument, "invalid cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return RunCursor{}, serrors.Wrap(serrors.ErrInvalidArgument, err, "invalid cursor")
	}
	runID, err := uuid.Parse(id)
	if err != nil {
		return RunCursor{}, serrors.Wrap(serrors.ErrInvalidArgument, err, "invalid cursor")
	}

	return RunCursor{CreatedAt: createdAt, ID: domain.RunID(runID)}, nil
}

// RunPage groups a page of runs together with an optional NextCursor used
// for pagination.
type RunPage struct {
	// Runs contains the current page of run records.
	Runs []domain.Run
	// NextCursor is the position of the last run of the page. It is nil when
	// there is no next page.
	NextCursor *RunCursor
}

// RunStorage defines persistence operations of sweep runs.
type RunStorage interface {
	// StoreRuns inserts one or more runs and returns the stored rows as they
	// exist in the database (including generated fields).
	StoreRuns(ctx context.Context, runs ...domain.Run) ([]domain.Run, error)
	// UpdateRunByID updates a single pending run and returns the updated row.
	// Attempts is incremented by 1 and updated_at is set automatically. It
	// returns nil when no pending run with that ID exists.
	UpdateRunByID(ctx context.Context, ID domain.RunID, updates RunUpdates) (*domain.Run, error)
	// RunByID fetches a run by its ID. Returns nil when not found.
	RunByID(ctx context.Context, ID domain.RunID) (*domain.Run, error)
	// Runs returns a page of runs ordered before the optional cursor, newest
	// first, limited by the given limit.
	Runs(ctx context.Context, filter RunFilter, cursor *RunCursor, limit uint) (RunPage, error)
}
