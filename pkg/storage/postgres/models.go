package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wellflow/pkg/domain"

	"github.com/google/uuid"
)

// PgRun is the row layout of the runs table. Spec and Result are jsonb
// documents encoded with the domain codec.
type PgRun struct {
	ID      uuid.UUID `db:"id"       goqu:"skipinsert"`
	SweepID uuid.UUID `db:"sweep_id"`

	Status string          `db:"status"`
	Spec   json.RawMessage `db:"spec"`
	Result json.RawMessage `db:"result" goqu:"skipinsert"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

// ToDomain converts the row into a domain.Run.
func (p *PgRun) ToDomain() (*domain.Run, error) {
	var spec domain.RunSpec
	if err := spec.UnmarshalJSON(p.Spec); err != nil {
		return nil, fmt.Errorf("could not decode run spec: %w", err)
	}

	var result *domain.Drawdown
	if len(p.Result) > 0 && string(p.Result) != "null" {
		result = &domain.Drawdown{}
		if err := result.UnmarshalJSON(p.Result); err != nil {
			return nil, fmt.Errorf("could not decode run result: %w", err)
		}
	}

	return &domain.Run{
		ID:        domain.RunID(p.ID),
		SweepID:   domain.SweepID(p.SweepID),
		Status:    domain.RunStatus(p.Status),
		Spec:      spec,
		Result:    result,
		Attempts:  p.Attempts,
		LastError: p.LastError.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
	}, nil
}

// FromDomain fills the row from a domain.Run.
func (p *PgRun) FromDomain(run domain.Run) error {
	spec, err := run.Spec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode run spec: %w", err)
	}

	var result json.RawMessage
	if run.Result != nil {
		if result, err = run.Result.MarshalJSON(); err != nil {
			return fmt.Errorf("could not encode run result: %w", err)
		}
	}

	*p = PgRun{
		ID:       uuid.UUID(run.ID),
		SweepID:  uuid.UUID(run.SweepID),
		Status:   string(run.Status),
		Spec:     spec,
		Result:   result,
		Attempts: run.Attempts,
		LastError: sql.NullString{
			String: run.LastError,
			Valid:  run.LastError != "",
		},
		CreatedAt: run.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  run.UpdatedAt,
			Valid: !run.UpdatedAt.IsZero(),
		},
	}

	return nil
}

func domainRunsToPg(runs []domain.Run) ([]PgRun, error) {
	out := make([]PgRun, len(runs))
	for i := range out {
		if err := out[i].FromDomain(runs[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func pgRunsToDomain(runs []PgRun) ([]domain.Run, error) {
	out := make([]domain.Run, 0, len(runs))
	for _, run := range runs {
		d, err := run.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
