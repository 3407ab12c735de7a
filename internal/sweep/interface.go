package sweep

import (
	"context"

	"wellflow/pkg/domain"
	"wellflow/pkg/storage"
)

//go:generate mockgen -package mocksweep -source=interface.go -destination=mock/mocksweep.go *
type Sweeper interface {
	Submit(ctx context.Context, sw Sweep) (domain.SweepID, []domain.Run, error)
	Run(ctx context.Context, runID domain.RunID) (*domain.Run, error)
	Runs(ctx context.Context, filter storage.RunFilter, cursor string, limit uint) ([]domain.Run, string, error)
	Process(ctx context.Context, runID domain.RunID, final bool) error
}
