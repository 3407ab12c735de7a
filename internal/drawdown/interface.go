package drawdown

import (
	"context"

	"wellflow/pkg/grf"
	"wellflow/pkg/zonation"
)

//go:generate mockgen -package mockdrawdown -source=interface.go -destination=mock/mockdrawdown.go *
type Service interface {
	Law(ctx context.Context, req LawRequest) (*LawResult, error)
	Profile(ctx context.Context, req Request) (*Profile, error)
	ExtTheis(ctx context.Context, req Request) (*grf.Field, error)
	ExtThiem(ctx context.Context, req Request) ([]float64, error)
}

// Profile is the zonation built by a pipeline before solving.
type Profile struct {
	// Cutoff is the radius from which the law is replaced by its far field.
	Cutoff float64
	// FarField and NearWell are the asymptotes of the law.
	FarField float64
	NearWell float64
	// Steps is the zoned transmissivity with uniform storage attached.
	Steps zonation.StepProfile
}
