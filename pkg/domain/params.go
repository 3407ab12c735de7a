package domain

import (
	"wellflow/pkg/serrors"
)

// ParameterHeader is the header line of a stored parameter set.
const ParameterHeader = "storage, trans_gmean, var, len_scale, hurst"

// ParameterSet is the tuple that keys ensemble artifacts and sweep runs.
type ParameterSet struct {
	// Storage is the storativity.
	Storage float64
	// TransGMean is the geometric mean transmissivity.
	TransGMean float64
	// Variance is the variance of log-transmissivity.
	Variance float64
	// LenScale is the correlation length.
	LenScale float64
	// Hurst is the Hurst coefficient of the truncated power law.
	Hurst float64
}

// Values returns the set in ParameterHeader order.
func (p ParameterSet) Values() []float64 {
	return []float64{p.Storage, p.TransGMean, p.Variance, p.LenScale, p.Hurst}
}

// ParameterSetFromValues is the inverse of Values.
func ParameterSetFromValues(v []float64) (ParameterSet, error) {
	if len(v) != 5 {
		return ParameterSet{}, serrors.With(serrors.ErrInvalidArgument, "a parameter set has 5 values, got %d", len(v))
	}

	return ParameterSet{
		Storage:    v[0],
		TransGMean: v[1],
		Variance:   v[2],
		LenScale:   v[3],
		Hurst:      v[4],
	}, nil
}
