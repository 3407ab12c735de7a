package upscaling

import (
	"math"

	"wellflow/pkg/numeric"
	"wellflow/pkg/serrors"
)

const (
	maxDoublings = 64
	cutoffTol    = 1e-12
	bisectSteps  = 200
)

// Cutoff returns the smallest radius (to a relative tolerance of 1e-12) from
// which the relative deviation of the law from its far-field value stays at or
// below target. It returns 0 when the law is within target everywhere.
func (l *CoarseGraining) Cutoff(target float64) (float64, error) {
	if math.IsNaN(target) || target <= 0 {
		return 0, serrors.With(serrors.ErrInvalidArgument, "target relative error must be > 0, got %g", target)
	}

	within := func(r float64) (bool, error) {
		e, err := l.RelativeError(r)
		if err != nil {
			return false, err
		}

		return e <= target, nil
	}

	ok, err := within(0)
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, nil
	}

	lo, hi := 0.0, l.stats.LenScale/l.prop
	for i := 0; ; i++ {
		ok, err := within(hi)
		if err != nil {
			return 0, err
		}
		if ok {
			break
		}
		if i == maxDoublings {
			return 0, serrors.With(serrors.ErrConvergence,
				"no radius within relative error %g found up to %g", target, hi)
		}
		lo, hi = hi, 2*hi
	}

	return numeric.Bisect(within, lo, hi, cutoffTol, bisectSteps)
}

// SolveCutoff builds the law of the given family and returns its cut-off
// radius for target.
func SolveCutoff(target float64, stats Statistics, kind Kind, opts ...Option) (float64, error) {
	law, err := New(kind, stats, opts...)
	if err != nil {
		return 0, err
	}

	return law.Cutoff(target)
}
