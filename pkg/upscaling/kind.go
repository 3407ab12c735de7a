package upscaling

import (
	"math"
	"strings"

	"wellflow/pkg/serrors"
)

// Kind selects the coarse-graining family of a law.
type Kind int

const (
	// KindGaussian is coarse graining of a Gaussian-correlated log field.
	KindGaussian Kind = iota + 1
	// KindTPL is coarse graining of a truncated-power-law log field.
	KindTPL
)

func (k Kind) String() string {
	switch k {
	case KindGaussian:
		return "gaussian"
	case KindTPL:
		return "tpl"
	default:
		return "unknown"
	}
}

// ParseKind maps "gaussian" and "tpl" (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gaussian", "gau":
		return KindGaussian, nil
	case "tpl":
		return KindTPL, nil
	default:
		return 0, serrors.With(serrors.ErrInvalidArgument, "unknown law kind %q", s)
	}
}

// Statistics describes the heterogeneity of the log-conductivity field.
type Statistics struct {
	// GeoMean is the geometric mean conductivity or transmissivity.
	GeoMean float64
	// Variance is the variance of the log field.
	Variance float64
	// LenScale is the correlation length.
	LenScale float64
	// Hurst is the Hurst coefficient. Only used by KindTPL.
	Hurst float64
	// Dim is the spatial dimension, possibly fractional.
	Dim float64
}

// Validate checks the statistics for the given family.
func (s Statistics) Validate(kind Kind) error {
	switch {
	case !finite(s.GeoMean) || s.GeoMean <= 0:
		return serrors.With(serrors.ErrDomain, "geometric mean must be > 0, got %g", s.GeoMean)
	case !finite(s.Variance) || s.Variance < 0:
		return serrors.With(serrors.ErrDomain, "variance must be >= 0, got %g", s.Variance)
	case !finite(s.LenScale) || s.LenScale <= 0:
		return serrors.With(serrors.ErrDomain, "length scale must be > 0, got %g", s.LenScale)
	case !finite(s.Dim) || s.Dim <= 0:
		return serrors.With(serrors.ErrDomain, "dimension must be > 0, got %g", s.Dim)
	}

	switch kind {
	case KindGaussian:
		return nil
	case KindTPL:
		if !(s.Hurst > 0 && s.Hurst <= 1) {
			return serrors.With(serrors.ErrDomain, "hurst coefficient must be in (0, 1], got %g", s.Hurst)
		}

		return nil
	default:
		return serrors.With(serrors.ErrInvalidArgument, "unknown law kind %d", int(kind))
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
