// Package zonation discretizes a continuous radial law into concentric,
// piecewise-constant zones: it builds boundary radii, reduces the law to one
// harmonic mean per zone and evaluates the resulting step profile.
package zonation

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"wellflow/pkg/serrors"
)

// Spacing controls the density of partition radii.
type Spacing int

const (
	// Linear spaces radii evenly.
	Linear Spacing = iota + 1
	// Geometric spaces radii evenly in log(1+r), or in log r for a positive start.
	Geometric
	// Cubic spaces radii evenly in the cube root, concentrating them at the start.
	Cubic
)

func (s Spacing) String() string {
	switch s {
	case Linear:
		return "linear"
	case Geometric:
		return "geometric"
	case Cubic:
		return "cubic"
	default:
		return "unknown"
	}
}

// ParseSpacing maps "linear", "geometric" and "cubic" to a Spacing.
func ParseSpacing(s string) (Spacing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "lin":
		return Linear, nil
	case "geometric", "geo", "log":
		return Geometric, nil
	case "cubic", "cub":
		return Cubic, nil
	default:
		return 0, serrors.With(serrors.ErrInvalidArgument, "unknown spacing %q", s)
	}
}

// Partition returns n+1 increasing radii from start to end. An infinite end
// gives an open outer zone. Without an anchor radius it can only be a single
// zone; split an open-ended range into more zones with PartitionCut.
func Partition(start, end float64, n int, spacing Spacing) ([]float64, error) {
	if err := checkRange(start, end, n); err != nil {
		return nil, err
	}
	if math.IsInf(end, 1) {
		if n != 1 {
			return nil, serrors.With(serrors.ErrInvalidArgument,
				"an open-ended partition needs a cut-off radius or a single zone, got %d zones", n)
		}

		return []float64{start, end}, nil
	}

	dst := make([]float64, n+1)
	switch spacing {
	case Linear:
		floats.Span(dst, start, end)
	case Geometric:
		if start > 0 {
			floats.LogSpan(dst, start, end)
		} else {
			floats.Span(dst, math.Log1p(start), math.Log1p(end))
			for i, v := range dst {
				dst[i] = math.Expm1(v)
			}
		}
	case Cubic:
		floats.Span(dst, math.Cbrt(start), math.Cbrt(end))
		for i, v := range dst {
			dst[i] = v * v * v
		}
	default:
		return nil, serrors.With(serrors.ErrInvalidArgument, "unknown spacing %d", int(spacing))
	}
	dst[0], dst[n] = start, end

	return dst, nil
}

// PartitionCut is Partition anchored at a cut-off radius: when start < cut < end
// the first n-1 zones cover [start, cut] and the last zone is [cut, end].
// Otherwise it is Partition(start, end, n, spacing).
func PartitionCut(start, end float64, n int, cut float64, spacing Spacing) ([]float64, error) {
	if err := checkRange(start, end, n); err != nil {
		return nil, err
	}
	if math.IsNaN(cut) {
		return nil, serrors.With(serrors.ErrDomain, "cut-off radius is NaN")
	}
	if !(start < cut && cut < end) {
		return Partition(start, end, n, spacing)
	}
	if n == 1 {
		return []float64{start, end}, nil
	}

	inner, err := Partition(start, cut, n-1, spacing)
	if err != nil {
		return nil, err
	}

	return append(inner, end), nil
}

func checkRange(start, end float64, n int) error {
	switch {
	case math.IsNaN(start) || math.IsNaN(end):
		return serrors.With(serrors.ErrDomain, "partition bounds must not be NaN")
	case start < 0 || end < 0:
		return serrors.With(serrors.ErrDomain, "partition radii must be >= 0, got [%g, %g]", start, end)
	case math.IsInf(start, 0):
		return serrors.With(serrors.ErrInvalidArgument, "partition start must be finite")
	case n < 1:
		return serrors.With(serrors.ErrInvalidArgument, "partition needs at least one zone, got %d", n)
	case start >= end:
		return serrors.With(serrors.ErrInvalidArgument, "partition start %g must be below end %g", start, end)
	}

	return nil
}
