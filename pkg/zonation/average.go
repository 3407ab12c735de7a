package zonation

import (
	"math"

	"wellflow/pkg/numeric"
	"wellflow/pkg/serrors"
)

const (
	avgNodes  = 16
	avgPanels = 16
	avgGrade  = 8.0
)

// Law is a positive radial function with a known far-field value.
type Law interface {
	Value(r float64) (float64, error)
	FarField() float64
}

// Constant is a law that takes the same value everywhere.
type Constant float64

// Value returns c.
func (c Constant) Value(float64) (float64, error) { return float64(c), nil }

// FarField returns c.
func (c Constant) FarField() float64 { return float64(c) }

// Average returns the harmonic mean of law over each zone [bounds[i], bounds[i+1]]
// weighted by the annular volume element r^{dim-1} dr. Zones reaching to
// infinity take the law's far-field value.
func Average(law Law, bounds []float64, dim float64) ([]float64, error) {
	if err := checkBounds(bounds); err != nil {
		return nil, err
	}
	if math.IsNaN(dim) || math.IsInf(dim, 0) || dim <= 0 {
		return nil, serrors.With(serrors.ErrDomain, "dimension must be > 0, got %g", dim)
	}

	out := make([]float64, len(bounds)-1)
	for i := range out {
		if math.IsInf(bounds[i+1], 1) {
			out[i] = law.FarField()

			continue
		}
		v, err := zoneMean(law, bounds[i], bounds[i+1], dim)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// zoneMean integrates in v = r^dim, where the weight becomes uniform, on panels
// graded towards the inner edge.
func zoneMean(law Law, a, b, dim float64) (float64, error) {
	va, vb := math.Pow(a, dim), math.Pow(b, dim)
	span := vb - va
	if !(span > 0) {
		return 0, serrors.With(serrors.ErrInvalidArgument, "zone [%g, %g] is too thin to average", a, b)
	}

	edges := make([]float64, avgPanels+1)
	edges[0] = va
	for k := 1; k <= avgPanels; k++ {
		edges[k] = va + span*math.Pow(avgGrade, float64(k-avgPanels))
	}
	edges[avgPanels] = vb

	rule := numeric.Legendre(avgNodes)
	ref := math.NaN()
	var weights, scaled float64
	for k := 1; k <= avgPanels; k++ {
		for j := range rule.Len() {
			v, w := rule.Node(j, edges[k-1], edges[k])
			val, err := law.Value(math.Pow(v, 1/dim))
			if err != nil {
				return 0, err
			}
			if math.IsNaN(val) || val <= 0 {
				return 0, serrors.With(serrors.ErrDomain, "law must be > 0 to average, got %g", val)
			}
			if math.IsNaN(ref) {
				ref = val
			}
			weights += w
			scaled += w * (ref / val)
		}
	}

	return ref * (weights / scaled), nil
}

func checkBounds(bounds []float64) error {
	if len(bounds) < 2 {
		return serrors.With(serrors.ErrInvalidArgument, "need at least two boundaries, got %d", len(bounds))
	}
	for i, b := range bounds {
		switch {
		case math.IsNaN(b):
			return serrors.With(serrors.ErrDomain, "boundary %d is NaN", i)
		case b < 0:
			return serrors.With(serrors.ErrDomain, "boundary %d must be >= 0, got %g", i, b)
		case math.IsInf(b, 1) && i != len(bounds)-1:
			return serrors.With(serrors.ErrInvalidArgument, "only the last boundary may be infinite")
		case i > 0 && b <= bounds[i-1]:
			return serrors.With(serrors.ErrInvalidArgument, "boundaries must increase strictly, got %g after %g", b, bounds[i-1])
		}
	}

	return nil
}
