package grf

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"wellflow/pkg/serrors"
)

// Boundary is the condition imposed at a finite outer radius.
type Boundary int

const (
	// ConstantHead keeps the head at zero on the outer boundary.
	ConstantHead Boundary = iota
	// NoFlow makes the outer boundary impermeable.
	NoFlow
)

func (b Boundary) String() string {
	switch b {
	case ConstantHead:
		return "constant-head"
	case NoFlow:
		return "no-flow"
	default:
		return "unknown"
	}
}

// ParseBoundary maps "constant-head" and "no-flow" to a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "constant-head", "dirichlet":
		return ConstantHead, nil
	case "no-flow", "neumann":
		return NoFlow, nil
	default:
		return 0, serrors.With(serrors.ErrInvalidArgument, "unknown boundary condition %q", s)
	}
}

// Scenario describes the pumping test.
type Scenario struct {
	// Rate is the pumping rate, negative for extraction.
	Rate float64
	// WellRadius is the radius of the well, 0 for a line source.
	WellRadius float64
	// OuterRadius is the radius of the outer boundary. Zero or +Inf means the
	// aquifer is unbounded.
	OuterRadius float64
	// Boundary is the condition at a finite OuterRadius.
	Boundary Boundary
	// Dim is the flow dimension.
	Dim float64
	// LatExt is the lateral extent of the flow region (aquifer thickness in
	// two dimensions). Zero means 1.
	LatExt float64
}

// Outer returns the outer radius, +Inf for an unbounded aquifer.
func (s Scenario) Outer() float64 {
	if s.OuterRadius == 0 {
		return math.Inf(1)
	}

	return s.OuterRadius
}

func (s Scenario) latExt() float64 {
	if s.LatExt == 0 {
		return 1
	}

	return s.LatExt
}

// fluxFactor returns α_d·L^{3-d}, the measure of the unit sphere in d
// dimensions times the lateral extent correction.
func (s Scenario) fluxFactor() float64 {
	half := s.Dim / 2
	alpha := 2 * math.Pow(math.Pi, half) / math.Gamma(half)

	return alpha * math.Pow(s.latExt(), 3-s.Dim)
}

func (s Scenario) validate() error {
	switch {
	case math.IsNaN(s.Rate) || math.IsInf(s.Rate, 0):
		return serrors.With(serrors.ErrDomain, "pumping rate must be finite, got %g", s.Rate)
	case math.IsNaN(s.WellRadius) || math.IsInf(s.WellRadius, 0) || s.WellRadius < 0:
		return serrors.With(serrors.ErrDomain, "well radius must be finite and >= 0, got %g", s.WellRadius)
	case math.IsNaN(s.OuterRadius) || s.OuterRadius < 0:
		return serrors.With(serrors.ErrDomain, "outer radius must be >= 0, got %g", s.OuterRadius)
	case s.Outer() <= s.WellRadius:
		return serrors.With(serrors.ErrInvalidArgument, "outer radius %g must exceed well radius %g", s.Outer(), s.WellRadius)
	case math.IsNaN(s.Dim) || math.IsInf(s.Dim, 0) || s.Dim <= 0:
		return serrors.With(serrors.ErrDomain, "flow dimension must be > 0, got %g", s.Dim)
	case math.IsNaN(s.LatExt) || math.IsInf(s.LatExt, 0) || s.LatExt < 0:
		return serrors.With(serrors.ErrDomain, "lateral extent must be > 0, got %g", s.LatExt)
	case s.Boundary != ConstantHead && s.Boundary != NoFlow:
		return serrors.With(serrors.ErrInvalidArgument, "unknown boundary condition %d", int(s.Boundary))
	}

	return nil
}

// Field is the head on a (time × radius) grid. Row i of Head belongs to
// Times[i], column j to Radii[j].
type Field struct {
	Times []float64
	Radii []float64
	Head  *mat.Dense
}

// At returns the head at Times[i] and Radii[j].
func (f *Field) At(i, j int) float64 { return f.Head.At(i, j) }

// Row returns a copy of the heads at Times[i].
func (f *Field) Row(i int) []float64 {
	return mat.Row(nil, i, f.Head)
}
