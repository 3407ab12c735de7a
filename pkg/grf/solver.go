// Package grf solves the generalized radial flow equation
//
//	S·∂h/∂t = T·r^{1-d}·∂/∂r(r^{d-1}·∂h/∂r)
//
// around a pumping well in a medium made of concentric zones of constant
// transmissivity T and storativity S. Transient heads are obtained in the
// Laplace domain, where every zone contributes r^ν·I_|ν|(qr) and r^ν·K_|ν|(qr)
// with ν = 1-d/2 and q = √(sS/T), and then inverted numerically. Steady heads
// for a finite constant-head boundary follow in closed form.
package grf

import (
	"math"
	"runtime"

	"wellflow/pkg/laplace"
	"wellflow/pkg/serrors"
	"wellflow/pkg/zonation"
)

// Options configures a Solver.
type Options struct {
	// Inversion configures the Laplace inversion.
	Inversion laplace.Options
	// Workers bounds the number of times inverted concurrently. Zero means
	// GOMAXPROCS.
	Workers int
}

// Solver computes drawdown for zoned profiles. It is safe for concurrent use.
type Solver struct {
	inverter *laplace.Inverter
	workers  int
}

// New creates a solver.
func New(opts Options) (*Solver, error) {
	inv, err := laplace.New(opts.Inversion)
	if err != nil {
		return nil, err
	}
	if opts.Workers < 0 {
		return nil, serrors.With(serrors.ErrInvalidArgument, "workers must be >= 0, got %d", opts.Workers)
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Solver{inverter: inv, workers: workers}, nil
}

type zone struct {
	inner, outer float64
	trans, stor  float64
}

// zonesOf checks the profile against the scenario and returns its zones.
func zonesOf(sc Scenario, profile zonation.StepProfile, needStorage bool) ([]zone, error) {
	if profile.Len() == 0 {
		return nil, serrors.With(serrors.ErrInvalidArgument, "empty step profile")
	}
	if needStorage && !profile.HasStorage() {
		return nil, serrors.With(serrors.ErrInvalidArgument, "step profile carries no storage")
	}
	if !sameRadius(profile.Inner(), sc.WellRadius) {
		return nil, serrors.With(serrors.ErrInvalidArgument,
			"profile starts at %g but the well radius is %g", profile.Inner(), sc.WellRadius)
	}
	if !sameRadius(profile.Outer(), sc.Outer()) {
		return nil, serrors.With(serrors.ErrInvalidArgument,
			"profile ends at %g but the outer radius is %g", profile.Outer(), sc.Outer())
	}

	list := profile.Zones()
	zones := make([]zone, len(list))
	for i, z := range list {
		if !(z.Value > 0) {
			return nil, serrors.With(serrors.ErrDomain, "transmissivity of zone %d must be > 0, got %g", i, z.Value)
		}
		if needStorage && !(z.Storage > 0) {
			return nil, serrors.With(serrors.ErrDomain, "storativity of zone %d must be > 0, got %g", i, z.Storage)
		}
		zones[i] = zone{inner: z.Inner, outer: z.Outer, trans: z.Value, stor: z.Storage}
	}
	zones[0].inner = sc.WellRadius
	zones[len(zones)-1].outer = sc.Outer()

	return zones, nil
}

func sameRadius(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}

	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}

// checkRadii verifies that every radius lies inside the flow domain.
func checkRadii(sc Scenario, radii []float64) error {
	if len(radii) == 0 {
		return serrors.With(serrors.ErrInvalidArgument, "no observation radii")
	}
	for _, r := range radii {
		switch {
		case math.IsNaN(r) || r <= 0:
			return serrors.With(serrors.ErrDomain, "observation radius must be > 0, got %g", r)
		case r < sc.WellRadius:
			return serrors.With(serrors.ErrDomain, "observation radius %g is inside the well radius %g", r, sc.WellRadius)
		case r > sc.Outer() || math.IsInf(r, 1):
			return serrors.With(serrors.ErrDomain, "observation radius %g is beyond the outer radius %g", r, sc.Outer())
		}
	}

	return nil
}
