package grf

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"wellflow/pkg/serrors"
	"wellflow/pkg/zonation"
)

const (
	steadyNodes = 16
	steadyPanel = 0.5
)

// Steady returns the steady head at each radius for a zoned transmissivity
// profile and a finite constant-head outer boundary:
//
//	h(r) = Q/(α_d·L^{3-d})·∫_r^{r_b} dr'/(r'^{d-1}·T(r'))
//
// evaluated in closed form zone by zone.
func (s *Solver) Steady(sc Scenario, profile zonation.StepProfile, radii []float64) ([]float64, error) {
	if err := checkSteady(sc, radii); err != nil {
		return nil, err
	}
	zones, err := zonesOf(sc, profile, false)
	if err != nil {
		return nil, err
	}

	pre := sc.Rate / sc.fluxFactor()
	out := make([]float64, len(radii))
	for j, r := range radii {
		var sum float64
		for _, zn := range zones {
			if zn.outer <= r {
				continue
			}
			sum += powerIntegral(math.Max(r, zn.inner), zn.outer, sc.Dim) / zn.trans
		}
		out[j] = pre * sum
	}

	return out, nil
}

// SteadyLaw is Steady for a continuous transmissivity law, integrated with
// Gauss-Legendre panels in log-radius.
func (s *Solver) SteadyLaw(sc Scenario, law zonation.Law, radii []float64) ([]float64, error) {
	if err := checkSteady(sc, radii); err != nil {
		return nil, err
	}

	var lawErr error
	integrand := func(y float64) float64 {
		r := math.Exp(y)
		k, err := law.Value(r)
		if err == nil && !(k > 0) {
			err = serrors.With(serrors.ErrDomain, "law must be > 0, got %g at r=%g", k, r)
		}
		if err != nil {
			if lawErr == nil {
				lawErr = err
			}

			return 0
		}

		return math.Pow(r, 2-sc.Dim) / k
	}

	pre := sc.Rate / sc.fluxFactor()
	rb := sc.Outer()
	out := make([]float64, len(radii))
	for j, r := range radii {
		lo, hi := math.Log(r), math.Log(rb)
		n := int(math.Ceil((hi - lo) / steadyPanel))
		var sum float64
		for k := range n {
			a := lo + (hi-lo)*float64(k)/float64(n)
			b := lo + (hi-lo)*float64(k+1)/float64(n)
			sum += quad.Fixed(integrand, a, b, steadyNodes, quad.Legendre{}, 0)
		}
		if lawErr != nil {
			return nil, lawErr
		}
		out[j] = pre * sum
	}

	return out, nil
}

func checkSteady(sc Scenario, radii []float64) error {
	if err := sc.validate(); err != nil {
		return err
	}
	if math.IsInf(sc.Outer(), 1) {
		return serrors.With(serrors.ErrInvalidArgument, "steady state needs a finite outer radius")
	}
	if sc.Boundary != ConstantHead {
		return serrors.With(serrors.ErrInvalidArgument, "steady state needs a constant-head outer boundary")
	}

	return checkRadii(sc, radii)
}

// powerIntegral returns ∫_lo^hi r^{1-d} dr for 0 < lo <= hi.
func powerIntegral(lo, hi, dim float64) float64 {
	l := math.Log(hi / lo)
	e := 2 - dim
	if math.Abs(e) < 1e-12 {
		return l
	}

	return math.Pow(lo, e) * math.Expm1(e*l) / e
}
