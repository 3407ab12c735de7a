// Package reference provides classical closed-form drawdown solutions for
// homogeneous aquifers. They serve as regression oracles for the zoned
// solvers and as comparison curves for the ensemble tooling.
package reference

import (
	"math"

	"gonum.org/v1/gonum/mathext"

	"wellflow/pkg/serrors"
)

const (
	euler   = 0.5772156649015329
	e1Eps   = 1e-16
	e1Tiny  = 1e-300
	e1Steps = 1000
)

// E1 is the exponential integral E₁(x) = ∫ₓ^∞ e^{-t}/t dt for x > 0, also
// known as the Theis well function W(u).
func E1(x float64) (float64, error) {
	if math.IsNaN(x) || x <= 0 {
		return 0, serrors.With(serrors.ErrDomain, "E1 needs x > 0, got %g", x)
	}
	if math.IsInf(x, 1) {
		return 0, nil
	}

	if x < 1 {
		sum := 0.0
		term := 1.0
		for k := 1; k <= e1Steps; k++ {
			term *= -x / float64(k)
			del := term / float64(k)
			sum += del
			if math.Abs(del) < e1Eps*math.Abs(sum) {
				break
			}
		}

		return -euler - math.Log(x) - sum, nil
	}

	// modified Lentz on the continued fraction 1/(x+1-1/(x+3-4/(x+5-...)))
	b := x + 1
	c := 1 / e1Tiny
	d := 1 / b
	h := d
	for i := 1; i <= e1Steps; i++ {
		an := -float64(i * i)
		b += 2
		d = 1 / (an*d + b)
		c = b + an/c
		del := c * d
		h *= del
		if math.Abs(del-1) < e1Eps {
			return h * math.Exp(-x), nil
		}
	}

	return 0, serrors.With(serrors.ErrConvergence, "E1 continued fraction did not converge at x=%g", x)
}

// Theis returns the head at radius r and time t around a well pumping at rate
// (negative for extraction) in a homogeneous confined aquifer.
func Theis(rate, trans, stor, r, t float64) (float64, error) {
	if err := positive(map[string]float64{"transmissivity": trans, "storativity": stor, "radius": r, "time": t}); err != nil {
		return 0, err
	}
	w, err := E1(r * r * stor / (4 * trans * t))
	if err != nil {
		return 0, err
	}

	return rate / (4 * math.Pi * trans) * w, nil
}

// Thiem returns the steady head at radius r for a constant head at rRef.
func Thiem(rate, trans, r, rRef float64) (float64, error) {
	if err := positive(map[string]float64{"transmissivity": trans, "radius": r, "reference radius": rRef}); err != nil {
		return 0, err
	}

	return rate / (2 * math.Pi * trans) * math.Log(rRef/r), nil
}

// Barker returns the head of Barker's generalized radial flow model: a
// homogeneous medium of flow dimension dim and lateral extent latExt around
// a line source, with infinite outer extent.
//
//	h = Q·r^{2ν}/(4π^{1-ν}·T·L^{3-d})·Γ(-ν, u),  ν = 1-d/2,  u = S·r²/(4Tt)
func Barker(rate, trans, stor, r, t, dim, latExt float64) (float64, error) {
	if err := positive(map[string]float64{
		"transmissivity": trans, "storativity": stor, "radius": r, "time": t,
		"dimension": dim, "lateral extent": latExt,
	}); err != nil {
		return 0, err
	}

	nu := 1 - dim/2
	u := stor * r * r / (4 * trans * t)
	g, err := upperGamma(-nu, u)
	if err != nil {
		return 0, err
	}
	pre := rate * math.Pow(r, 2*nu) / (4 * math.Pow(math.Pi, 1-nu) * trans * math.Pow(latExt, 3-dim))

	return pre * g, nil
}

// upperGamma returns Γ(a, u) for a > -1 and u > 0.
func upperGamma(a, u float64) (float64, error) {
	switch {
	case a > 0:
		return math.Gamma(a) * mathext.GammaIncRegComp(a, u), nil
	case a == 0:
		return E1(u)
	case a > -1:
		next := math.Gamma(a+1) * mathext.GammaIncRegComp(a+1, u)

		return (next - math.Pow(u, a)*math.Exp(-u)) / a, nil
	default:
		return 0, serrors.With(serrors.ErrDomain, "upper incomplete gamma needs a > -1, got %g", a)
	}
}

func positive(vals map[string]float64) error {
	for name, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return serrors.With(serrors.ErrDomain, "%s must be finite and > 0, got %g", name, v)
		}
	}

	return nil
}
