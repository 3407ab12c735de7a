package upscaling

import (
	"math"

	"wellflow/pkg/numeric"
)

const (
	seriesTol   = 1e-17
	seriesTerms = 400
	tplNodes    = 12
	tailLog     = -40.0
)

// tplShape returns the transition shape of the truncated-power-law law
//
//	F = H/(H+d/2)·x^{d/2}·₂F₁(d/2, 1; d/2+H+1; x),  x = 1/(1+a²)
//
// with a = prop·r/ℓ. For x <= 1/2 the hypergeometric series converges at
// least geometrically with ratio 1/2; closer to the well the equivalent form
//
//	F = ∫₀¹ (1 + a²·v^{-1/H})^{-d/2} dv
//
// is integrated in y = ln v.
func tplShape(a, half, hurst float64) float64 {
	if a == 0 {
		return 1
	}

	x := 1 / (1 + a*a)
	if x <= 0.5 {
		return tplSeries(x, half, hurst)
	}

	return tplIntegral(a, half, hurst)
}

func tplSeries(x, half, hurst float64) float64 {
	c := half + hurst + 1
	term, sum := 1.0, 1.0
	for k := 0; k < seriesTerms; k++ {
		fk := float64(k)
		term *= (half + fk) / (c + fk) * x
		sum += term
		if term < seriesTol*sum {
			break
		}
	}

	return hurst / (hurst + half) * math.Pow(x, half) * sum
}

func tplIntegral(a, half, hurst float64) float64 {
	rule := numeric.Legendre(tplNodes)
	a2 := a * a
	f := func(y float64) float64 {
		return math.Exp(y) * math.Pow(1+a2*math.Exp(-y/hurst), -half)
	}

	// the integrand turns over at y* where a²·e^{-y/H} = 1
	ystar := 2 * hurst * math.Log(a)
	lo := math.Max(ystar-40*hurst/(hurst+half), tailLog)
	mid := math.Min(math.Max(ystar+40*hurst, lo), 0)

	var sum float64
	sum += panels(rule, f, lo, mid, hurst)
	sum += panels(rule, f, mid, 0, 1)

	return sum
}

// panels integrates f over [lo, hi] with equal panels no wider than width.
func panels(rule numeric.Rule, f func(float64) float64, lo, hi, width float64) float64 {
	if hi <= lo {
		return 0
	}
	n := int(math.Ceil((hi - lo) / width))
	step := (hi - lo) / float64(n)

	var sum float64
	for i := range n {
		a := lo + float64(i)*step
		b := hi
		if i < n-1 {
			b = a + step
		}
		sum += rule.Integrate(f, a, b)
	}

	return sum
}
