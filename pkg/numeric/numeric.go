// Package numeric holds the small numerical kernels shared by the upscaling,
// zonation and solver packages.
package numeric

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"

	"wellflow/pkg/serrors"
)

// Rule is a Gauss-Legendre rule on [-1, 1].
type Rule struct {
	x []float64
	w []float64
}

var rules sync.Map //nolint: gochecknoglobals

// Legendre returns the n-point Gauss-Legendre rule. Rules are computed once
// per n and shared; callers must not modify them.
func Legendre(n int) Rule {
	if r, ok := rules.Load(n); ok {
		return r.(Rule) //nolint: forcetypeassert
	}

	r := Rule{x: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(r.x, r.w, -1, 1)
	actual, _ := rules.LoadOrStore(n, r)

	return actual.(Rule) //nolint: forcetypeassert
}

// Len returns the number of nodes.
func (r Rule) Len() int { return len(r.x) }

// Node returns the i-th node and weight mapped to [a, b].
func (r Rule) Node(i int, a, b float64) (x, w float64) {
	half := 0.5 * (b - a)
	mid := 0.5 * (a + b)

	return mid + half*r.x[i], half * r.w[i]
}

// Integrate applies the rule to f over [a, b].
func (r Rule) Integrate(f func(float64) float64, a, b float64) float64 {
	var sum float64
	for i := range r.x {
		x, w := r.Node(i, a, b)
		sum += w * f(x)
	}

	return sum
}

// Composite integrates f over consecutive panels given by their edges,
// applying r on each panel.
func (r Rule) Composite(f func(float64) float64, edges []float64) float64 {
	var sum float64
	for i := 1; i < len(edges); i++ {
		sum += r.Integrate(f, edges[i-1], edges[i])
	}

	return sum
}

// Bisect narrows [lo, hi] around the boundary of a monotone predicate that is
// false at lo and true at hi, stopping once hi-lo <= relTol*hi. It returns
// the final hi, for which pred holds.
func Bisect(pred func(float64) (bool, error), lo, hi, relTol float64, maxIter int) (float64, error) {
	if !(lo < hi) {
		return 0, serrors.With(serrors.ErrInvalidArgument, "bisection needs lo < hi, got [%g, %g]", lo, hi)
	}

	for range maxIter {
		if hi-lo <= relTol*math.Abs(hi) {
			return hi, nil
		}
		mid := lo + 0.5*(hi-lo)
		if mid <= lo || mid >= hi {
			return hi, nil
		}
		ok, err := pred(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}

	return 0, serrors.With(serrors.ErrConvergence, "bisection did not reach tolerance %g in %d steps", relTol, maxIter)
}
