// Package laplace inverts vector-valued Laplace transforms with the fixed
// Talbot contour of Abate and Valkó, checking each result against the next
// refinement level.
package laplace

import (
	"math"
	"math/cmplx"

	"wellflow/pkg/serrors"
)

// Transform evaluates the Laplace-domain values of all components at s.
// The returned slice must have the length passed to Invert.
type Transform func(s complex128) ([]complex128, error)

// Options configures the inversion.
type Options struct {
	// Levels are the contour node counts tried in order. Two consecutive
	// levels must agree for a result to be accepted.
	Levels []int
	// RelTol and ScaleTol bound the disagreement between consecutive levels
	// for every component i: |fine_i-coarse_i| <= RelTol*|fine_i| + ScaleTol*max_j|fine_j|.
	RelTol   float64
	ScaleTol float64
}

// DefaultOptions returns the refinement levels 16, 24, 32, 40.
func DefaultOptions() Options {
	return Options{
		Levels:   []int{16, 24, 32, 40},
		RelTol:   1e-8,
		ScaleTol: 1e-10,
	}
}

// Inverter performs fixed Talbot inversion.
type Inverter struct {
	opts Options
}

// New creates an inverter. Missing fields fall back to DefaultOptions.
func New(opts Options) (*Inverter, error) {
	def := DefaultOptions()
	if len(opts.Levels) == 0 {
		opts.Levels = def.Levels
	}
	if opts.RelTol == 0 {
		opts.RelTol = def.RelTol
	}
	if opts.ScaleTol == 0 {
		opts.ScaleTol = def.ScaleTol
	}

	if len(opts.Levels) < 2 {
		return nil, serrors.With(serrors.ErrInvalidArgument, "at least two refinement levels are needed, got %d", len(opts.Levels))
	}
	for i, m := range opts.Levels {
		if m < 2 {
			return nil, serrors.With(serrors.ErrInvalidArgument, "refinement level must be >= 2, got %d", m)
		}
		if i > 0 && m <= opts.Levels[i-1] {
			return nil, serrors.With(serrors.ErrInvalidArgument, "refinement levels must increase, got %v", opts.Levels)
		}
	}
	if opts.RelTol < 0 || opts.ScaleTol < 0 {
		return nil, serrors.With(serrors.ErrInvalidArgument, "tolerances must be >= 0")
	}

	return &Inverter{opts: opts}, nil
}

// Invert returns f(t) for every component of the transform.
func (inv *Inverter) Invert(t float64, size int, transform Transform) ([]float64, error) {
	if !(t > 0) || math.IsInf(t, 1) {
		return nil, serrors.With(serrors.ErrDomain, "inversion time must be finite and > 0, got %g", t)
	}
	if size < 1 {
		return nil, serrors.With(serrors.ErrInvalidArgument, "transform size must be >= 1, got %d", size)
	}

	coarse, err := talbot(t, inv.opts.Levels[0], size, transform)
	if err != nil {
		return nil, err
	}

	var diff float64
	for _, m := range inv.opts.Levels[1:] {
		fine, err := talbot(t, m, size, transform)
		if err != nil {
			return nil, err
		}

		if diff = excess(fine, coarse, inv.opts); diff <= 0 {
			return fine, nil
		}
		coarse = fine
	}

	return nil, serrors.With(serrors.ErrConvergence,
		"talbot inversion at t=%g did not stabilize, last level difference exceeds tolerance by %g", t, diff)
}

// excess returns the largest amount by which a component difference exceeds
// its tolerance, or a non-positive value when all components agree.
func excess(fine, coarse []float64, opts Options) float64 {
	var scale float64
	for _, v := range fine {
		scale = math.Max(scale, math.Abs(v))
	}

	worst := math.Inf(-1)
	for i := range fine {
		tol := opts.RelTol*math.Abs(fine[i]) + opts.ScaleTol*scale
		worst = math.Max(worst, math.Abs(fine[i]-coarse[i])-tol)
	}

	return worst
}

// talbot evaluates the fixed Talbot rule with m nodes.
func talbot(t float64, m, size int, transform Transform) ([]float64, error) {
	r := 2 * float64(m) / (5 * t)

	f0, err := eval(complex(r, 0), size, transform)
	if err != nil {
		return nil, err
	}

	out := make([]float64, size)
	e0 := math.Exp(r * t)
	for i, v := range f0 {
		out[i] = 0.5 * real(v) * e0
	}

	for k := 1; k < m; k++ {
		theta := float64(k) * math.Pi / float64(m)
		cot := 1 / math.Tan(theta)
		s := complex(r*theta*cot, r*theta)
		sigma := theta + (theta*cot-1)*cot
		w := cmplx.Exp(complex(t, 0)*s) * complex(1, sigma)

		fk, err := eval(s, size, transform)
		if err != nil {
			return nil, err
		}
		for i, v := range fk {
			out[i] += real(w * v)
		}
	}

	scale := r / float64(m)
	for i := range out {
		out[i] *= scale
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, serrors.With(serrors.ErrConvergence, "talbot inversion at t=%g produced %g", t, out[i])
		}
	}

	return out, nil
}

func eval(s complex128, size int, transform Transform) ([]complex128, error) {
	v, err := transform(s)
	if err != nil {
		return nil, err
	}
	if len(v) != size {
		return nil, serrors.With(serrors.ErrInternal, "transform returned %d values, want %d", len(v), size)
	}

	return v, nil
}
