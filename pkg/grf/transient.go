package grf

import (
	"context"
	"math"
	"math/cmplx"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"wellflow/pkg/bessel"
	"wellflow/pkg/serrors"
	"wellflow/pkg/zonation"
)

// Transient returns the head at every (time, radius) pair. The profile holds
// transmissivity per zone and must carry storativity; its first and last
// boundaries must equal the well and outer radius of the scenario. Times are
// inverted concurrently and gathered by index.
func (s *Solver) Transient(ctx context.Context, sc Scenario, profile zonation.StepProfile, times, radii []float64) (*Field, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}
	zones, err := zonesOf(sc, profile, true)
	if err != nil {
		return nil, err
	}
	if err := checkRadii(sc, radii); err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, serrors.With(serrors.ErrInvalidArgument, "no observation times")
	}
	for _, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return nil, serrors.With(serrors.ErrDomain, "observation time must be finite and > 0, got %g", t)
		}
	}

	m := newModel(sc, zones)
	at := make([]int, len(radii))
	for j, r := range radii {
		if at[j], err = profile.Zone(r); err != nil {
			return nil, err
		}
	}
	transform := func(p complex128) ([]complex128, error) {
		return m.heads(p, radii, at)
	}

	nr := len(radii)
	data := make([]float64, len(times)*nr)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, t := range times {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := s.inverter.Invert(t, nr, transform)
			if err != nil {
				return err
			}
			copy(data[i*nr:(i+1)*nr], row)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Field{
		Times: append([]float64(nil), times...),
		Radii: append([]float64(nil), radii...),
		Head:  mat.NewDense(len(times), nr, data),
	}, nil
}

// model is the Laplace-domain system of a zoned scenario.
type model struct {
	sc    Scenario
	zones []zone
	nu    float64
	mu    float64
	flux  float64
}

func newModel(sc Scenario, zones []zone) *model {
	nu := 1 - sc.Dim/2

	return &model{sc: sc, zones: zones, nu: nu, mu: math.Abs(nu), flux: sc.fluxFactor()}
}

// basis holds the scaled zone solutions û1 = r^ν·I_μ(qr)·e^{-q·outer},
// û2 = r^ν·K_μ(qr)·e^{q·inner} and their radial derivatives.
type basis struct {
	u1, u2 complex128
	d1, d2 complex128
}

func (m *model) basisAt(i int, q complex128, r float64) (basis, error) {
	zn := m.zones[i]
	z := q * complex(r, 0)
	p, err := bessel.Scaled(m.mu, z)
	if err != nil {
		return basis{}, err
	}

	// K_{μ+1} - (2·max(ν,0)/z)·K_μ = K_{d/2}
	kd := p.K1
	if m.nu > 0 {
		pd, err := bessel.Scaled(m.sc.Dim/2, z)
		if err != nil {
			return basis{}, err
		}
		kd = pd.K
	}

	rn := complex(math.Pow(r, m.nu), 0)
	eK := cmplx.Exp(-q * complex(r-zn.inner, 0))
	b := basis{
		u2: rn * p.K * eK,
		d2: -q * rn * kd * eK,
	}
	if !math.IsInf(zn.outer, 1) {
		eI := cmplx.Exp(q * complex(r-zn.outer, 0))
		b.u1 = rn * p.I * eI
		b.d1 = q * rn * (p.I1 + complex(2*math.Max(m.nu, 0), 0)/z*p.I) * eI
	}

	return b, nil
}

// coefficients solves for [A_1, B_1, ..., A_n, B_n] at Laplace parameter p.
func (m *model) coefficients(p complex128) ([]complex128, []complex128, error) {
	n := len(m.zones)
	qs := make([]complex128, n)
	for i, zn := range m.zones {
		qs[i] = cmplx.Sqrt(p * complex(zn.stor/zn.trans, 0))
	}

	sys := newBandSystem(2 * n)
	rate := complex(m.sc.Rate, 0)
	first := m.zones[0]

	// well: flux·T·r^{d-1}·h' = -Q/p
	if rw := m.sc.WellRadius; rw > 0 {
		b, err := m.basisAt(0, qs[0], rw)
		if err != nil {
			return nil, nil, err
		}
		sys.set(0, 0, b.d1)
		sys.set(0, 1, b.d2)
		sys.rhs[0] = -rate / (p * complex(m.flux*first.trans*math.Pow(rw, m.sc.Dim-1), 0))
	} else {
		f1, f2 := m.lineSourceFlux(qs[0], first.outer)
		sys.set(0, 0, f1)
		sys.set(0, 1, f2)
		sys.rhs[0] = -rate / (p * complex(m.flux*first.trans, 0))
	}

	// interfaces: continuity of head and of T·h'
	for k := 1; k < n; k++ {
		r := m.zones[k].inner
		in, err := m.basisAt(k-1, qs[k-1], r)
		if err != nil {
			return nil, nil, err
		}
		out, err := m.basisAt(k, qs[k], r)
		if err != nil {
			return nil, nil, err
		}
		rn := complex(math.Pow(r, m.nu), 0)
		ti, to := m.zones[k-1].trans, m.zones[k].trans
		tin, tout := complex(ti/(ti+to), 0), complex(to/(ti+to), 0)

		row := 2*k - 1
		sys.set(row, 2*k-2, in.u1/rn)
		sys.set(row, 2*k-1, in.u2/rn)
		sys.set(row, 2*k, -out.u1/rn)
		sys.set(row, 2*k+1, -out.u2/rn)

		sys.set(row+1, 2*k-2, tin*in.d1/rn)
		sys.set(row+1, 2*k-1, tin*in.d2/rn)
		sys.set(row+1, 2*k, -tout*out.d1/rn)
		sys.set(row+1, 2*k+1, -tout*out.d2/rn)
	}

	last := 2*n - 1
	if rb := m.sc.Outer(); math.IsInf(rb, 1) {
		sys.set(last, last-1, 1)
	} else {
		b, err := m.basisAt(n-1, qs[n-1], rb)
		if err != nil {
			return nil, nil, err
		}
		if m.sc.Boundary == NoFlow {
			sys.set(last, last-1, b.d1)
			sys.set(last, last, b.d2)
		} else {
			sys.set(last, last-1, b.u1)
			sys.set(last, last, b.u2)
		}
	}

	x, err := sys.solve()
	if err != nil {
		return nil, nil, err
	}

	return x, qs, nil
}

// lineSourceFlux returns lim r->0 of r^{d-1}·û' for both scaled solutions of
// the innermost zone.
func (m *model) lineSourceFlux(q complex128, outer float64) (complex128, complex128) {
	qn := cmplx.Pow(q, complex(m.nu, 0))
	f2 := -complex(math.Gamma(m.sc.Dim/2)*math.Pow(2, -m.nu), 0) * qn

	var f1 complex128
	if m.nu > 0 && !math.IsInf(outer, 1) {
		f1 = complex(math.Pow(2, 1-m.nu)/math.Gamma(m.nu), 0) * qn * cmplx.Exp(-q*complex(outer, 0))
	}

	return f1, f2
}

// heads evaluates the Laplace-domain head at every radius; at[j] is the zone
// of radii[j].
func (m *model) heads(p complex128, radii []float64, at []int) ([]complex128, error) {
	x, qs, err := m.coefficients(p)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(radii))
	for j, r := range radii {
		i := at[j]
		b, err := m.basisAt(i, qs[i], r)
		if err != nil {
			return nil, err
		}
		out[j] = x[2*i]*b.u1 + x[2*i+1]*b.u2
	}

	return out, nil
}
