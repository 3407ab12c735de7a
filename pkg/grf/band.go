package grf

import (
	"math/cmplx"

	"wellflow/pkg/serrors"
)

const (
	lowerBand = 2
	upperBand = 2
)

// bandSystem is a square complex system whose non-zeros lie within two
// diagonals below and two above the main diagonal.
type bandSystem struct {
	n   int
	a   []complex128
	rhs []complex128
}

func newBandSystem(n int) *bandSystem {
	return &bandSystem{n: n, a: make([]complex128, n*n), rhs: make([]complex128, n)}
}

func (m *bandSystem) set(i, j int, v complex128) { m.a[i*m.n+j] = v }

func (m *bandSystem) at(i, j int) complex128 { return m.a[i*m.n+j] }

// solve overwrites rhs with the solution using Gaussian elimination with
// partial pivoting restricted to the band. Row exchanges widen the upper
// band to lowerBand+upperBand.
func (m *bandSystem) solve() ([]complex128, error) {
	n := m.n
	for k := range n {
		last := min(k+lowerBand, n-1)
		piv := k
		best := cmplx.Abs(m.at(k, k))
		for i := k + 1; i <= last; i++ {
			if v := cmplx.Abs(m.at(i, k)); v > best {
				piv, best = i, v
			}
		}
		if !(best > 0) || cmplx.IsInf(m.at(piv, k)) {
			return nil, serrors.With(serrors.ErrConvergence, "interface system is singular at column %d", k)
		}
		width := min(k+lowerBand+upperBand, n-1)
		if piv != k {
			for j := k; j <= width; j++ {
				pj, kj := m.at(piv, j), m.at(k, j)
				m.set(piv, j, kj)
				m.set(k, j, pj)
			}
			m.rhs[piv], m.rhs[k] = m.rhs[k], m.rhs[piv]
		}

		pivot := m.at(k, k)
		for i := k + 1; i <= last; i++ {
			f := m.at(i, k) / pivot
			if f == 0 {
				continue
			}
			m.set(i, k, 0)
			for j := k + 1; j <= width; j++ {
				m.set(i, j, m.at(i, j)-f*m.at(k, j))
			}
			m.rhs[i] -= f * m.rhs[k]
		}
	}

	x := m.rhs
	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		for j := i + 1; j <= min(i+lowerBand+upperBand, n-1); j++ {
			sum -= m.at(i, j) * x[j]
		}
		x[i] = sum / m.at(i, i)
	}

	return x, nil
}
