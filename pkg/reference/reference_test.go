package reference_test

import (
	"math"
	"testing"

	"wellflow/pkg/reference"
	"wellflow/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestE1(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{x: 0.1, want: 1.8229239584193906},
		{x: 1, want: 0.21938393439552029},
		{x: 2, want: 0.04890051070806112},
		{x: 10, want: 4.156968929685324e-06},
	}
	for _, tt := range tests {
		got, err := reference.E1(tt.x)
		require.NoError(t, err)
		require.InEpsilon(t, tt.want, got, 1e-13, "x=%g", tt.x)
	}

	// continuity across the series and continued fraction branches
	lo, err := reference.E1(1 - 1e-12)
	require.NoError(t, err)
	hi, err := reference.E1(1 + 1e-12)
	require.NoError(t, err)
	require.InEpsilon(t, lo, hi, 1e-11)

	_, err = reference.E1(0)
	require.ErrorIs(t, err, serrors.ErrDomain)
}

func TestTheisLateTimeApproachesCooperJacob(t *testing.T) {
	const trans, stor, rate = 1e-4, 1e-4, -1e-4
	r, at := 0.1, 1e6
	got, err := reference.Theis(rate, trans, stor, r, at)
	require.NoError(t, err)

	u := r * r * stor / (4 * trans * at)
	want := rate / (4 * math.Pi * trans) * (-0.5772156649015329 - math.Log(u))
	require.InEpsilon(t, want, got, 1e-8)
	require.Less(t, got, 0.0)
}

func TestThiem(t *testing.T) {
	got, err := reference.Thiem(-1e-4, 1e-4, 1, 10)
	require.NoError(t, err)
	require.InEpsilon(t, -math.Log(10)/(2*math.Pi), got, 1e-14)

	at, err := reference.Thiem(-1e-4, 1e-4, 10, 10)
	require.NoError(t, err)
	require.Zero(t, at)
}

func TestBarkerReducesToTheis(t *testing.T) {
	const trans, stor, rate = 2e-4, 3e-4, -1e-4
	for _, r := range []float64{0.1, 1, 10} {
		for _, at := range []float64{10, 600, 36000} {
			want, err := reference.Theis(rate, trans, stor, r, at)
			require.NoError(t, err)
			got, err := reference.Barker(rate, trans, stor, r, at, 2, 1)
			require.NoError(t, err)
			require.InEpsilon(t, want, got, 1e-12, "r=%g t=%g", r, at)
		}
	}
}

func TestBarkerSphericalClosedForm(t *testing.T) {
	// in three dimensions h = Q/(4πTr)·erfc(√u)
	const trans, stor, rate = 1e-4, 1e-4, -1e-4
	for _, r := range []float64{0.5, 2, 8} {
		for _, at := range []float64{5, 100, 1e4} {
			u := stor * r * r / (4 * trans * at)
			want := rate / (4 * math.Pi * trans * r) * math.Erfc(math.Sqrt(u))
			got, err := reference.Barker(rate, trans, stor, r, at, 3, 1)
			require.NoError(t, err)
			require.InEpsilon(t, want, got, 1e-10, "r=%g t=%g", r, at)
		}
	}
}

func TestBarkerFractionalDimension(t *testing.T) {
	// linear flow: h = Q/(2T)·(2√(Tt/(πS))·e^{-u} - r·erfc(√u))
	const trans, stor, rate = 1e-4, 1e-4, -1e-4
	r, at := 2.0, 500.0
	u := stor * r * r / (4 * trans * at)
	want := rate / (2 * trans) * (2*math.Sqrt(trans*at/(math.Pi*stor))*math.Exp(-u) - r*math.Erfc(math.Sqrt(u)))
	got, err := reference.Barker(rate, trans, stor, r, at, 1, 1)
	require.NoError(t, err)
	require.InEpsilon(t, want, got, 1e-10)

	_, err = reference.Barker(rate, trans, stor, r, at, 0, 1)
	require.ErrorIs(t, err, serrors.ErrDomain)
}
