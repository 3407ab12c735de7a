package grf_test

import (
	"math"
	"testing"

	"wellflow/pkg/grf"
	"wellflow/pkg/reference"
	"wellflow/pkg/serrors"
	"wellflow/pkg/upscaling"
	"wellflow/pkg/zonation"

	"github.com/stretchr/testify/require"
)

func TestSteadyHomogeneous(t *testing.T) {
	s := newSolver(t)
	const rb = 25.0
	radii := []float64{0.1, 1, 10, rb}

	p, err := zonation.NewStepProfile([]float64{0, rb}, []float64{trans})
	require.NoError(t, err)

	got, err := s.Steady(grf.Scenario{Rate: rate, Dim: 2, OuterRadius: rb}, p, radii)
	require.NoError(t, err)
	for j, r := range radii {
		want, err := reference.Thiem(rate, trans, r, rb)
		require.NoError(t, err)
		require.InDelta(t, want, got[j], 1e-12*math.Abs(want)+1e-300, "r=%g", r)
	}

	// spherical flow: Q/(4πT)·(1/r - 1/r_b)
	got, err = s.Steady(grf.Scenario{Rate: rate, Dim: 3, OuterRadius: rb}, p, radii[:3])
	require.NoError(t, err)
	for j, r := range radii[:3] {
		want := rate / (4 * math.Pi * trans) * (1/r - 1/rb)
		require.InEpsilon(t, want, got[j], 1e-12, "r=%g", r)
	}
}

func TestSteadyZoned(t *testing.T) {
	s := newSolver(t)
	p, err := zonation.NewStepProfile([]float64{0, 1, 4, 10}, []float64{2e-5, 5e-5, 1e-4})
	require.NoError(t, err)

	got, err := s.Steady(grf.Scenario{Rate: rate, Dim: 2, OuterRadius: 10}, p, []float64{0.5, 2})
	require.NoError(t, err)

	pre := rate / (2 * math.Pi)
	require.InEpsilon(t, pre*(math.Log(2)/2e-5+math.Log(4)/5e-5+math.Log(2.5)/1e-4), got[0], 1e-12)
	require.InEpsilon(t, pre*(math.Log(2)/5e-5+math.Log(2.5)/1e-4), got[1], 1e-12)
}

func TestSteadyLawMatchesConstant(t *testing.T) {
	s := newSolver(t)
	for _, dim := range []float64{1, 1.5, 2, 3} {
		sc := grf.Scenario{Rate: rate, Dim: dim, OuterRadius: 30, LatExt: 2}
		p, err := zonation.NewStepProfile([]float64{0, 30}, []float64{trans})
		require.NoError(t, err)

		radii := []float64{0.05, 1, 12}
		want, err := s.Steady(sc, p, radii)
		require.NoError(t, err)
		got, err := s.SteadyLaw(sc, zonation.Constant(trans), radii)
		require.NoError(t, err)
		for j := range radii {
			require.InEpsilon(t, want[j], got[j], 1e-10, "d=%g r=%g", dim, radii[j])
		}
	}
}

func TestSteadyLawMatchesFineZonation(t *testing.T) {
	s := newSolver(t)
	const rb = 20.0
	st := upscaling.Statistics{GeoMean: 1e-4, Variance: 2, LenScale: 5, Hurst: 0.5, Dim: 2}
	law, err := upscaling.New(upscaling.KindTPL, st)
	require.NoError(t, err)

	bounds, err := zonation.Partition(0, rb, 2000, zonation.Linear)
	require.NoError(t, err)
	values, err := zonation.Average(law, bounds, st.Dim)
	require.NoError(t, err)
	p, err := zonation.NewStepProfile(bounds, values)
	require.NoError(t, err)

	sc := grf.Scenario{Rate: rate, Dim: st.Dim, OuterRadius: rb}
	radii := []float64{0.3, 1, 5, 15}
	want, err := s.Steady(sc, p, radii)
	require.NoError(t, err)
	got, err := s.SteadyLaw(sc, law, radii)
	require.NoError(t, err)
	for j := range radii {
		require.InEpsilon(t, want[j], got[j], 1e-3, "r=%g", radii[j])
	}
}

func TestSteadyRejectsInvalidInput(t *testing.T) {
	s := newSolver(t)
	p, err := zonation.NewStepProfile([]float64{0, 10}, []float64{trans})
	require.NoError(t, err)

	tests := []struct {
		name  string
		sc    grf.Scenario
		radii []float64
		kind  error
	}{
		{name: "unbounded", sc: grf.Scenario{Rate: rate, Dim: 2}, radii: []float64{1}, kind: serrors.ErrInvalidArgument},
		{name: "no-flow", sc: grf.Scenario{Rate: rate, Dim: 2, OuterRadius: 10, Boundary: grf.NoFlow}, radii: []float64{1}, kind: serrors.ErrInvalidArgument},
		{name: "beyond boundary", sc: grf.Scenario{Rate: rate, Dim: 2, OuterRadius: 10}, radii: []float64{12}, kind: serrors.ErrDomain},
		{name: "at the line source", sc: grf.Scenario{Rate: rate, Dim: 2, OuterRadius: 10}, radii: []float64{0}, kind: serrors.ErrDomain},
		{name: "profile mismatch", sc: grf.Scenario{Rate: rate, Dim: 2, OuterRadius: 12}, radii: []float64{1}, kind: serrors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Steady(tt.sc, p, tt.radii)
			require.ErrorIs(t, err, tt.kind)
		})
	}

	open, err := zonation.NewStepProfile([]float64{0, math.Inf(1)}, []float64{trans})
	require.NoError(t, err)
	_, err = s.Steady(grf.Scenario{Rate: rate, Dim: 2, OuterRadius: 10}, open, []float64{1})
	require.ErrorIs(t, err, serrors.ErrInvalidArgument)

	_, err = s.SteadyLaw(grf.Scenario{Rate: rate, Dim: 2}, zonation.Constant(trans), []float64{1})
	require.ErrorIs(t, err, serrors.ErrInvalidArgument)
	_, err = s.SteadyLaw(grf.Scenario{Rate: rate, Dim: 2, OuterRadius: 10}, zonation.Constant(-1), []float64{1})
	require.ErrorIs(t, err, serrors.ErrDomain)
}

func TestParseBoundary(t *testing.T) {
	b, err := grf.ParseBoundary("no-flow")
	require.NoError(t, err)
	require.Equal(t, grf.NoFlow, b)
	require.Equal(t, "no-flow", b.String())

	b, err = grf.ParseBoundary("")
	require.NoError(t, err)
	require.Equal(t, grf.ConstantHead, b)

	_, err = grf.ParseBoundary("leaky")
	require.ErrorIs(t, err, serrors.ErrInvalidArgument)
}
