package drawdown_test

import (
	"context"
	"math"
	"testing"

	"wellflow/internal/drawdown"
	"wellflow/pkg/grf"
	"wellflow/pkg/metrics"
	"wellflow/pkg/reference"
	"wellflow/pkg/serrors"
	"wellflow/pkg/upscaling"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	trans = 1e-4
	stor  = 1e-4
	rate  = -1e-4
)

func newService(t *testing.T, reg prometheus.Registerer) drawdown.Service {
	t.Helper()

	var m *metrics.Solver
	if reg != nil {
		var err error
		m, err = metrics.NewSolver(reg)
		require.NoError(t, err)
	}

	opts := drawdown.DefaultOptions()
	opts.Solver.Workers = 4
	s, err := drawdown.New(opts, m)
	require.NoError(t, err)

	return s
}

func heterogeneous() upscaling.Statistics {
	return upscaling.Statistics{GeoMean: trans, Variance: 1, LenScale: 10, Hurst: 0.5, Dim: 2}
}

func TestExtTheisHomogeneousIsTheis(t *testing.T) {
	s := newService(t, nil)

	times := []float64{10, 600, 36000}
	radii := []float64{0.1, 1, 10}
	field, err := s.ExtTheis(context.Background(), drawdown.Request{
		Kind:     upscaling.KindGaussian,
		Stats:    upscaling.Statistics{GeoMean: trans, LenScale: 10, Dim: 2},
		Storage:  stor,
		Scenario: grf.Scenario{Rate: rate},
		Times:    times,
		Radii:    radii,
	})
	require.NoError(t, err)

	for i, at := range times {
		for j, r := range radii {
			want, err := reference.Theis(rate, trans, stor, r, at)
			require.NoError(t, err)
			require.InDelta(t, want, field.At(i, j), 1e-6*math.Abs(want), "t=%g r=%g", at, r)
		}
	}
}

func TestProfile(t *testing.T) {
	s := newService(t, nil)

	tests := []struct {
		name      string
		scenario  grf.Scenario
		parts     int
		wantZones int
	}{
		{name: "unbounded", scenario: grf.Scenario{Rate: rate}, parts: 30, wantZones: 30},
		{name: "bounded", scenario: grf.Scenario{Rate: rate, WellRadius: 0.1, OuterRadius: 1000}, parts: 8, wantZones: 8},
		{name: "default parts", scenario: grf.Scenario{Rate: rate}, wantZones: 30},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, kind := range []upscaling.Kind{upscaling.KindGaussian, upscaling.KindTPL} {
				prof, err := s.Profile(context.Background(), drawdown.Request{
					Kind:     kind,
					Stats:    heterogeneous(),
					Storage:  stor,
					Scenario: tc.scenario,
					Parts:    tc.parts,
				})
				require.NoError(t, err)
				require.Equal(t, tc.wantZones, prof.Steps.Len())
				require.True(t, prof.Steps.HasStorage())
				require.InDelta(t, tc.scenario.WellRadius, prof.Steps.Inner(), 0)
				require.Greater(t, prof.Cutoff, 0.0)
				require.Less(t, prof.NearWell, prof.FarField)

				// zones rise from the near-well value to the far field
				values := prof.Steps.Values()
				for i := 1; i < len(values); i++ {
					require.GreaterOrEqual(t, values[i], values[i-1])
				}
				if tc.scenario.OuterRadius == 0 {
					require.True(t, math.IsInf(prof.Steps.Outer(), 1))
					require.InDelta(t, prof.FarField, values[len(values)-1], 0)
				}
			}
		})
	}
}

func TestProfileSingleZoneWithoutCutoff(t *testing.T) {
	s := newService(t, nil)

	// the law is within the far error everywhere, so the requested zones collapse
	tests := []struct {
		name     string
		kind     upscaling.Kind
		variance float64
		well     float64
		parts    int
	}{
		{name: "homogeneous tpl", kind: upscaling.KindTPL},
		{name: "near zero variance", kind: upscaling.KindGaussian, variance: 1e-9, parts: 8},
		{name: "cut-off inside the well", kind: upscaling.KindTPL, variance: 1e-9, well: 0.1, parts: 12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prof, err := s.Profile(context.Background(), drawdown.Request{
				Kind:     tc.kind,
				Stats:    upscaling.Statistics{GeoMean: trans, Variance: tc.variance, LenScale: 10, Hurst: 0.5, Dim: 2},
				Storage:  stor,
				Scenario: grf.Scenario{Rate: rate, WellRadius: tc.well},
				Parts:    tc.parts,
			})
			require.NoError(t, err)
			require.Equal(t, 1, prof.Steps.Len())
			require.LessOrEqual(t, prof.Cutoff, tc.well)
			require.InDelta(t, tc.well, prof.Steps.Inner(), 0)
			require.True(t, math.IsInf(prof.Steps.Outer(), 1))
			require.InDelta(t, prof.FarField, prof.Steps.Values()[0], 1e-12*prof.FarField)
		})
	}

	// the transient solve runs on the collapsed profile
	field, err := s.ExtTheis(context.Background(), drawdown.Request{
		Kind:     upscaling.KindGaussian,
		Stats:    upscaling.Statistics{GeoMean: trans, Variance: 1e-9, LenScale: 10, Dim: 2},
		Storage:  stor,
		Scenario: grf.Scenario{Rate: rate},
		Parts:    8,
		Times:    []float64{600},
		Radii:    []float64{1},
	})
	require.NoError(t, err)
	want, err := reference.Theis(rate, trans, stor, 1, 600)
	require.NoError(t, err)
	require.InDelta(t, want, field.At(0, 0), 1e-6*math.Abs(want))
}

func TestExtThiemHomogeneousIsThiem(t *testing.T) {
	s := newService(t, nil)

	radii := []float64{0.5, 1, 10, 50}
	head, err := s.ExtThiem(context.Background(), drawdown.Request{
		Kind:     upscaling.KindGaussian,
		Stats:    upscaling.Statistics{GeoMean: trans, LenScale: 10, Dim: 2},
		Scenario: grf.Scenario{Rate: rate, OuterRadius: 100},
		Radii:    radii,
	})
	require.NoError(t, err)
	require.Len(t, head, len(radii))

	for i, r := range radii {
		want, err := reference.Thiem(rate, trans, r, 100)
		require.NoError(t, err)
		require.InDelta(t, want, head[i], 1e-8*math.Abs(want), "r=%g", r)
	}
}

func TestExtThiemNeedsFiniteBoundary(t *testing.T) {
	s := newService(t, nil)

	_, err := s.ExtThiem(context.Background(), drawdown.Request{
		Kind:     upscaling.KindGaussian,
		Stats:    heterogeneous(),
		Scenario: grf.Scenario{Rate: rate},
		Radii:    []float64{1},
	})
	require.Error(t, err)
}

func TestLaw(t *testing.T) {
	s := newService(t, nil)

	res, err := s.Law(context.Background(), drawdown.LawRequest{
		Kind:  upscaling.KindGaussian,
		Stats: heterogeneous(),
		Radii: []float64{0, 10, 1e6},
	})
	require.NoError(t, err)
	require.Len(t, res.Values, 3)
	require.InDelta(t, res.NearWell, res.Values[0], 1e-12*res.NearWell)
	require.InDelta(t, res.FarField, res.Values[2], 1e-9*res.FarField)
	require.InDelta(t, trans*math.Exp(-0.5), res.NearWell, 1e-15)
	require.InDelta(t, trans, res.FarField, 1e-15)

	// the default far error of 1% holds at the cut-off
	law, err := upscaling.New(upscaling.KindGaussian, heterogeneous())
	require.NoError(t, err)
	e, err := law.RelativeError(res.Cutoff)
	require.NoError(t, err)
	require.LessOrEqual(t, e, 0.01+1e-9)
}

func TestRejectsInvalidRequests(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  drawdown.Request
		kind error
	}{
		{
			name: "negative variance",
			req: drawdown.Request{
				Kind:    upscaling.KindGaussian,
				Stats:   upscaling.Statistics{GeoMean: trans, Variance: -1, LenScale: 10, Dim: 2},
				Storage: stor,
				Times:   []float64{10},
				Radii:   []float64{1},
			},
			kind: serrors.ErrDomain,
		},
		{
			name: "hurst out of range",
			req: drawdown.Request{
				Kind:    upscaling.KindTPL,
				Stats:   upscaling.Statistics{GeoMean: trans, Variance: 1, LenScale: 10, Hurst: 2, Dim: 2},
				Storage: stor,
				Times:   []float64{10},
				Radii:   []float64{1},
			},
			kind: serrors.ErrDomain,
		},
		{
			name: "missing storage",
			req: drawdown.Request{
				Kind:  upscaling.KindGaussian,
				Stats: heterogeneous(),
				Times: []float64{10},
				Radii: []float64{1},
			},
			kind: serrors.ErrInvalidArgument,
		},
		{
			name: "unknown kind",
			req: drawdown.Request{
				Stats:   heterogeneous(),
				Storage: stor,
				Times:   []float64{10},
				Radii:   []float64{1},
			},
			kind: serrors.ErrInvalidArgument,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ExtTheis(ctx, tc.req)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestMetricsObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newService(t, reg)

	_, err := s.Profile(context.Background(), drawdown.Request{
		Kind:     upscaling.KindGaussian,
		Stats:    heterogeneous(),
		Scenario: grf.Scenario{Rate: rate},
	})
	require.NoError(t, err)
	_, err = s.Profile(context.Background(), drawdown.Request{Stats: heterogeneous()})
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Equal(t, "wellflow_solver_duration_seconds", families[0].GetName())

	outcomes := map[string]uint64{}
	for _, m := range families[0].GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "outcome" {
				outcomes[l.GetValue()] += m.GetHistogram().GetSampleCount()
			}
		}
	}
	require.Equal(t, map[string]uint64{"ok": 1, "invalid_argument": 1}, outcomes)
}
