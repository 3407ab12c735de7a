package zonation_test

import (
	"math"
	"testing"

	"wellflow/pkg/serrors"
	"wellflow/pkg/zonation"

	"github.com/stretchr/testify/require"
)

func TestStepProfileValueAt(t *testing.T) {
	p, err := zonation.NewStepProfile([]float64{0.1, 1, 3, math.Inf(1)}, []float64{2e-5, 5e-5, 1e-4})
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())
	require.Equal(t, 0.1, p.Inner())
	require.True(t, math.IsInf(p.Outer(), 1))

	tests := []struct {
		r    float64
		want float64
	}{
		{r: 0, want: 2e-5},
		{r: 0.1, want: 2e-5},
		{r: 0.999, want: 2e-5},
		{r: 1, want: 5e-5},
		{r: 2.5, want: 5e-5},
		{r: 3, want: 1e-4},
		{r: 1e9, want: 1e-4},
		{r: math.Inf(1), want: 1e-4},
	}
	for _, tt := range tests {
		got, err := p.ValueAt(tt.r)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "r=%g", tt.r)
	}

	_, err = p.ValueAt(-1)
	require.ErrorIs(t, err, serrors.ErrDomain)
}

func TestStepProfileIsStepFunction(t *testing.T) {
	bounds := []float64{0, 0.5, 2, 7, 20}
	values := []float64{1, 2, 3, 4}
	p, err := zonation.NewStepProfile(bounds, values)
	require.NoError(t, err)

	for i := range values {
		lo, hi := bounds[i], bounds[i+1]
		for k := range 50 {
			r := lo + (hi-lo)*float64(k)/50
			got, err := p.ValueAt(r)
			require.NoError(t, err)
			require.Equal(t, values[i], got, "r=%g", r)
		}
		if i > 0 {
			below, err := p.ValueAt(math.Nextafter(lo, 0))
			require.NoError(t, err)
			at, err := p.ValueAt(lo)
			require.NoError(t, err)
			require.NotEqual(t, below, at, "no jump at %g", lo)
		}
	}

	// beyond the last finite boundary the outer value holds
	got, err := p.ValueAt(100)
	require.NoError(t, err)
	require.Equal(t, 4.0, got)
}

func TestStepProfileStorage(t *testing.T) {
	p, err := zonation.NewStepProfile([]float64{0, 3, 10}, []float64{2e-5, 1e-4})
	require.NoError(t, err)
	require.False(t, p.HasStorage())
	require.Nil(t, p.Storage())

	_, err = p.StorageAt(1)
	require.ErrorIs(t, err, serrors.ErrInvalidArgument)

	_, err = p.WithStorage([]float64{1e-4})
	require.ErrorIs(t, err, serrors.ErrInvalidArgument)

	ps, err := p.WithStorage([]float64{1e-4, 2e-4})
	require.NoError(t, err)
	require.True(t, ps.HasStorage())
	require.False(t, p.HasStorage())

	s, err := ps.StorageAt(5)
	require.NoError(t, err)
	require.Equal(t, 2e-4, s)

	pu, err := p.WithUniformStorage(1e-3)
	require.NoError(t, err)
	require.Equal(t, []float64{1e-3, 1e-3}, pu.Storage())

	require.Equal(t, []zonation.RadialZone{
		{Inner: 0, Outer: 3, Value: 2e-5, Storage: 1e-4},
		{Inner: 3, Outer: 10, Value: 1e-4, Storage: 2e-4},
	}, ps.Zones())
}

func TestStepProfileIsImmutable(t *testing.T) {
	bounds := []float64{0, 1, 2}
	values := []float64{5, 6}
	p, err := zonation.NewStepProfile(bounds, values)
	require.NoError(t, err)

	bounds[1] = 1.5
	values[0] = 50
	p.Values()[1] = 60

	require.Equal(t, []float64{0, 1, 2}, p.Bounds())
	require.Equal(t, []float64{5, 6}, p.Values())
}

func TestNewStepProfileErrors(t *testing.T) {
	tests := []struct {
		name   string
		bounds []float64
		values []float64
		kind   error
	}{
		{name: "length mismatch", bounds: []float64{0, 1}, values: []float64{1, 2}, kind: serrors.ErrInvalidArgument},
		{name: "no zones", bounds: []float64{0}, values: nil, kind: serrors.ErrInvalidArgument},
		{name: "negative start", bounds: []float64{-0.5, 1}, values: []float64{1}, kind: serrors.ErrDomain},
		{name: "unsorted", bounds: []float64{0, 2, 1}, values: []float64{1, 2}, kind: serrors.ErrInvalidArgument},
		{name: "nan value", bounds: []float64{0, 1}, values: []float64{math.NaN()}, kind: serrors.ErrDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := zonation.NewStepProfile(tt.bounds, tt.values)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}
