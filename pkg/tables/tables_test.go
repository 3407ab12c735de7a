package tables_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"wellflow/pkg/serrors"
	"wellflow/pkg/tables"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWriteMatchesSavetxtLayout(t *testing.T) {
	var buf bytes.Buffer
	m := mat.NewDense(2, 2, []float64{1, -0.5, 0.25, 0})
	require.NoError(t, tables.Write(&buf, m, "storage, trans_gmean"))

	want := "# storage, trans_gmean\n" +
		"1.000000000000000000e+00 -5.000000000000000000e-01\n" +
		"2.500000000000000000e-01 0.000000000000000000e+00\n"
	require.Equal(t, want, buf.String())
}

func TestReadNumpyOutput(t *testing.T) {
	in := `# storage, trans_gmean, var, len_scale, hurst
1.000000000000000048e-04
1.000000000000000048e-04

2.250000000000000000e+00
1.000000000000000000e+01
5.000000000000000000e-01
`
	tab, err := tables.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"storage, trans_gmean, var, len_scale, hurst"}, tab.Header)

	v, err := tab.Vector()
	require.NoError(t, err)
	require.Equal(t, []float64{1e-4, 1e-4, 2.25, 10, 0.5}, v)
}

func TestReadRowVectorAndInlineComment(t *testing.T) {
	tab, err := tables.Read(strings.NewReader("1 2 3 # trailing\n"))
	require.NoError(t, err)

	v, err := tab.Vector()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, v)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "only header", in: "# a\n# b\n"},
		{name: "ragged", in: "1 2\n3\n"},
		{name: "not a number", in: "1 x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tables.Read(strings.NewReader(tt.in))
			require.ErrorIs(t, err, serrors.ErrInvalidArgument)
		})
	}
}

func TestVectorRejectsMatrix(t *testing.T) {
	tab, err := tables.Read(strings.NewReader("1 2\n3 4\n"))
	require.NoError(t, err)

	_, err = tab.Vector()
	require.ErrorIs(t, err, serrors.ErrInvalidArgument)
}

func TestSaveLoadFiles(t *testing.T) {
	dir := t.TempDir()

	head := mat.NewDense(3, 2, []float64{-0.1, -0.2, -0.3, -0.4, -0.5, -0.6})
	path := filepath.Join(dir, "rad_mean_head.txt")
	require.NoError(t, tables.Save(path, head, ""))

	tab, err := tables.Load(path)
	require.NoError(t, err)
	require.Empty(t, tab.Header)
	require.True(t, mat.Equal(head, tab.Data))

	times := []float64{10, 600, 36000}
	tpath := filepath.Join(dir, "time.txt")
	require.NoError(t, tables.SaveVector(tpath, times, ""))
	got, err := tables.LoadVector(tpath)
	require.NoError(t, err)
	require.Equal(t, times, got)

	require.ErrorIs(t, tables.SaveVector(tpath, nil, ""), serrors.ErrInvalidArgument)

	_, err = tables.Load(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
