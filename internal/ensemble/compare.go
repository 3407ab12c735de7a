package ensemble

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"wellflow/internal/drawdown"
	"wellflow/pkg/domain"
	"wellflow/pkg/grf"
	"wellflow/pkg/logger"
	"wellflow/pkg/serrors"
	"wellflow/pkg/tables"
	"wellflow/pkg/upscaling"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Comparison is the outcome of one parameter set.
type Comparison struct {
	// Path is the parameter set directory relative to the root.
	Path   string
	Params domain.ParameterSet
	// MaxRelDiff is max|rt - et| / max(0.5(|rt| + |et|)) over the window.
	MaxRelDiff float64
}

// CompareReport lists the compared parameter sets and the failed ones.
type CompareReport struct {
	Sets   []Comparison
	Failed []Failure
}

// window holds the selected axes and their indices in the full grid.
type window struct {
	times, radii []float64
	ti, ri       []int
}

func newWindow(times, radii []float64, opts Options) (window, error) {
	var w window
	for i, t := range times {
		if t > opts.TimeMin {
			w.times = append(w.times, t)
			w.ti = append(w.ti, i)
		}
	}
	for j, r := range radii {
		if r > opts.RadMin && r < opts.RadMax {
			w.radii = append(w.radii, r)
			w.ri = append(w.ri, j)
		}
	}
	if len(w.times) == 0 || len(w.radii) == 0 {
		return w, serrors.With(serrors.ErrInvalidArgument,
			"comparison window is empty: %d times above %g, %d radii in (%g, %g)",
			len(w.times), opts.TimeMin, len(w.radii), opts.RadMin, opts.RadMax)
	}

	return w, nil
}

// pick copies the window out of a full head table.
func (w window) pick(full mat.Matrix) *mat.Dense {
	out := mat.NewDense(len(w.ti), len(w.ri), nil)
	for i, ti := range w.ti {
		for j, rj := range w.ri {
			out.Set(i, j, full.At(ti, rj))
		}
	}

	return out
}

// Compare solves the effective drawdown of every parameter set in
// [opts.First, opts.Last] and measures its distance to the ensemble mean
// inside the configured time and radius window. Parameter sets without a
// readable mean or whose solve fails are reported in Failed.
func Compare(ctx context.Context, root string, dd drawdown.Service, opts Options) (*CompareReport, error) {
	times, radii, err := grid(root)
	if err != nil {
		return nil, err
	}
	win, err := newWindow(times, radii, opts)
	if err != nil {
		return nil, err
	}
	dirs, err := paraSets(root, opts.First, opts.Last)
	if err != nil {
		return nil, err
	}

	var (
		results = make([]Comparison, len(dirs))
		errs    = make([]error, len(dirs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, dir := range dirs {
		g.Go(func() error {
			results[i], errs[i] = compareSet(gctx, root, dir, len(times), len(radii), win, dd, opts)

			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &CompareReport{}
	for i := range dirs {
		if errs[i] != nil {
			report.Failed = append(report.Failed, Failure{Path: results[i].Path, Err: errs[i]})
			logger.Warn(ctx, "comparison failed", zap.String("paraSet", results[i].Path), zap.Error(errs[i]))

			continue
		}
		report.Sets = append(report.Sets, results[i])
	}

	return report, nil
}

func compareSet(
	ctx context.Context,
	root, dir string,
	nt, nr int,
	win window,
	dd drawdown.Service,
	opts Options,
) (Comparison, error) {
	res := Comparison{Path: rel(root, dir)}
	ctx = logger.WithFields(ctx, zap.String("paraSet", res.Path))

	params, err := LoadParameterSet(dir)
	if err != nil {
		return res, err
	}
	res.Params = params

	mean, err := tables.Load(filepath.Join(dir, headFile))
	if err != nil {
		return res, err
	}
	rows, cols := mean.Data.Dims()
	if err := checkShape(rows, cols, nt, nr); err != nil {
		return res, err
	}
	rt := win.pick(mean.Data)

	kind := opts.Kind
	if kind == 0 {
		kind = upscaling.KindTPL
	}
	field, err := dd.ExtTheis(ctx, drawdown.Request{
		Kind: kind,
		Stats: upscaling.Statistics{
			GeoMean:  params.TransGMean,
			Variance: params.Variance,
			LenScale: params.LenScale,
			Hurst:    params.Hurst,
			Dim:      2,
		},
		Storage:  params.Storage,
		Scenario: grf.Scenario{Rate: opts.Rate},
		Prop:     opts.Prop,
		Parts:    opts.Parts,
		Times:    win.times,
		Radii:    win.radii,
	})
	if err != nil {
		return res, fmt.Errorf("could not solve effective drawdown: %w", err)
	}

	res.MaxRelDiff = RelDiff(rt, field.Head)
	logger.Info(ctx, "parameter set compared", zap.Float64("maxRelDiff", res.MaxRelDiff))

	return res, nil
}

// RelDiff returns max|a - b| / max(0.5(|a| + |b|)). Two zero tables have
// distance zero.
func RelDiff(a, b mat.Matrix) float64 {
	rows, cols := a.Dims()
	diff := make([]float64, 0, rows*cols)
	scale := make([]float64, 0, rows*cols)
	for i := range rows {
		for j := range cols {
			x, y := a.At(i, j), b.At(i, j)
			diff = append(diff, math.Abs(x-y))
			scale = append(scale, 0.5*(math.Abs(x)+math.Abs(y)))
		}
	}
	if len(diff) == 0 {
		return 0
	}

	d, s := floats.Max(diff), floats.Max(scale)
	if s == 0 {
		return 0
	}

	return d / s
}
