package ensemble

import (
	"context"
	"fmt"
	"path/filepath"

	"wellflow/pkg/logger"
	"wellflow/pkg/tables"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// MeanResult is the outcome of one parameter set.
type MeanResult struct {
	// Path is the parameter set directory relative to the root.
	Path string
	// Members is the number of averaged members.
	Members int
	// Written is false for empty ensembles.
	Written bool
}

// MeanReport lists the averaged parameter sets and the skipped members.
type MeanReport struct {
	Sets   []MeanResult
	Failed []Failure
}

// Mean averages the member heads of every parameter set in [first, last]
// into paraNNNN/rad_mean_head.txt. Members that cannot be read or do not
// match the time and radius axes are skipped and reported.
func Mean(ctx context.Context, root string, first, last int) (*MeanReport, error) {
	times, radii, err := grid(root)
	if err != nil {
		return nil, err
	}
	dirs, err := paraSets(root, first, last)
	if err != nil {
		return nil, err
	}

	report := &MeanReport{}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, failed, err := meanSet(ctx, root, dir, len(times), len(radii))
		if err != nil {
			return report, err
		}
		report.Sets = append(report.Sets, res)
		report.Failed = append(report.Failed, failed...)
	}

	return report, nil
}

func meanSet(ctx context.Context, root, dir string, nt, nr int) (MeanResult, []Failure, error) {
	res := MeanResult{Path: rel(root, dir)}
	ctx = logger.WithFields(ctx, zap.String("paraSet", res.Path))

	seeds, err := filepath.Glob(filepath.Join(dir, seedGlob))
	if err != nil {
		return res, nil, fmt.Errorf("could not list members: %w", err)
	}

	var (
		failed []Failure
		sum    = mat.NewDense(nt, nr, nil)
	)
	for _, seed := range dirDirs(seeds) {
		head, err := tables.Load(filepath.Join(seed, headFile))
		if err == nil {
			rows, cols := head.Data.Dims()
			err = checkShape(rows, cols, nt, nr)
		}
		if err != nil {
			failed = append(failed, Failure{Path: rel(root, seed), Err: err})
			logger.Warn(ctx, "skipping ensemble member", zap.String("member", rel(root, seed)), zap.Error(err))

			continue
		}

		sum.Add(sum, head.Data)
		res.Members++
		if res.Members%50 == 0 {
			logger.Debug(ctx, "members averaged", zap.Int("members", res.Members))
		}
	}

	if res.Members == 0 {
		logger.Info(ctx, "empty ensemble skipped")

		return res, failed, nil
	}

	sum.Scale(1/float64(res.Members), sum)
	if err := tables.Save(filepath.Join(dir, headFile), sum, ""); err != nil {
		return res, failed, fmt.Errorf("could not save ensemble mean: %w", err)
	}
	res.Written = true
	logger.Info(ctx, "ensemble mean written", zap.Int("members", res.Members), zap.Int("failed", len(failed)))

	return res, failed, nil
}
