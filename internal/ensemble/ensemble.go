// Package ensemble post-processes simulated drawdown ensembles stored as text
// tables and compares their means with the effective drawdown.
//
// The layout below a root directory is
//
//	time.txt, rad.txt
//	paraNNNN/para.txt
//	paraNNNN/seedNNNN/rad_mean_head.txt
//
// where every head table has one row per time and one column per radius.
package ensemble

import (
	"fmt"
	"os"
	"path/filepath"

	"wellflow/internal/config"
	"wellflow/pkg/domain"
	"wellflow/pkg/serrors"
	"wellflow/pkg/tables"
	"wellflow/pkg/upscaling"
)

const (
	timeFile = "time.txt"
	radFile  = "rad.txt"
	paraFile = "para.txt"
	headFile = "rad_mean_head.txt"
	paraGlob = "para[0-9]*"
	seedGlob = "seed[0-9]*"
	allSets  = -1
)

// Options configure the comparison against the effective drawdown.
type Options struct {
	// TimeMin excludes times at or below it.
	TimeMin float64
	// RadMin and RadMax exclude radii outside the open interval between them.
	RadMin, RadMax float64
	// Rate is the pumping rate of the simulations.
	Rate float64
	// Prop is the proportionality factor of the law.
	Prop float64
	// Parts is the number of zones.
	Parts int
	// Kind is the law of the simulated fields.
	Kind upscaling.Kind
	// First and Last restrict the parameter sets by their position. Last < 0
	// means no upper limit.
	First, Last int
	// Workers bounds the number of parameter sets compared concurrently.
	Workers int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		TimeMin: cfg.Ensemble.TimeMin,
		RadMin:  cfg.Ensemble.RadMin,
		RadMax:  cfg.Ensemble.RadMax,
		Rate:    cfg.Ensemble.Rate,
		Prop:    cfg.Ensemble.Prop,
		Parts:   cfg.Ensemble.Parts,
		Kind:    upscaling.KindTPL,
		Last:    allSets,
		Workers: 1,
	}
}

// Failure records an item that was skipped.
type Failure struct {
	// Path is the directory of the failed item relative to the root.
	Path string
	Err  error
}

func (f Failure) String() string { return fmt.Sprintf("%s: %v", f.Path, f.Err) }

// grid reads the shared time and radius axes.
func grid(root string) (times, radii []float64, err error) {
	if times, err = tables.LoadVector(filepath.Join(root, timeFile)); err != nil {
		return nil, nil, fmt.Errorf("could not load times: %w", err)
	}
	if radii, err = tables.LoadVector(filepath.Join(root, radFile)); err != nil {
		return nil, nil, fmt.Errorf("could not load radii: %w", err)
	}

	return times, radii, nil
}

// paraSets lists the parameter set directories in [first, last].
func paraSets(root string, first, last int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, paraGlob))
	if err != nil {
		return nil, fmt.Errorf("could not list parameter sets: %w", err)
	}

	var dirs []string
	for i, m := range dirDirs(matches) {
		if i < first || (last >= 0 && i > last) {
			continue
		}
		dirs = append(dirs, m)
	}

	return dirs, nil
}

// dirDirs keeps the directories among paths, preserving order.
func dirDirs(paths []string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			out = append(out, p)
		}
	}

	return out
}

// LoadParameterSet reads paraNNNN/para.txt.
func LoadParameterSet(dir string) (domain.ParameterSet, error) {
	v, err := tables.LoadVector(filepath.Join(dir, paraFile))
	if err != nil {
		return domain.ParameterSet{}, err
	}

	return domain.ParameterSetFromValues(v)
}

// SaveParameterSet writes paraNNNN/para.txt, creating dir when needed.
func SaveParameterSet(dir string, p domain.ParameterSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}

	return tables.SaveVector(filepath.Join(dir, paraFile), p.Values(), domain.ParameterHeader)
}

func checkShape(rows, cols, times, radii int) error {
	if rows != times || cols != radii {
		return serrors.With(serrors.ErrInvalidArgument,
			"head table has shape %dx%d, expected %dx%d", rows, cols, times, radii)
	}

	return nil
}

func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}

	return path
}
