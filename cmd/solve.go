package main

import (
	"fmt"
	"io"

	"wellflow/internal/config"
	"wellflow/internal/drawdown"
	"wellflow/internal/sweep"
	"wellflow/pkg/domain"
	"wellflow/pkg/serrors"
	"wellflow/pkg/tables"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// specFlags binds the flags describing one parameter set, pumping test and model.
type specFlags struct {
	spec domain.RunSpec
}

func (f *specFlags) bindLaw(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	fs.StringVar(&f.spec.Model.Kind, "kind", "tpl", "law of the log-transmissivity covariance (gaussian, tpl)")
	fs.Float64Var(&f.spec.Params.TransGMean, "trans-gmean", 1e-4, "geometric mean of the transmissivity")
	fs.Float64Var(&f.spec.Params.Variance, "var", 1, "variance of the log-transmissivity")
	fs.Float64Var(&f.spec.Params.LenScale, "len-scale", 10, "correlation length")
	fs.Float64Var(&f.spec.Params.Hurst, "hurst", 0.5, "Hurst coefficient of the truncated power law")
	fs.Float64Var(&f.spec.Pumping.Dim, "dim", 2, "flow dimension")
	fs.Float64Var(&f.spec.Model.Prop, "prop", cfg.Solver.Prop, "proportionality factor of the law")
	fs.Float64Var(&f.spec.Model.NearWell, "near-well", 0, "near-well value, 0 derives it from the statistics")
	fs.Float64Var(&f.spec.Model.FarError, "far-error", cfg.Solver.FarError, "relative error defining the cut-off radius")
}

func (f *specFlags) bindAll(cmd *cobra.Command, cfg *config.Config) {
	f.bindLaw(cmd, cfg)

	fs := cmd.Flags()
	fs.Float64Var(&f.spec.Params.Storage, "storage", 1e-4, "storativity")
	fs.Float64Var(&f.spec.Pumping.Rate, "rate", -1e-4, "pumping rate, negative for extraction")
	fs.Float64Var(&f.spec.Pumping.WellRadius, "well-radius", 0, "radius of the pumping well")
	fs.Float64Var(&f.spec.Pumping.OuterRadius, "outer-radius", 0, "radius of the outer boundary, 0 for unbounded")
	fs.StringVar(&f.spec.Pumping.Boundary, "boundary", "", "outer boundary condition (constant-head, no-flow)")
	fs.Float64Var(&f.spec.Pumping.LatExt, "lat-ext", cfg.Solver.LatExt, "lateral extent of the aquifer")
	fs.IntVar(&f.spec.Model.Parts, "parts", cfg.Solver.Parts, "number of zones")
}

func (f *specFlags) lawRequest(radii []float64) (drawdown.LawRequest, error) {
	req, err := sweep.RequestFromSpec(f.spec)
	if err != nil {
		return drawdown.LawRequest{}, err
	}

	return drawdown.LawRequest{
		Kind:     req.Kind,
		Stats:    req.Stats,
		Prop:     req.Prop,
		NearWell: req.NearWell,
		FarError: req.FarError,
		Radii:    radii,
	}, nil
}

func (f *specFlags) request(times, radii []float64) (drawdown.Request, error) {
	spec := f.spec
	spec.Times, spec.Radii = times, radii

	return sweep.RequestFromSpec(spec)
}

func lawCommand(cfg *config.Config) *cobra.Command {
	var (
		flags specFlags
		radii []float64
	)
	cmd := &cobra.Command{
		Use:   "law",
		Short: "Evaluates the coarse-graining transmissivity at radii",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.lawRequest(radii)
			if err != nil {
				return err
			}
			res, err := newDrawdown(cmd.Context(), cfg, false).Law(cmd.Context(), req)
			if err != nil {
				return err
			}

			return writeColumns(cmd.OutOrStdout(), "rad, trans", radii, res.Values)
		},
	}
	flags.bindLaw(cmd, cfg)
	cmd.Flags().Float64SliceVar(&radii, "radii", []float64{0.1, 1, 10, 100}, "radii to evaluate")

	return cmd
}

func cutoffCommand(cfg *config.Config) *cobra.Command {
	var flags specFlags
	cmd := &cobra.Command{
		Use:   "cutoff",
		Short: "Solves the radius beyond which the law is within far-error of its far field",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.lawRequest(nil)
			if err != nil {
				return err
			}
			res, err := newDrawdown(cmd.Context(), cfg, false).Law(cmd.Context(), req)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cutoff %g\nfar field %g\nnear well %g\n",
				res.Cutoff, res.FarField, res.NearWell)

			return err
		},
	}
	flags.bindLaw(cmd, cfg)

	return cmd
}

func profileCommand(cfg *config.Config) *cobra.Command {
	var flags specFlags
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Prints the zoned effective transmissivity profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(nil, nil)
			if err != nil {
				return err
			}
			prof, err := newDrawdown(cmd.Context(), cfg, false).Profile(cmd.Context(), req)
			if err != nil {
				return err
			}

			zones := prof.Steps.Zones()
			m := mat.NewDense(len(zones), 4, nil)
			for i, z := range zones {
				m.SetRow(i, []float64{z.Inner, z.Outer, z.Value, z.Storage})
			}
			header := fmt.Sprintf("cutoff %g\ninner, outer, trans, storage", prof.Cutoff)

			return tables.Write(cmd.OutOrStdout(), m, header)
		},
	}
	flags.bindAll(cmd, cfg)

	return cmd
}

func transientCommand(cfg *config.Config) *cobra.Command {
	var (
		flags        specFlags
		times, radii []float64
	)
	cmd := &cobra.Command{
		Use:   "transient",
		Short: "Solves the extended Theis drawdown, one row per time and one column per radius",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(times, radii)
			if err != nil {
				return err
			}
			field, err := newDrawdown(cmd.Context(), cfg, false).ExtTheis(cmd.Context(), req)
			if err != nil {
				return err
			}

			header := fmt.Sprintf("times %v\nradii %v", times, radii)

			return tables.Write(cmd.OutOrStdout(), field.Head, header)
		},
	}
	flags.bindAll(cmd, cfg)
	cmd.Flags().Float64SliceVar(&times, "times", []float64{10, 600, 36000}, "times to solve for")
	cmd.Flags().Float64SliceVar(&radii, "radii", []float64{0.1, 1, 10}, "radii to solve for")

	return cmd
}

func steadyCommand(cfg *config.Config) *cobra.Command {
	var (
		flags specFlags
		radii []float64
	)
	cmd := &cobra.Command{
		Use:   "steady",
		Short: "Solves the extended Thiem drawdown for a finite outer radius",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(nil, radii)
			if err != nil {
				return err
			}
			head, err := newDrawdown(cmd.Context(), cfg, false).ExtThiem(cmd.Context(), req)
			if err != nil {
				return err
			}

			return writeColumns(cmd.OutOrStdout(), "rad, head", radii, head)
		},
	}
	flags.bindAll(cmd, cfg)
	cmd.Flags().Float64SliceVar(&radii, "radii", []float64{0.1, 1, 10}, "radii to solve for")

	return cmd
}

// writeColumns writes x and y as a two column table.
func writeColumns(w io.Writer, header string, x, y []float64) error {
	if len(x) == 0 {
		return serrors.With(serrors.ErrInvalidArgument, "radii are required")
	}

	m := mat.NewDense(len(x), 2, nil)
	for i := range x {
		m.Set(i, 0, x[i])
		m.Set(i, 1, y[i])
	}

	return tables.Write(w, m, header)
}
