package main

import (
	"fmt"

	"wellflow/internal/config"
	"wellflow/internal/ensemble"
	"wellflow/pkg/upscaling"

	"github.com/spf13/cobra"
)

func ensembleCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Post-processes simulated drawdown ensembles",
	}
	cmd.AddCommand(ensembleMeanCommand(), ensembleCompareCommand(cfg))

	return cmd
}

func ensembleMeanCommand() *cobra.Command {
	var first, last int
	cmd := &cobra.Command{
		Use:   "mean ROOT",
		Short: "Averages the members of every parameter set into rad_mean_head.txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := ensemble.Mean(cmd.Context(), args[0], first, last)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range report.Sets {
				if !s.Written {
					fmt.Fprintf(out, "%s: empty, skipped\n", s.Path)
					continue
				}
				fmt.Fprintf(out, "%s: %d members\n", s.Path, s.Members)
			}
			printFailed(cmd, report.Failed)

			return nil
		},
	}
	cmd.Flags().IntVar(&first, "first", 0, "first parameter set")
	cmd.Flags().IntVar(&last, "last", -1, "last parameter set, negative for all")

	return cmd
}

func ensembleCompareCommand(cfg *config.Config) *cobra.Command {
	opts := ensemble.NewOptions(cfg)
	var kind string
	cmd := &cobra.Command{
		Use:   "compare ROOT",
		Short: "Compares ensemble means with the effective drawdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.Kind, err = upscaling.ParseKind(kind); err != nil {
				return err
			}

			report, err := ensemble.Compare(cmd.Context(), args[0], newDrawdown(cmd.Context(), cfg, false), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range report.Sets {
				fmt.Fprintf(out, "%s: max rel. diff %g\n", s.Path, s.MaxRelDiff)
			}
			printFailed(cmd, report.Failed)
			if len(report.Failed) > 0 && len(report.Sets) == 0 {
				return fmt.Errorf("all %d parameter sets failed", len(report.Failed))
			}

			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&kind, "kind", upscaling.KindTPL.String(), "law of the simulated fields (gaussian, tpl)")
	fs.Float64Var(&opts.TimeMin, "time-min", opts.TimeMin, "compare times above this value")
	fs.Float64Var(&opts.RadMin, "rad-min", opts.RadMin, "compare radii above this value")
	fs.Float64Var(&opts.RadMax, "rad-max", opts.RadMax, "compare radii below this value")
	fs.IntVar(&opts.First, "first", 0, "first parameter set")
	fs.IntVar(&opts.Last, "last", -1, "last parameter set, negative for all")
	fs.IntVar(&opts.Workers, "workers", 1, "parameter sets compared concurrently")

	return cmd
}

func printFailed(cmd *cobra.Command, failed []ensemble.Failure) {
	if len(failed) == 0 {
		return
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "FAILED (%d):\n", len(failed))
	for _, f := range failed {
		fmt.Fprintf(out, "  %s\n", f)
	}
}
