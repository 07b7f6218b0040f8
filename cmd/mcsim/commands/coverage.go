// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhentaoshi/Econ5821/experiments"
	"github.com/zhentaoshi/Econ5821/montecarlo"
)

func newCoverageCommand() *cobra.Command {
	var (
		flags runFlags
		trial string
	)
	defaults := montecarlo.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Check the coverage of the normal interval for a Poisson mean",
		Long: `Draw sample-size values from Poisson(true-value) in every replication,
build the interval mean +- z*sigma/sqrt(n), and report the fraction of
replications whose interval contains the true value.

With --trial sample-mean the replication outcome is the sample mean itself
and the report shows its Monte Carlo distribution instead.`,
		Example: `  # Defaults: Poisson(2), n=10, 10000 replications, 95% intervals
  mcsim coverage --seed 5821

  # Same experiment on 8 workers
  mcsim coverage --strategy worker_pool --workers 8 --seed 5821

  # One vectorized draw of the whole replications x sample-size block
  mcsim coverage --strategy vectorized_batch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &flags, defaults)
			if err != nil {
				return err
			}

			var (
				t     montecarlo.Trial[float64]
				kind  montecarlo.Kind
				title string
			)
			switch trial {
			case "poisson":
				t, kind, title = experiments.PoissonCoverage{}, montecarlo.KindIndicator, "Poisson interval coverage"
			case "sample-mean":
				t, kind, title = experiments.SampleMean{}, montecarlo.KindNumeric, "Poisson sample mean"
			default:
				return fmt.Errorf("unknown trial %q (want poisson or sample-mean)", trial)
			}

			runner, cleanup, err := newRunner()
			if err != nil {
				return err
			}
			defer cleanup()

			log.Info().
				Str("trial", trial).
				Str("strategy", string(cfg.Strategy)).
				Int("replications", cfg.Replications).
				Msg("Running coverage experiment")

			report, err := runner.Run(cmd.Context(), cfg, t, kind)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), title, report)
			return nil
		},
	}

	addRunFlags(cmd, &flags, defaults)
	cmd.Flags().StringVar(&trial, "trial", "poisson", "poisson (interval coverage) or sample-mean")

	return cmd
}
