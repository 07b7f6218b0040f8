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

func newPoissonRegCommand() *cobra.Command {
	var (
		flags      runFlags
		covariates int
	)

	defaults := montecarlo.DefaultConfig()
	defaults.TrueValue = 0.5
	defaults.SampleSize = 500
	defaults.Replications = 200

	cmd := &cobra.Command{
		Use:   "poisson-reg",
		Short: "Sampling distribution of the Poisson regression MLE",
		Long: `Simulate y ~ Poisson(exp(x'theta)) with an intercept and standard normal
covariates, every coefficient equal to --true-value, and fit theta by BFGS
on the negative log-likelihood in each replication.`,
		Example: `  mcsim poisson-reg --covariates 2 -r 500 --strategy worker_pool`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &flags, defaults)
			if err != nil {
				return err
			}

			runner, cleanup, err := newRunner()
			if err != nil {
				return err
			}
			defer cleanup()

			log.Info().
				Int("covariates", covariates).
				Int("sample_size", cfg.SampleSize).
				Int("replications", cfg.Replications).
				Msg("Running Poisson regression experiment")

			report, err := runner.RunDraws(cmd.Context(), cfg, experiments.PoissonRegression{Covariates: covariates})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, report)
			}
			printDrawsHeader(out, "Poisson regression MLE", report)
			s := report.Summary
			fmt.Fprintf(out, "\n  %-8s %9s %9s %22s\n", "coef", "true", "mean", "interval")
			for j := range s.Mean {
				fmt.Fprintf(out, "  theta_%-2d %9.4f %9.4f [%9.4f, %9.4f]\n", j, cfg.TrueValue, s.Mean[j], s.Lower[j], s.Upper[j])
			}
			return nil
		},
	}

	addRunFlags(cmd, &flags, defaults)
	cmd.Flags().IntVar(&covariates, "covariates", 1, "number of covariates besides the intercept")

	return cmd
}
