// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhentaoshi/Econ5821/montecarlo"
	"github.com/zhentaoshi/Econ5821/telemetry"
)

var (
	// Global flags
	configPath string
	jsonOutput bool
	traceRuns  bool
	metricsOut string
	logFormat  string
	logFile    string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcsim",
		Short: "Monte Carlo replication engine for econometrics examples",
		Long: `mcsim runs Monte Carlo experiments: a trial function is replicated many
times with independent random draws and the outcomes are summarized.

Every experiment can run sequentially, on a worker pool, or (when the trial
supports it) as one vectorized batch. Seeded runs are reproducible, and the
sequential and worker pool strategies give identical results.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML run config; flags override its values")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&traceRuns, "trace", false, "export a span per run to stderr")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this file after the run")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "run log format (console or json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append run logs to this file instead of stderr")

	rootCmd.AddCommand(newCoverageCommand())
	rootCmd.AddCommand(newIRFCompareCommand())
	rootCmd.AddCommand(newPoissonRegCommand())
	rootCmd.AddCommand(newBootstrapIRFCommand())
	rootCmd.AddCommand(newBootstrapGrangerCommand())

	return rootCmd
}

// runFlags are the experiment parameters every subcommand accepts.
type runFlags struct {
	strategy     string
	workers      int
	replications int
	sampleSize   int
	trueValue    float64
	level        float64
	seed         uint64
}

func addRunFlags(cmd *cobra.Command, f *runFlags, defaults montecarlo.Config) {
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", string(defaults.Strategy), "sequential, worker_pool or vectorized_batch")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", defaults.WorkerCount, "worker pool size (0 = number of CPUs)")
	cmd.Flags().IntVarP(&f.replications, "replications", "r", defaults.Replications, "number of replications")
	cmd.Flags().IntVarP(&f.sampleSize, "sample-size", "n", defaults.SampleSize, "draws per replication")
	cmd.Flags().Float64Var(&f.trueValue, "true-value", defaults.TrueValue, "true parameter value")
	cmd.Flags().Float64Var(&f.level, "level", defaults.ConfidenceLevel, "confidence level")
	cmd.Flags().Uint64Var(&f.seed, "seed", defaults.Seed, "master seed (0 = time based)")
}

// resolveConfig layers the config file and explicitly set flags over defaults.
func resolveConfig(cmd *cobra.Command, f *runFlags, defaults montecarlo.Config) (montecarlo.Config, error) {
	cfg := defaults
	if configPath != "" {
		loaded, err := montecarlo.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Strategy = montecarlo.StrategyName(f.strategy)
	}
	if flags.Changed("workers") {
		cfg.WorkerCount = f.workers
	}
	if flags.Changed("replications") {
		cfg.Replications = f.replications
	}
	if flags.Changed("sample-size") {
		cfg.SampleSize = f.sampleSize
	}
	if flags.Changed("true-value") {
		cfg.TrueValue = f.trueValue
	}
	if flags.Changed("level") {
		cfg.ConfidenceLevel = f.level
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}

	return cfg, cfg.Validate()
}

// newRunner wires logging, metrics and tracing into a Runner. The returned
// cleanup flushes metrics and spans and must be called once the run ends.
func newRunner() (*montecarlo.Runner, func(), error) {
	logCfg := telemetry.DefaultLoggingConfig()
	logCfg.Format = logFormat
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		logCfg.Level = lvl
	}
	if logFile != "" {
		logCfg.Output = logFile
	}
	logger, err := telemetry.NewLogger(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	metricsCfg := telemetry.DefaultMetricsConfig()
	metricsCfg.Enabled = metricsOut != ""
	metrics, err := telemetry.NewMetrics(metricsCfg)
	if err != nil {
		logger.Close()
		return nil, nil, err
	}

	tracer, err := telemetry.NewTracer(telemetry.TracingConfig{
		Enabled:     traceRuns,
		Exporter:    "stdout",
		ServiceName: "mcsim",
	})
	if err != nil {
		logger.Close()
		return nil, nil, err
	}

	runner := montecarlo.NewRunner(
		montecarlo.WithLogger(logger.NewComponentLogger("runner")),
		montecarlo.WithMetrics(metrics),
		montecarlo.WithTracer(tracer),
	)

	cleanup := func() {
		if metricsOut != "" {
			if err := metrics.WriteTextfile(metricsOut); err != nil {
				log.Warn().Err(err).Str("path", metricsOut).Msg("Failed to write metrics")
			}
		}
		if err := tracer.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down tracer")
		}
		if err := logger.Close(); err != nil {
			log.Warn().Err(err).Str("path", logFile).Msg("Failed to close log file")
		}
	}
	return runner, cleanup, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, title string, r *montecarlo.Report) {
	s := r.Summary
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "  run:          %s\n", r.RunID)
	fmt.Fprintf(w, "  strategy:     %s (workers=%d)\n", r.Strategy, r.Workers)
	fmt.Fprintf(w, "  elapsed:      %s\n", r.Elapsed)
	fmt.Fprintf(w, "  replications: %d\n", s.Replications)
	if s.Kind == montecarlo.KindIndicator {
		fmt.Fprintf(w, "  coverage:     %.4f  [%.4f, %.4f] at %.0f%%\n", s.Coverage, s.Lower, s.Upper, 100*s.Level)
		return
	}
	fmt.Fprintf(w, "  mean:         %.6f (sd %.6f)\n", s.Mean, s.StdDev)
	fmt.Fprintf(w, "  interval:     [%.6f, %.6f] at %.0f%%\n", s.Lower, s.Upper, 100*s.Level)
}

func printDrawsHeader(w io.Writer, title string, r *montecarlo.DrawsReport) {
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "  run:          %s\n", r.RunID)
	fmt.Fprintf(w, "  strategy:     %s (workers=%d)\n", r.Strategy, r.Workers)
	fmt.Fprintf(w, "  elapsed:      %s\n", r.Elapsed)
	fmt.Fprintf(w, "  replications: %d\n", r.Summary.Replications)
}
