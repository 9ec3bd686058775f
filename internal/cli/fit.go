package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/meanfield/internal/config"
	"github.com/roach88/meanfield/internal/fingerprint"
	"github.com/roach88/meanfield/internal/logging"
	"github.com/roach88/meanfield/internal/runid"
	"github.com/roach88/meanfield/internal/vb"
	"github.com/roach88/meanfield/internal/viz"
)

// FitOptions holds flags for the fit command.
type FitOptions struct {
	*RootOptions
	ConfigPath string
	PlotPath   string
	MaxIter    int
	Tolerance  float64
	Seed       uint64
	N          int

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs runid.Generator
}

// NewFitCommand creates the fit command.
func NewFitCommand(rootOpts *RootOptions) *cobra.Command {
	return newFitCommand(&FitOptions{RootOptions: rootOpts})
}

func newFitCommand(opts *FitOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the variational posterior by coordinate ascent",
		Long: `Fit q(mu)q(gamma) to the configured dataset.

Each iteration updates the Gamma factor for the precision, then the Normal
factor for the mean, and recomputes the ELBO. The run stops when the relative
ELBO improvement falls below the tolerance or the iteration cap is reached.
A decreasing ELBO aborts the run with exit code 1.

Example:
  meanfield fit
  meanfield fit --config run.cue --plot posterior.png
  meanfield fit --n 50 --seed 7 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "run configuration (.cue, .yaml, .yml)")
	cmd.Flags().StringVar(&opts.PlotPath, "plot", "", "write a contour plot of the posterior (.png, .svg, .pdf)")
	cmd.Flags().IntVar(&opts.MaxIter, "max-iter", vb.DefaultMaxIter, "maximum number of iterations")
	cmd.Flags().Float64Var(&opts.Tolerance, "tol", vb.DefaultTolerance, "relative ELBO improvement that counts as converged")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", config.DefaultSeed, "seed for the synthetic dataset")
	cmd.Flags().IntVar(&opts.N, "n", config.DefaultN, "number of synthetic observations")

	return cmd
}

// resolveConfig loads the config file (or defaults) and applies flags the
// user set explicitly.
func resolveConfig(path string, overrides func(*config.Config)) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if overrides != nil {
		overrides(&cfg)
	}
	return cfg, nil
}

func (o *FitOptions) apply(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("max-iter") {
			cfg.MaxIter = o.MaxIter
		}
		if flags.Changed("tol") {
			cfg.Tolerance = o.Tolerance
		}
		if flags.Changed("seed") {
			cfg.Seed = o.Seed
		}
		if flags.Changed("n") {
			cfg.N = o.N
		}
	}
}

// ignoredSamplingFlags lists the sampling flags set on cmd that cfg does not
// use because it carries fixed data.
func ignoredSamplingFlags(cmd *cobra.Command, cfg config.Config) []string {
	if cfg.Data == nil {
		return nil
	}
	var ignored []string
	for _, name := range []string{"n", "seed"} {
		if cmd.Flags().Changed(name) {
			ignored = append(ignored, "--"+name)
		}
	}
	return ignored
}

func runFit(opts *FitOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := logging.New("cli")

	if opts.MaxIter <= 0 {
		return outputCommandError(formatter, config.ErrCodeInvalid, fmt.Sprintf("--max-iter must be > 0, got %d", opts.MaxIter))
	}
	if opts.Tolerance <= 0 {
		return outputCommandError(formatter, config.ErrCodeInvalid, fmt.Sprintf("--tol must be > 0, got %v", opts.Tolerance))
	}
	if opts.N < 0 {
		return outputCommandError(formatter, config.ErrCodeInvalid, fmt.Sprintf("--n must be >= 0, got %d", opts.N))
	}

	cfg, err := resolveConfig(opts.ConfigPath, opts.apply(cmd))
	if err != nil {
		return outputConfigError(formatter, err)
	}
	if ignored := ignoredSamplingFlags(cmd, cfg); len(ignored) > 0 {
		logger.Warn("config lists fixed data, sampling flags have no effect", "flags", ignored)
	}
	problem, err := cfg.Problem()
	if err != nil {
		return outputCommandError(formatter, config.ErrCodeInvalid, err.Error())
	}
	fp, err := fingerprint.Of(cfg)
	if err != nil {
		return outputCommandError(formatter, config.ErrCodeInvalid, err.Error())
	}

	gen := opts.RunIDs
	if gen == nil {
		gen = runid.UUIDv7Generator{}
	}
	runID := gen.Generate()
	formatter.RunID = runID
	logger = logger.With("run_id", runID)
	logger.Info("starting fit", "label", cfg.Label, "fingerprint", fingerprint.Short(fp), "n", problem.Data.N())
	formatter.VerboseLog("data: %v", problem.Data.Values())

	ctx, cancel := signalContext(cmd)
	defer cancel()

	vbOpts := cfg.Options()
	vbOpts.Logger = logging.New("vb").With("run_id", runID)
	if !formatter.IsJSON() {
		vbOpts.Observer = func(it vb.Iteration) {
			fmt.Fprintln(formatter.Writer, formatIteration(it))
		}
	}

	res, err := vb.Run(ctx, problem, vbOpts)
	if err != nil {
		return outputInferenceError(formatter, err)
	}

	// A failed plot write must leave the error as the only JSON document.
	if opts.PlotPath != "" {
		// Fixed data has no generating parameters to mark.
		var truth *viz.Truth
		if cfg.Data == nil {
			truth = &viz.Truth{Mean: cfg.Truth.Mean, Precision: cfg.Truth.Precision}
		}
		title := fmt.Sprintf("q(μ)q(γ) for %s, N=%d", cfg.Label, problem.Data.N())
		if err := viz.Save(opts.PlotPath, res.Params, truth, viz.Options{Title: title}); err != nil {
			return outputCommandError(formatter, ErrCodePlotFailed, fmt.Sprintf("writing plot: %v", err))
		}
		logger.Info("plot written", "path", opts.PlotPath)
		formatter.VerboseLog("plot written to %s", opts.PlotPath)
	}

	summary := newSummary(runID, fp, cfg, problem.Data, res)
	if formatter.IsJSON() {
		if err := formatter.Success(FitReport{Summary: summary, Trace: res.Trace}); err != nil {
			return WrapExitError(ExitCommandError, "writing output", err)
		}
	} else {
		writeSummary(formatter.Writer, summary)
	}
	return nil
}

// signalContext derives a context cancelled on SIGINT/SIGTERM or when the
// command's own context ends.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// outputCommandError reports a command-level failure (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputConfigError reports a configuration failure with its source line.
func outputConfigError(formatter *OutputFormatter, err error) error {
	var cerr *config.Error
	if errors.As(err, &cerr) {
		var details any
		if line := cerr.Line(); line > 0 {
			details = map[string]int{"line": line}
		}
		_ = formatter.Error(cerr.Code, cerr.Message, details)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return outputCommandError(formatter, config.ErrCodeReadFailed, err.Error())
}

// outputInferenceError maps a failed run to its exit code.
func outputInferenceError(formatter *OutputFormatter, err error) error {
	var de *vb.DivergenceError
	switch {
	case errors.As(err, &de):
		_ = formatter.Error(ErrCodeDiverged, err.Error(), map[string]any{
			"iteration": de.Iteration,
			"previous":  de.Previous,
			"current":   de.Current,
		})
		return WrapExitError(ExitFailure, "inference aborted", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		_ = formatter.Error(ErrCodeCancelled, err.Error(), nil)
		return WrapExitError(ExitCommandError, "inference cancelled", err)
	default:
		_ = formatter.Error(ErrCodeInference, err.Error(), nil)
		return WrapExitError(ExitCommandError, "inference failed", err)
	}
}
