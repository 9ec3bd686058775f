package vb

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/meanfield/internal/logging"
	"github.com/roach88/meanfield/internal/model"
)

// Default stopping rule.
const (
	DefaultMaxIter   = 1000
	DefaultTolerance = 1e-8
)

// monotoneSlack is the relative decrease tolerated as floating-point noise
// before a drop in the bound counts as a divergence.
const monotoneSlack = 1e-12

// Problem is the fixed input of a run.
type Problem struct {
	Priors model.Priors
	Data   model.Dataset
}

// Options control the update loop. DefaultOptions gives the standard stopping
// rule.
type Options struct {
	// MaxIter caps the number of sweeps. Zero means DefaultMaxIter.
	MaxIter int

	// Tolerance is the relative ELBO improvement at or below which the run
	// is considered converged. Zero or negative means DefaultTolerance.
	Tolerance float64

	// Observer is called for every iterate, starting with iteration 0 (the
	// prior initialisation).
	Observer func(Iteration)

	// Init starts the loop from the given state instead of the priors.
	Init *model.Params

	// Step overrides the update sweep (for testing). Nil means Step.
	Step StepFunc

	// Logger receives progress logs. Nil means logging.New("vb").
	Logger *slog.Logger
}

// DefaultOptions returns the stopping rule used when nothing is configured.
func DefaultOptions() Options {
	return Options{MaxIter: DefaultMaxIter, Tolerance: DefaultTolerance}
}

// Iteration is one iterate of the loop.
type Iteration struct {
	Index       int          `json:"iteration"`
	Params      model.Params `json:"params"`
	ELBO        float64      `json:"elbo"`
	Improvement float64      `json:"improvement"` // relative change from the previous iterate
}

// Result is the frozen state at loop termination.
type Result struct {
	Params     model.Params `json:"params"`
	ELBO       float64      `json:"elbo"`
	Iterations int          `json:"iterations"`
	Converged  bool         `json:"converged"`
	Trace      []Iteration  `json:"trace"`
}

// Run performs coordinate ascent from the priors (or opts.Init) until the relative ELBO
// improvement drops to the tolerance or MaxIter sweeps have been made.
//
// A decreasing bound aborts the run with a *DivergenceError. The partial
// result up to and including the offending iterate is returned with it.
func Run(ctx context.Context, problem Problem, opts Options) (*Result, error) {
	if err := problem.Priors.Validate(); err != nil {
		return nil, fmt.Errorf("vb: invalid priors: %w", err)
	}
	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	step := opts.Step
	if step == nil {
		step = Step
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("vb")
	}

	priors, data := problem.Priors, problem.Data
	q := model.InitParams(priors)
	if opts.Init != nil {
		q = *opts.Init
	}
	elbo := ELBO(priors, data, q)

	res := &Result{Params: q, ELBO: elbo}
	res.record(Iteration{Index: 0, Params: q, ELBO: elbo}, opts.Observer)

	logger.Debug("starting coordinate ascent",
		"n", data.N(), "max_iter", maxIter, "tolerance", tol, "elbo", elbo)

	for k := 1; k <= maxIter; k++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("vb: cancelled before iteration %d: %w", k, err)
		}

		next := step(priors, data, q)
		nextELBO := ELBO(priors, data, next)
		it := Iteration{
			Index:       k,
			Params:      next,
			ELBO:        nextELBO,
			Improvement: relativeChange(elbo, nextELBO),
		}
		res.record(it, opts.Observer)
		res.Params, res.ELBO, res.Iterations = next, nextELBO, k

		if logger.Enabled(ctx, slog.LevelDebug) {
			terms := Terms(priors, data, next)
			logger.Debug("iteration",
				"k", k,
				"elbo", nextELBO,
				"likelihood", terms.Likelihood,
				"mean_prior", terms.MeanPrior,
				"precision_prior", terms.PrecisionPrior,
				"mean_entropy", terms.MeanEntropy,
				"precision_entropy", terms.PrecisionEntropy,
			)
		}

		if decreased(elbo, nextELBO) {
			err := newDivergenceError(k, elbo, nextELBO)
			logger.Error("lower bound decreased", "iteration", k, "previous", elbo, "current", nextELBO)
			return res, err
		}

		q, elbo = next, nextELBO
		if it.Improvement <= tol {
			res.Converged = true
			logger.Info("converged", "iterations", k, "elbo", elbo)
			return res, nil
		}
	}

	logger.Warn("iteration cap reached before convergence", "max_iter", maxIter, "elbo", elbo)
	return res, nil
}

func (r *Result) record(it Iteration, observer func(Iteration)) {
	r.Trace = append(r.Trace, it)
	if observer != nil {
		observer(it)
	}
}

// relativeChange is (cur − prev)/|prev|. A bound of exactly zero (no data,
// q equal to the prior) falls back to the absolute change.
func relativeChange(prev, cur float64) float64 {
	if prev == 0 {
		return cur - prev
	}
	return (cur - prev) / math.Abs(prev)
}

func decreased(prev, cur float64) bool {
	return cur < prev-monotoneSlack*math.Max(1, math.Abs(prev))
}
