package vb

import "github.com/roach88/meanfield/internal/model"

// StepFunc produces the next iterate from the current one.
type StepFunc func(priors model.Priors, data model.Dataset, q model.Params) model.Params

// UpdatePrecision returns q with the Gamma factor replaced by its optimum
// given the Normal factor in q.
func UpdatePrecision(priors model.Priors, data model.Dataset, q model.Params) model.Params {
	n := float64(data.N())
	q.Alpha = priors.AlphaPrior + n/2
	q.Beta = priors.BetaPrior + 0.5*expectedSquaredError(data, q)
	return q
}

// UpdateMean returns q with the Normal factor replaced by its optimum given
// the Gamma factor in q.
func UpdateMean(priors model.Priors, data model.Dataset, q model.Params) model.Params {
	n := float64(data.N())
	eg := q.ExpectedPrecision()
	q.Tau = priors.TauPrior + n*eg
	q.Mu = (priors.TauPrior*priors.MuPrior + eg*data.Sum()) / q.Tau
	return q
}

// Step is one full sweep: precision factor first, then mean factor.
func Step(priors model.Priors, data model.Dataset, q model.Params) model.Params {
	q = UpdatePrecision(priors, data, q)
	return UpdateMean(priors, data, q)
}

// expectedSquaredError is Σ E_q(μ)[(x_i − μ)²].
func expectedSquaredError(data model.Dataset, q model.Params) float64 {
	return data.SquaredDeviation(q.Mu) + float64(data.N())*q.MeanVariance()
}
