package vb

import (
	"math"

	"gonum.org/v1/gonum/mathext"

	"github.com/roach88/meanfield/internal/model"
)

var log2Pi = math.Log(2 * math.Pi)

// ELBOTerms is the lower bound split into its expectation and entropy parts.
type ELBOTerms struct {
	Likelihood       float64 `json:"likelihood"`        // E_q[log p(x | μ, γ)]
	MeanPrior        float64 `json:"mean_prior"`        // E_q[log p(μ)]
	PrecisionPrior   float64 `json:"precision_prior"`   // E_q[log p(γ)]
	MeanEntropy      float64 `json:"mean_entropy"`      // H[q(μ)]
	PrecisionEntropy float64 `json:"precision_entropy"` // H[q(γ)]
}

// Total is the ELBO.
func (t ELBOTerms) Total() float64 {
	return t.Likelihood + t.MeanPrior + t.PrecisionPrior + t.MeanEntropy + t.PrecisionEntropy
}

// Terms evaluates each component of the lower bound at q.
func Terms(priors model.Priors, data model.Dataset, q model.Params) ELBOTerms {
	n := float64(data.N())
	eg := q.ExpectedPrecision()
	elg := q.ExpectedLogPrecision()

	var t ELBOTerms
	t.Likelihood = 0.5*n*(elg-log2Pi) - 0.5*eg*expectedSquaredError(data, q)

	d := q.Mu - priors.MuPrior
	t.MeanPrior = 0.5*(math.Log(priors.TauPrior)-log2Pi) - 0.5*priors.TauPrior*(d*d+q.MeanVariance())

	a0, b0 := priors.AlphaPrior, priors.BetaPrior
	lga0, _ := math.Lgamma(a0)
	t.PrecisionPrior = a0*math.Log(b0) - lga0 + (a0-1)*elg - b0*eg

	t.MeanEntropy = 0.5 * (1 + log2Pi - math.Log(q.Tau))

	lga, _ := math.Lgamma(q.Alpha)
	t.PrecisionEntropy = q.Alpha - math.Log(q.Beta) + lga + (1-q.Alpha)*mathext.Digamma(q.Alpha)

	return t
}

// ELBO is the evidence lower bound of q for the given priors and data.
// It is a pure function of its inputs.
func ELBO(priors model.Priors, data model.Dataset, q model.Params) float64 {
	return Terms(priors, data, q).Total()
}
