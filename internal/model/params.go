package model

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// Params are the variational parameters of q(μ)q(γ):
// q(γ) = Gamma(Alpha, Beta) with Beta a rate, q(μ) = Normal(Mu, 1/Tau).
type Params struct {
	Alpha float64 `json:"q_alpha"`
	Beta  float64 `json:"q_beta"`
	Mu    float64 `json:"q_mu"`
	Tau   float64 `json:"q_tau"`
}

// InitParams returns the starting point of coordinate ascent: each factor set
// equal to its prior.
func InitParams(p Priors) Params {
	return Params{
		Alpha: p.AlphaPrior,
		Beta:  p.BetaPrior,
		Mu:    p.MuPrior,
		Tau:   p.TauPrior,
	}
}

// ExpectedPrecision is E_q[γ].
func (q Params) ExpectedPrecision() float64 {
	return q.Alpha / q.Beta
}

// ExpectedLogPrecision is E_q[log γ].
func (q Params) ExpectedLogPrecision() float64 {
	return mathext.Digamma(q.Alpha) - math.Log(q.Beta)
}

// PrecisionStdDev is the standard deviation of γ under q(γ).
func (q Params) PrecisionStdDev() float64 {
	return math.Sqrt(q.Alpha) / q.Beta
}

// MeanVariance is Var_q[μ].
func (q Params) MeanVariance() float64 {
	return 1 / q.Tau
}

// MeanStdDev is the standard deviation of μ under q(μ).
func (q Params) MeanStdDev() float64 {
	return math.Sqrt(q.MeanVariance())
}

// ExpectedMuSquared is E_q[μ²].
func (q Params) ExpectedMuSquared() float64 {
	return q.Mu*q.Mu + q.MeanVariance()
}
