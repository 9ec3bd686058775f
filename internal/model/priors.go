package model

import "fmt"

// Default prior hyperparameters. The Gamma prior is vague and the Normal prior
// on the mean is nearly flat.
const (
	DefaultAlphaPrior = 1e-2
	DefaultBetaPrior  = 1e-2
	DefaultMuPrior    = 0.0
	DefaultTauPrior   = 1e-6
)

// Priors are the fixed hyperparameters of the conjugate priors.
type Priors struct {
	AlphaPrior float64 `json:"alpha_prior"` // Gamma shape for γ
	BetaPrior  float64 `json:"beta_prior"`  // Gamma rate for γ
	MuPrior    float64 `json:"mu_prior"`    // Normal mean for μ
	TauPrior   float64 `json:"tau_prior"`   // Normal precision for μ
}

// DefaultPriors returns the priors used when no configuration is supplied.
func DefaultPriors() Priors {
	return Priors{
		AlphaPrior: DefaultAlphaPrior,
		BetaPrior:  DefaultBetaPrior,
		MuPrior:    DefaultMuPrior,
		TauPrior:   DefaultTauPrior,
	}
}

// Validate reports the first hyperparameter outside its support.
func (p Priors) Validate() error {
	if !(p.AlphaPrior > 0) {
		return fmt.Errorf("alpha_prior must be > 0, got %v", p.AlphaPrior)
	}
	if !(p.BetaPrior > 0) {
		return fmt.Errorf("beta_prior must be > 0, got %v", p.BetaPrior)
	}
	if !(p.TauPrior > 0) {
		return fmt.Errorf("tau_prior must be > 0, got %v", p.TauPrior)
	}
	return nil
}

// ExpectedPrecision is the prior mean of γ.
func (p Priors) ExpectedPrecision() float64 {
	return p.AlphaPrior / p.BetaPrior
}
