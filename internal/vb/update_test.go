package vb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/meanfield/internal/model"
)

func assertParamsInDelta(t *testing.T, want, got model.Params, delta float64) {
	t.Helper()
	assert.InDelta(t, want.Alpha, got.Alpha, delta, "alpha")
	assert.InDelta(t, want.Beta, got.Beta, delta, "beta")
	assert.InDelta(t, want.Mu, got.Mu, delta, "mu")
	assert.InDelta(t, want.Tau, got.Tau, delta, "tau")
}

func TestUpdatePrecision(t *testing.T) {
	priors := model.Priors{AlphaPrior: 1, BetaPrior: 2, MuPrior: 0, TauPrior: 1}
	data := model.NewDataset([]float64{1, 3})
	q := model.Params{Alpha: 7, Beta: 7, Mu: 2, Tau: 4}

	got := UpdatePrecision(priors, data, q)

	// Σ(x-2)² = 2, plus N/Tau = 0.5
	assert.InDelta(t, 2.0, got.Alpha, 1e-12)
	assert.InDelta(t, 2+0.5*2.5, got.Beta, 1e-12)
	assert.Equal(t, q.Mu, got.Mu, "mean factor untouched")
	assert.Equal(t, q.Tau, got.Tau, "mean factor untouched")
}

func TestUpdateMean(t *testing.T) {
	priors := model.Priors{AlphaPrior: 1, BetaPrior: 1, MuPrior: 10, TauPrior: 2}
	data := model.NewDataset([]float64{1, 3})
	q := model.Params{Alpha: 3, Beta: 1.5, Mu: -4, Tau: 99}

	got := UpdateMean(priors, data, q)

	// E[γ] = 2, Tau = 2 + 2*2 = 6, Mu = (2*10 + 2*4)/6
	assert.InDelta(t, 6.0, got.Tau, 1e-12)
	assert.InDelta(t, 28.0/6, got.Mu, 1e-12)
	assert.Equal(t, q.Alpha, got.Alpha)
	assert.Equal(t, q.Beta, got.Beta)
}

func TestStepUpdatesPrecisionFirst(t *testing.T) {
	priors := model.DefaultPriors()
	data := model.NewDataset([]float64{4, 5, 6})
	q := model.InitParams(priors)

	want := UpdateMean(priors, data, UpdatePrecision(priors, data, q))
	assert.Equal(t, want, Step(priors, data, q))
}

func TestStepWithoutDataReturnsPriors(t *testing.T) {
	tests := []struct {
		name   string
		priors model.Priors
	}{
		{"defaults", model.DefaultPriors()},
		{"informative", model.Priors{AlphaPrior: 3, BetaPrior: 0.5, MuPrior: 1.5, TauPrior: 0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			empty := model.NewDataset(nil)
			q := model.InitParams(tt.priors)

			assertParamsInDelta(t, q, Step(tt.priors, empty, q), 1e-12)

			// From any starting point the empty-data optimum is the prior.
			far := model.Params{Alpha: 40, Beta: 0.1, Mu: -30, Tau: 8}
			assertParamsInDelta(t, q, Step(tt.priors, empty, far), 1e-12)
		})
	}
}
