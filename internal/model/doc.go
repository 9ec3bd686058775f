// Package model holds the numeric entities of the Normal-Gamma inference problem.
//
// The generative model is
//
//	x_i | μ, γ ~ Normal(μ, 1/γ)    i = 1..N
//	μ          ~ Normal(μ0, 1/τ0)
//	γ          ~ Gamma(a0, b0)       (shape, rate)
//
// with independent priors on the mean μ and the precision γ. The variational
// family is the factored product q(μ)q(γ) with q(μ) Normal and q(γ) Gamma.
//
// Priors and datasets are immutable values. Params is the mutable variational
// state; it is copied by value, so an update never aliases a caller's state.
package model
