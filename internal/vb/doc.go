// Package vb implements coordinate-ascent mean-field variational inference for
// the Normal-Gamma model described in package model.
//
// Each iteration updates the two factors in a fixed order:
//
//  1. q(γ) = Gamma(α, β) given the current q(μ):
//     α = a0 + N/2
//     β = b0 + ½ Σ E_q[(x_i − μ)²]
//  2. q(μ) = Normal(m, 1/t) given the updated q(γ):
//     t = τ0 + N·E[γ]
//     m = (τ0·μ0 + E[γ]·Σx_i) / t
//
// After every iteration the evidence lower bound is recomputed. Coordinate
// ascent on a conjugate-exponential model never decreases the bound, so a
// decrease is reported as a *DivergenceError and the run stops.
//
// The loop is single-threaded. The only suspension point is a context check
// between iterations.
package vb
