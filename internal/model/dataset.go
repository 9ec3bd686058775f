package model

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Dataset is an immutable set of scalar observations with cached sufficient
// statistics.
type Dataset struct {
	xs    []float64
	sum   float64
	sumSq float64
}

// NewDataset copies xs into a Dataset.
func NewDataset(xs []float64) Dataset {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sumSq := 0.0
	for _, x := range cp {
		sumSq += x * x
	}
	return Dataset{xs: cp, sum: floats.Sum(cp), sumSq: sumSq}
}

// Sample draws n observations from Normal(mean, 1/precision) using a PCG
// source seeded with seed. The same arguments always produce the same data.
func Sample(n int, mean, precision float64, seed uint64) (Dataset, error) {
	if n < 0 {
		return Dataset{}, fmt.Errorf("sample size must be >= 0, got %d", n)
	}
	if !(precision > 0) {
		return Dataset{}, fmt.Errorf("true precision must be > 0, got %v", precision)
	}
	dist := distuv.Normal{
		Mu:    mean,
		Sigma: 1 / math.Sqrt(precision),
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = dist.Rand()
	}
	return NewDataset(xs), nil
}

// Values returns a copy of the observations.
func (d Dataset) Values() []float64 {
	cp := make([]float64, len(d.xs))
	copy(cp, d.xs)
	return cp
}

// N is the number of observations.
func (d Dataset) N() int { return len(d.xs) }

// Sum is Σ x_i.
func (d Dataset) Sum() float64 { return d.sum }

// SumSq is Σ x_i².
func (d Dataset) SumSq() float64 { return d.sumSq }

// Mean is the sample mean, NaN when empty.
func (d Dataset) Mean() float64 {
	if len(d.xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(d.xs, nil)
}

// Variance is the unbiased sample variance, NaN for fewer than two points.
func (d Dataset) Variance() float64 {
	if len(d.xs) < 2 {
		return math.NaN()
	}
	return stat.Variance(d.xs, nil)
}

// PopulationVariance is the maximum-likelihood variance, NaN when empty.
func (d Dataset) PopulationVariance() float64 {
	if len(d.xs) == 0 {
		return math.NaN()
	}
	_, v := stat.PopMeanVariance(d.xs, nil)
	return v
}

// SquaredDeviation is Σ (x_i - m)², summed term by term.
func (d Dataset) SquaredDeviation(m float64) float64 {
	var s float64
	for _, x := range d.xs {
		r := x - m
		s += r * r
	}
	return s
}
