package viz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/roach88/meanfield/internal/model"
)

// minPrecision keeps the precision axis strictly positive.
const minPrecision = 1e-6

// Extent is the rectangle of (μ, γ) covered by a grid.
type Extent struct {
	MuMin, MuMax       float64
	GammaMin, GammaMax float64
}

// Contains reports whether (mu, gamma) lies inside e.
func (e Extent) Contains(mu, gamma float64) bool {
	return mu >= e.MuMin && mu <= e.MuMax && gamma >= e.GammaMin && gamma <= e.GammaMax
}

// DefaultExtent spans ±4 posterior standard deviations around the means of
// q(μ) and q(γ), widened so that every point in include is visible with a
// margin.
func DefaultExtent(q model.Params, include ...[2]float64) Extent {
	muSD, gSD := q.MeanStdDev(), q.PrecisionStdDev()
	eg := q.ExpectedPrecision()
	e := Extent{
		MuMin:    q.Mu - 4*muSD,
		MuMax:    q.Mu + 4*muSD,
		GammaMin: math.Max(minPrecision, eg-4*gSD),
		GammaMax: eg + 4*gSD,
	}
	for _, pt := range include {
		mu, g := pt[0], pt[1]
		if mu < e.MuMin {
			e.MuMin = mu - 0.5*muSD
		}
		if mu > e.MuMax {
			e.MuMax = mu + 0.5*muSD
		}
		if g < e.GammaMin {
			e.GammaMin = math.Max(minPrecision, g-0.5*gSD)
		}
		if g > e.GammaMax {
			e.GammaMax = g + 0.5*gSD
		}
	}
	return e
}

// LogDensity is log q(μ) + log q(γ).
func LogDensity(q model.Params, mu, gamma float64) float64 {
	normal := distuv.Normal{Mu: q.Mu, Sigma: q.MeanStdDev()}
	gammaDist := distuv.Gamma{Alpha: q.Alpha, Beta: q.Beta}
	return normal.LogProb(mu) + gammaDist.LogProb(gamma)
}

// Grid holds the log-density of q over a regular (μ, γ) lattice. It
// implements gonum.org/v1/plot/plotter.GridXYZ with μ on the x axis.
type Grid struct {
	mu    []float64
	gamma []float64
	z     []float64 // row-major: z[r*len(mu)+c]
}

// NewGrid evaluates LogDensity on a cols×rows lattice over e.
func NewGrid(q model.Params, e Extent, cols, rows int) (*Grid, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("grid needs at least 2x2 points, got %dx%d", cols, rows)
	}
	if !(e.MuMax > e.MuMin) || !(e.GammaMax > e.GammaMin) || e.GammaMin <= 0 {
		return nil, fmt.Errorf("invalid extent %+v", e)
	}
	g := &Grid{
		mu:    linspace(e.MuMin, e.MuMax, cols),
		gamma: linspace(e.GammaMin, e.GammaMax, rows),
		z:     make([]float64, cols*rows),
	}
	for r, y := range g.gamma {
		for c, x := range g.mu {
			g.z[r*cols+c] = LogDensity(q, x, y)
		}
	}
	return g, nil
}

// Dims returns the number of columns (μ values) and rows (γ values).
func (g *Grid) Dims() (c, r int) { return len(g.mu), len(g.gamma) }

// Z returns the log-density at column c, row r.
func (g *Grid) Z(c, r int) float64 { return g.z[r*len(g.mu)+c] }

// X returns the μ value of column c.
func (g *Grid) X(c int) float64 { return g.mu[c] }

// Y returns the γ value of row r.
func (g *Grid) Y(r int) float64 { return g.gamma[r] }

// Max returns the largest finite log-density on the grid and its location.
func (g *Grid) Max() (z, mu, gamma float64) {
	z = math.Inf(-1)
	for r := range g.gamma {
		for c := range g.mu {
			if v := g.Z(c, r); v > z && !math.IsInf(v, 0) {
				z, mu, gamma = v, g.mu[c], g.gamma[r]
			}
		}
	}
	return z, mu, gamma
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
