package viz

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/roach88/meanfield/internal/model"
)

// Default image geometry.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 5 * vg.Inch
	DefaultCols   = 120
	DefaultRows   = 120
)

// levelDrops are the contour depths below the peak log-density.
var levelDrops = []float64{0.5, 1, 2, 4, 8, 16}

// Truth is the generating (μ, γ) pair marked on the plot.
type Truth struct {
	Mean      float64
	Precision float64
}

// Options tune the rendering. Zero values select the defaults.
type Options struct {
	Title      string
	Width      vg.Length
	Height     vg.Length
	Cols, Rows int
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Variational posterior q(μ)q(γ)"
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Cols == 0 {
		o.Cols = DefaultCols
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	return o
}

// Levels returns the contour levels for a grid, ascending.
func Levels(g *Grid) []float64 {
	peak, _, _ := g.Max()
	levels := make([]float64, len(levelDrops))
	for i, d := range levelDrops {
		levels[i] = peak - d
	}
	sort.Float64s(levels)
	return levels
}

// Build assembles the contour plot of q. When truth is non-nil the
// generating parameters are marked and kept inside the axes.
func Build(q model.Params, truth *Truth, opts Options) (*plot.Plot, error) {
	opts = opts.withDefaults()

	var include [][2]float64
	if truth != nil {
		include = append(include, [2]float64{truth.Mean, truth.Precision})
	}
	extent := DefaultExtent(q, include...)
	grid, err := NewGrid(q, extent, opts.Cols, opts.Rows)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "mean μ"
	p.Y.Label.Text = "precision γ"

	contour := plotter.NewContour(grid, Levels(grid), palette.Heat(len(levelDrops), 1))
	p.Add(contour)

	if truth != nil {
		truthPts, err := plotter.NewScatter(plotter.XYs{{X: truth.Mean, Y: truth.Precision}})
		if err != nil {
			return nil, fmt.Errorf("truth marker: %w", err)
		}
		truthPts.GlyphStyle.Shape = draw.CrossGlyph{}
		truthPts.GlyphStyle.Radius = vg.Points(5)
		truthPts.GlyphStyle.Color = color.RGBA{B: 200, A: 255}
		p.Add(truthPts)
		p.Legend.Add(fmt.Sprintf("true (μ=%.3g, γ=%.3g)", truth.Mean, truth.Precision), truthPts)
	}

	meanPts, err := plotter.NewScatter(plotter.XYs{{X: q.Mu, Y: q.ExpectedPrecision()}})
	if err != nil {
		return nil, fmt.Errorf("posterior marker: %w", err)
	}
	meanPts.GlyphStyle.Shape = draw.CircleGlyph{}
	meanPts.GlyphStyle.Radius = vg.Points(3)
	meanPts.GlyphStyle.Color = color.Black

	p.Add(meanPts, plotter.NewGrid())
	p.Legend.Add("posterior mean", meanPts)
	p.Legend.Top = true

	p.X.Min, p.X.Max = extent.MuMin, extent.MuMax
	p.Y.Min, p.Y.Max = extent.GammaMin, extent.GammaMax
	return p, nil
}

// Render writes the plot to w in the given format ("png", "svg", "pdf", ...).
// A nil truth leaves the generating parameters off the plot.
func Render(w io.Writer, format string, q model.Params, truth *Truth, opts Options) error {
	p, err := Build(q, truth, opts)
	if err != nil {
		return err
	}
	opts = opts.withDefaults()
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}

// Save renders the plot to path, choosing the format from its extension.
func Save(path string, q model.Params, truth *Truth, opts Options) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("plot path %q has no extension", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plot file: %w", err)
	}
	if err := Render(f, format, q, truth, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
