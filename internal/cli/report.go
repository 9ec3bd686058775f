package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/meanfield/internal/config"
	"github.com/roach88/meanfield/internal/model"
	"github.com/roach88/meanfield/internal/vb"
)

// Estimate is a (mean, precision) pair with optional spreads. Nil fields are
// undefined (e.g. the variance of fewer than two points).
type Estimate struct {
	Mean        *float64 `json:"mean,omitempty"`
	Precision   *float64 `json:"precision,omitempty"`
	MeanSD      *float64 `json:"mean_sd,omitempty"`
	PrecisionSD *float64 `json:"precision_sd,omitempty"`
}

// Summary compares the fitted posterior with the data statistics, the prior
// and the generating parameters.
type Summary struct {
	RunID       string       `json:"run_id"`
	Label       string       `json:"label"`
	Fingerprint string       `json:"fingerprint"`
	N           int          `json:"n"`
	Iterations  int          `json:"iterations"`
	Converged   bool         `json:"converged"`
	ELBO        float64      `json:"elbo"`
	Params      model.Params `json:"params"`
	Posterior   Estimate     `json:"posterior"`
	Data        Estimate     `json:"data"`
	Prior       Estimate     `json:"prior"`
	Truth       *Estimate    `json:"truth,omitempty"` // only for sampled data
}

// FitReport is the JSON payload of the fit command.
type FitReport struct {
	Summary Summary        `json:"summary"`
	Trace   []vb.Iteration `json:"trace"`
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

// newSummary builds the comparison for a finished run.
func newSummary(runID, fp string, cfg config.Config, data model.Dataset, res *vb.Result) Summary {
	q := res.Params
	s := Summary{
		RunID:       runID,
		Label:       cfg.Label,
		Fingerprint: fp,
		N:           data.N(),
		Iterations:  res.Iterations,
		Converged:   res.Converged,
		ELBO:        res.ELBO,
		Params:      q,
		Posterior: Estimate{
			Mean:        finite(q.Mu),
			Precision:   finite(q.ExpectedPrecision()),
			MeanSD:      finite(q.MeanStdDev()),
			PrecisionSD: finite(q.PrecisionStdDev()),
		},
		Data: Estimate{
			Mean:      finite(data.Mean()),
			Precision: finite(1 / data.Variance()),
		},
		Prior: Estimate{
			Mean:        finite(cfg.Priors.MuPrior),
			Precision:   finite(cfg.Priors.ExpectedPrecision()),
			MeanSD:      finite(1 / math.Sqrt(cfg.Priors.TauPrior)),
			PrecisionSD: finite(math.Sqrt(cfg.Priors.AlphaPrior) / cfg.Priors.BetaPrior),
		},
	}
	if cfg.Data == nil {
		s.Truth = &Estimate{
			Mean:      finite(cfg.Truth.Mean),
			Precision: finite(cfg.Truth.Precision),
		}
	}
	return s
}

// formatIteration renders one iterate as a fixed-width console line.
func formatIteration(it vb.Iteration) string {
	q := it.Params
	return fmt.Sprintf("%4d  q_alpha=%-12.6g q_beta=%-12.6g q_mu=%-12.6g q_tau=%-12.6g elbo=%.10g",
		it.Index, q.Alpha, q.Beta, q.Mu, q.Tau, it.ELBO)
}

func formatValue(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'g', 6, 64)
}

// writeSummary renders s as a header block followed by a comparison table.
func writeSummary(w io.Writer, s Summary) {
	status := "converged"
	if !s.Converged {
		status = "not converged (iteration cap)"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "run          %s\n", s.RunID)
	fmt.Fprintf(w, "config       %s (%s)\n", s.Label, s.Fingerprint)
	fmt.Fprintf(w, "observations %d\n", s.N)
	fmt.Fprintf(w, "iterations   %d, %s\n", s.Iterations, status)
	fmt.Fprintf(w, "elbo         %.10g\n", s.ELBO)
	fmt.Fprintln(w)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	header := table.Row{"", "posterior", "data", "prior"}
	if s.Truth != nil {
		header = append(header, "truth")
	}
	tw.AppendHeader(header)

	row := func(name string, pick func(Estimate) *float64) {
		r := table.Row{name, formatValue(pick(s.Posterior)), formatValue(pick(s.Data)), formatValue(pick(s.Prior))}
		if s.Truth != nil {
			r = append(r, formatValue(pick(*s.Truth)))
		}
		tw.AppendRow(r)
	}
	row("mean μ", func(e Estimate) *float64 { return e.Mean })
	row("precision γ", func(e Estimate) *float64 { return e.Precision })
	row("sd(μ)", func(e Estimate) *float64 { return e.MeanSD })
	row("sd(γ)", func(e Estimate) *float64 { return e.PrecisionSD })

	cfgs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= len(header); i++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(cfgs)
	tw.Render()
}
