package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mkravets/sdeconv/internal/stats"
	"github.com/mkravets/sdeconv/internal/validate"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")).MarginTop(1)
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// Write renders a scenario result as a terminal report: moment tables,
// sensitivity comparison, fitted convergence exponents and log-log charts.
func Write(out io.Writer, res *validate.Result) {
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("scenario %s", res.Scenario)))

	writeMoments(out, res)
	writeSensitivities(out, res)
	writeFits(out, res)
	writeCharts(out, res)
	writeFailures(out, res)
}

func writeMoments(out io.Writer, res *validate.Result) {
	if len(res.Records) == 0 {
		return
	}
	fmt.Fprintln(out, sectionStyle.Render("error moments"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "eps\tr\tmean |y-w|^r\ty-error\tz-error")
	for _, rec := range res.Records {
		fmt.Fprintf(w, "%g\t%g\t%.6e\t%.6e\t%.6e\n", rec.Eps, rec.R, rec.WAbs, rec.YErr, rec.ZErr)
	}
	w.Flush()
}

func writeSensitivities(out io.Writer, res *validate.Result) {
	if len(res.Sensitivities) == 0 {
		return
	}
	fmt.Fprintln(out, sectionStyle.Render("stochastic sensitivity"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "eps\tempirical\ttheoretical\trel. error")
	for _, p := range res.Sensitivities {
		rel := math.NaN()
		if p.Theoretical != 0 {
			rel = (p.Empirical - p.Theoretical) / p.Theoretical
		}
		fmt.Fprintf(w, "%g\t%.6f\t%.6f\t%+.2f%%\n", p.Eps, p.Empirical, p.Theoretical, 100*rel)
	}
	w.Flush()
}

func writeFits(out io.Writer, res *validate.Result) {
	if len(res.Fits) == 0 {
		return
	}
	fmt.Fprintln(out, sectionStyle.Render("fitted convergence exponents"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "r\t|y-w| slope\ty-error slope\tz-error slope")
	for _, f := range res.Fits {
		fmt.Fprintf(w, "%g\t%s\t%s\t%s\n", f.R,
			fitCell(f.WFit, f.WFitErr), fitCell(f.YFit, f.YFitErr), fitCell(f.ZFit, f.ZFitErr))
	}
	w.Flush()
}

func fitCell(fit *stats.Fit, err error) string {
	if err != nil {
		return fmt.Sprintf("(%v)", err)
	}
	return fmt.Sprintf("%.4f", fit.Slope)
}

// writeCharts plots log10(y-error) against the ε index for each exponent.
// The ε sequence is decreasing, so a descending chart is convergence.
func writeCharts(out io.Writer, res *validate.Result) {
	eps := res.CompletedEps()
	if len(eps) < 2 {
		return
	}

	for _, f := range res.Fits {
		if f.YFitErr != nil {
			continue
		}
		data := make([]float64, 0, len(eps))
		plottable := true
		for _, rec := range res.Records {
			if rec.R != f.R {
				continue
			}
			if rec.YErr <= 0 {
				plottable = false
				break
			}
			data = append(data, math.Log10(rec.YErr))
		}
		// A non-positive point would desync the chart from the ε
		// sequence; skip the whole chart instead.
		if !plottable || len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("log10 y-error, r=%g (slope %.3f)", f.R, f.YFit.Slope)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
}

func writeFailures(out io.Writer, res *validate.Result) {
	if len(res.Failures) == 0 {
		return
	}
	fmt.Fprintln(out, failStyle.Render("failed units"))
	var b strings.Builder
	for _, f := range res.Failures {
		fmt.Fprintf(&b, "  eps=%g: %v\n", f.Eps, f.Err)
	}
	fmt.Fprint(out, b.String())
}
