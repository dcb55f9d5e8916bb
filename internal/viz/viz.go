// Package viz renders solve diagnostics for the terminal: a styled
// convergence summary, per-line tension tables, and an asciigraph chart of
// the residual history.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"moorstat/internal/model"
	"moorstat/internal/report"
	"moorstat/internal/solver"
)

// ResidualChart plots log10 of the residual-norm history. Returns an empty
// string for fewer than two samples.
func ResidualChart(history []float64, width, height int) string {
	if len(history) < 2 {
		return ""
	}
	data := make([]float64, len(history))
	for i, v := range history {
		if v <= 0 {
			v = 1e-300
		}
		data[i] = math.Log10(v)
	}
	chart := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("log10 ||F|| per iteration"),
	)
	return graphStyle.Render(chart)
}

// Summary renders the outcome of a solve.
func Summary(res solver.Result, st report.Status) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("mooring equilibrium") + "\n")
	status := okStyle
	if !res.Converged() {
		status = failStyle
	}
	rows := []struct{ label, value string }{
		{"status", status.Render(st.Message)},
		{"code", fmt.Sprintf("%d", st.Code)},
		{"iterations", fmt.Sprintf("%d", res.Iterations)},
		{"residual", fmt.Sprintf("%.6e", res.ResidualNorm)},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n")
	}
	return b.String()
}

// TensionTable lists every line's converged tension state.
func TensionTable(m *model.Model) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("line tensions") + "\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%-4s %-10s %12s %12s %12s", "#", "type", "H [N]", "V [N]", "T [N]")) + "\n")
	for i, l := range m.Lines {
		b.WriteString(fmt.Sprintf("%-4d %-10s %12.2f %12.2f %12.2f\n",
			i, l.Type.Name, l.H, l.V, l.Tension()))
	}
	return b.String()
}

// NodeTable lists node positions, marking solved connect nodes.
func NodeTable(m *model.Model) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("node positions") + "\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%-12s %-8s %12s %12s %12s", "name", "kind", "x [m]", "y [m]", "z [m]")) + "\n")
	for _, n := range m.Nodes {
		b.WriteString(fmt.Sprintf("%-12s %-8s %12.3f %12.3f %12.3f\n",
			n.Name, n.Kind, n.Position[0], n.Position[1], n.Position[2]))
	}
	return b.String()
}
