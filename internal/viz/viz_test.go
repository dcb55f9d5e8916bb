package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"moorstat/internal/model"
	"moorstat/internal/report"
	"moorstat/internal/solver"
)

func TestResidualChart(t *testing.T) {
	require.Empty(t, ResidualChart(nil, 40, 8))
	require.Empty(t, ResidualChart([]float64{1.0}, 40, 8))

	chart := ResidualChart([]float64{1e2, 1e-1, 1e-4, 0}, 40, 8)
	require.Contains(t, chart, "log10 ||F|| per iteration")
}

func TestSummary(t *testing.T) {
	res := solver.Result{Reason: solver.ReasonAbsTol, Iterations: 5, ResidualNorm: 2e-8}
	out := Summary(res, report.Classify(res.Reason))
	require.Contains(t, out, "converged")
	require.Contains(t, out, "5")
	require.Contains(t, out, "2.000000e-08")
}

func TestTables(t *testing.T) {
	m := model.New(model.DefaultEnv())
	lt := &model.LineType{Name: "chain", EA: 1e8}
	require.NoError(t, m.AddLineType(lt))
	a := model.NewNode("anchor", model.NodeFix, [3]float64{0, 0, -100})
	f := model.NewNode("fair", model.NodeVessel, [3]float64{40, 0, 0})
	require.NoError(t, m.AddNode(a))
	require.NoError(t, m.AddNode(f))
	l := model.NewLine(lt, 80, a, f)
	l.H, l.V = 300, 400
	require.NoError(t, m.AddLine(l))

	tens := TensionTable(m)
	require.Contains(t, tens, "chain")
	require.Contains(t, tens, "500.00")

	nodes := NodeTable(m)
	for _, want := range []string{"anchor", "fair", "fix", "vessel", "-100.000"} {
		require.True(t, strings.Contains(nodes, want), want)
	}
}
