package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"moorstat/internal/model"
	"moorstat/internal/report"
	"moorstat/internal/solver"
)

func solvedModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New(model.DefaultEnv())
	lt := &model.LineType{Name: "chain", Diameter: 0.1, MassDen: 100, EA: 1e8, Cb: 1}
	require.NoError(t, m.AddLineType(lt))

	a := model.NewNode("anchor", model.NodeFix, [3]float64{0, 0, -100})
	f := model.NewNode("fair", model.NodeVessel, [3]float64{40, 0, -30})
	require.NoError(t, m.AddNode(a))
	require.NoError(t, m.AddNode(f))

	l := model.NewLine(lt, 80, a, f)
	l.H, l.V = 1e5, 2e5
	require.NoError(t, m.AddLine(l))
	require.NoError(t, m.Validate())
	return m
}

func TestWriteJSONSummary(t *testing.T) {
	m := solvedModel(t)
	res := solver.Result{Reason: solver.ReasonAbsTol, Iterations: 7, ResidualNorm: 3.2e-7}
	sum := NewSummary(m, res, report.Classify(res.Reason))

	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, sum.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Summary
	require.NoError(t, json.Unmarshal(data, &back))

	require.Equal(t, 2, back.StatusCode)
	require.True(t, back.Converged)
	require.Equal(t, 7, back.Iterations)
	require.Len(t, back.Lines, 1)
	require.Len(t, back.Nodes, 2)
	require.Equal(t, "chain", back.Lines[0].Type)
	require.Equal(t, "anchor", back.Lines[0].Anchor)
	require.InDelta(t, m.Lines[0].Tension(), back.Lines[0].Tension, 1e-6)
	require.Equal(t, "fix", back.Nodes[0].Kind)
}

func TestWriteTensionsCSV(t *testing.T) {
	m := solvedModel(t)
	path := filepath.Join(t.TempDir(), "tensions.csv")
	require.NoError(t, WriteTensionsCSV(path, m))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"line", "type", "anchor", "fairlead", "h_n", "v_n", "tension_n"}, rows[0])
	require.Equal(t, "0", rows[1][0])
	require.Equal(t, "chain", rows[1][1])
	require.Equal(t, "100000.000000", rows[1][4])
}

func TestPlotProfiles(t *testing.T) {
	m := solvedModel(t)
	path := filepath.Join(t.TempDir(), "profiles.png")
	require.NoError(t, PlotProfiles(path, m))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, fi.Size(), int64(0))
}
