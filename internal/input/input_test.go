package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"moorstat/internal/model"
)

const sampleYAML = `
environment:
  gravity: 9.81
  sea_density: 1020
  depth: 120

line_types:
  - name: chain
    diameter: 0.1
    mass_density: 100
    ea: 1.0e8
    cb: 1.0
  - name: rope
    ea: 1.0e7

nodes:
  - name: anchor
    type: fix
    x: 0
    y: 0
    z: -120
  - name: junction
    type: connect
    x: 100
    y: 0
    z: -30
    mass: 500
    volume: 2
    fz: 1.0e4
  - name: fairlead
    type: vessel
    x: 140
    y: 10
    z: 0

lines:
  - type: chain
    length: 160
    anchor: anchor
    fairlead: junction
  - type: rope
    length: 45
    anchor: junction
    fairlead: fairlead
    h0: 2000
    v0: 1500
`

func TestLoadSampleModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	m, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9.81, m.Env.Gravity)
	require.Equal(t, 1020.0, m.Env.SeaDensity)
	require.Equal(t, 120.0, m.Env.Depth)

	require.Len(t, m.LineTypes, 2)
	require.Len(t, m.Nodes, 3)
	require.Len(t, m.Lines, 2)

	junction, ok := m.Node("junction")
	require.True(t, ok)
	require.Equal(t, model.NodeConnect, junction.Kind)
	require.Equal(t, [3]float64{100, 0, -30}, junction.Position)
	require.Equal(t, 500.0, junction.Mass)
	require.Equal(t, [3]float64{0, 0, 1e4}, junction.Applied)

	anchor, _ := m.Node("anchor")
	require.Equal(t, model.NodeFix, anchor.Kind)
	require.Equal(t, 0, anchor.ActiveDOF())

	require.Equal(t, "chain", m.Lines[0].Type.Name)
	require.Same(t, anchor, m.Lines[0].Anchor)
	require.Same(t, junction, m.Lines[0].Fairlead)
	require.Equal(t, 2000.0, m.Lines[1].H)
	require.Equal(t, 1500.0, m.Lines[1].V)

	require.NoError(t, m.Validate())
}

func TestBuildDefaultsEnvironment(t *testing.T) {
	m, err := Build(&File{
		LineTypes: []LineTypeSpec{{Name: "rope", EA: 1e7}},
		Nodes: []NodeSpec{
			{Name: "a", Type: "fixed", Z: -50},
			{Name: "b", Type: "vessel", X: 12, Z: -50},
		},
		Lines: []LineSpec{{Type: "rope", Length: 10, Anchor: "a", Fairlead: "b"}},
	})
	require.NoError(t, err)
	require.Equal(t, model.DefaultEnv(), m.Env)
}

func TestBuildErrors(t *testing.T) {
	base := func() *File {
		return &File{
			LineTypes: []LineTypeSpec{{Name: "rope", EA: 1e7}},
			Nodes: []NodeSpec{
				{Name: "a", Type: "fix"},
				{Name: "b", Type: "vessel", X: 12},
			},
			Lines: []LineSpec{{Type: "rope", Length: 10, Anchor: "a", Fairlead: "b"}},
		}
	}

	f := base()
	f.LineTypes[0].Name = ""
	_, err := Build(f)
	require.ErrorContains(t, err, "empty name")

	f = base()
	f.Nodes[0].Type = "free"
	_, err = Build(f)
	require.ErrorContains(t, err, "unknown node type")

	f = base()
	f.Nodes[1].Name = "a"
	_, err = Build(f)
	require.ErrorContains(t, err, "duplicate node")

	f = base()
	f.Lines[0].Type = "wire"
	_, err = Build(f)
	require.ErrorContains(t, err, "unknown line type")

	f = base()
	f.Lines[0].Anchor = "missing"
	_, err = Build(f)
	require.ErrorContains(t, err, "unknown anchor node")

	f = base()
	f.Lines[0].Fairlead = "missing"
	_, err = Build(f)
	require.ErrorContains(t, err, "unknown fairlead node")

	f = base()
	f.Lines[0].Length = 0
	_, err = Build(f)
	require.ErrorContains(t, err, "non-positive length")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes: {not: [a, list"), 0644))
	_, err = Load(path)
	require.Error(t, err)
}
