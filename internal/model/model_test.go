package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func chainType() *LineType {
	return &LineType{Name: "chain", Diameter: 0.1, MassDen: 100, EA: 1e8, Cb: 1}
}

func twoLineModel(t *testing.T) (*Model, *Node) {
	t.Helper()
	m := New(DefaultEnv())
	lt := chainType()
	require.NoError(t, m.AddLineType(lt))

	anchor := NewNode("anchor", NodeFix, [3]float64{0, 0, -100})
	junction := NewNode("junction", NodeConnect, [3]float64{150, 0, -30})
	vessel := NewNode("fairlead", NodeVessel, [3]float64{200, 0, 0})
	require.NoError(t, m.AddNode(anchor))
	require.NoError(t, m.AddNode(junction))
	require.NoError(t, m.AddNode(vessel))

	require.NoError(t, m.AddLine(NewLine(lt, 180, anchor, junction)))
	require.NoError(t, m.AddLine(NewLine(lt, 60, junction, vessel)))
	return m, junction
}

func TestLayoutAndUnknownCount(t *testing.T) {
	m, _ := twoLineModel(t)
	require.NoError(t, m.Validate())

	require.Equal(t, 3, m.NumNodeEqs())
	require.Equal(t, 3+2*2, m.NumUnknowns())

	require.Equal(t, [3]int{-1, -1, -1}, m.EqIndex(0))
	require.Equal(t, [3]int{0, 1, 2}, m.EqIndex(1))
	require.Equal(t, [3]int{-1, -1, -1}, m.EqIndex(2))
}

func TestPackApplyRoundTrip(t *testing.T) {
	m, junction := twoLineModel(t)
	require.NoError(t, m.Validate())

	x := make([]float64, m.NumUnknowns())
	m.PackState(x)
	require.Equal(t, junction.Position[0], x[0])
	require.Equal(t, m.Lines[0].H, x[3])
	require.Equal(t, m.Lines[1].V, x[6])

	x[0] = 151.5
	x[2] = -31.0
	x[3] = 4321.0
	m.ApplyState(x)
	require.Equal(t, 151.5, junction.Position[0])
	require.Equal(t, -31.0, junction.Position[2])
	require.Equal(t, 4321.0, m.Lines[0].H)

	// fixed-node positions are never touched by the state vector
	require.Equal(t, [3]float64{0, 0, -100}, m.Nodes[0].Position)
}

func TestValidateComputesOmega(t *testing.T) {
	m, _ := twoLineModel(t)
	require.NoError(t, m.Validate())

	lt := m.LineTypes[0]
	area := math.Pi * lt.Diameter * lt.Diameter / 4
	want := m.Env.Gravity * (lt.MassDen - m.Env.SeaDensity*area)
	require.InDelta(t, want, m.Lines[0].Omega, 1e-9)
	require.Greater(t, m.Lines[0].Omega, 0.0)
}

func TestValidateSeedsTensionGuesses(t *testing.T) {
	m, _ := twoLineModel(t)
	m.Lines[1].H, m.Lines[1].V = 500, 250
	require.NoError(t, m.Validate())

	// line 0 had no guess: seeded positive
	require.Greater(t, m.Lines[0].H, 0.0)
	// line 1's caller-supplied guess survives
	require.Equal(t, 500.0, m.Lines[1].H)
	require.Equal(t, 250.0, m.Lines[1].V)
}

func TestValidateErrors(t *testing.T) {
	m := New(DefaultEnv())
	require.ErrorIs(t, m.Validate(), ErrNoEquations)

	m, _ = twoLineModel(t)
	m.Nodes[0].ActiveZ = true
	require.Error(t, m.Validate())

	m, _ = twoLineModel(t)
	m.LineTypes[0].EA = 0
	require.Error(t, m.Validate())
}

func TestAddRejectsDuplicatesAndDanglingRefs(t *testing.T) {
	m := New(DefaultEnv())
	lt := chainType()
	require.NoError(t, m.AddLineType(lt))
	require.Error(t, m.AddLineType(&LineType{Name: "chain"}))

	a := NewNode("a", NodeFix, [3]float64{})
	require.NoError(t, m.AddNode(a))
	require.Error(t, m.AddNode(NewNode("a", NodeConnect, [3]float64{})))

	outsider := NewNode("b", NodeConnect, [3]float64{10, 0, 0})
	require.Error(t, m.AddLine(NewLine(lt, 10, a, outsider)))
	require.Error(t, m.AddLine(NewLine(lt, 10, a, a)))
	require.Error(t, m.AddLine(NewLine(nil, 10, a, outsider)))

	require.NoError(t, m.AddNode(outsider))
	require.NoError(t, m.AddLine(NewLine(lt, 10, a, outsider)))
}

func TestFrozenModelRejectsStructuralChanges(t *testing.T) {
	m, _ := twoLineModel(t)
	m.Freeze()

	require.ErrorIs(t, m.AddLineType(&LineType{Name: "wire"}), ErrFrozen)
	require.ErrorIs(t, m.AddNode(NewNode("x", NodeFix, [3]float64{})), ErrFrozen)
	require.ErrorIs(t, m.AddLine(NewLine(m.LineTypes[0], 5, m.Nodes[0], m.Nodes[1])), ErrFrozen)

	m.Thaw()
	require.NoError(t, m.AddLineType(&LineType{Name: "wire", EA: 1e7}))
}

func TestChordAzimuth(t *testing.T) {
	a := NewNode("a", NodeFix, [3]float64{1, 2, -50})
	f := NewNode("f", NodeVessel, [3]float64{4, 6, 0})
	l := NewLine(chainType(), 60, a, f)

	span, rise, c, s := l.Chord()
	require.InDelta(t, 5, span, 1e-12)
	require.InDelta(t, 50, rise, 1e-12)
	require.InDelta(t, 3.0/5, c, 1e-12)
	require.InDelta(t, 4.0/5, s, 1e-12)

	// vertical line pins the azimuth to x
	f.Position = [3]float64{1, 2, 0}
	_, _, c, s = l.Chord()
	require.Equal(t, 1.0, c)
	require.Equal(t, 0.0, s)
}

func TestTensionGuessSlackCatenary(t *testing.T) {
	a := NewNode("a", NodeFix, [3]float64{0, 0, -80})
	f := NewNode("f", NodeVessel, [3]float64{60, 0, 0})
	l := NewLine(chainType(), 110, a, f)
	l.Omega = 900

	l.guessTensions()
	span := 60.0
	lambda := math.Sqrt(3 * ((110*110-80*80)/(span*span) - 1))
	require.InDelta(t, 900*span/(2*lambda), l.H, 1e-9)
	require.InDelta(t, 450*(80/math.Tanh(lambda)+110), l.V, 1e-9)
}

func TestTensionGuessTautRod(t *testing.T) {
	a := NewNode("a", NodeFix, [3]float64{0, 0, 0})
	f := NewNode("f", NodeVessel, [3]float64{30, 0, 40})
	lt := &LineType{Name: "rope", EA: 1e6}
	l := NewLine(lt, 45, a, f) // chord 50 > 45

	l.guessTensions()
	t0 := 1e6 * (50.0 - 45.0) / 45.0
	require.InDelta(t, t0*30/50, l.H, 1e-6)
	require.InDelta(t, t0*40/50, l.V, 1e-6)
}
