package model

import (
	"errors"
	"fmt"
	"math"
)

// Env holds the ambient properties every line shares.
type Env struct {
	Gravity    float64 // m/s^2
	SeaDensity float64 // kg/m^3
	Depth      float64 // water depth, m (positive down)
}

// DefaultEnv returns standard seawater conditions.
func DefaultEnv() Env {
	return Env{Gravity: 9.80665, SeaDensity: 1025.0, Depth: 100.0}
}

var (
	// ErrFrozen is returned for structural changes while a solve session
	// owns the model.
	ErrFrozen = errors.New("model: structural change during an active session")
	// ErrNoEquations is returned by Validate for a model with an empty
	// constraint vector.
	ErrNoEquations = errors.New("model: no equations to solve")
)

// Model owns the mooring network for the lifetime of a solve. Structural
// changes are permitted only before a session freezes it.
type Model struct {
	Env       Env
	Nodes     []*Node
	Lines     []*Line
	LineTypes []*LineType

	frozen     bool
	numNodeEqs int
	eqIdx      [][3]int // per node, constraint index of each axis or -1
}

// New builds an empty model under the given environment.
func New(env Env) *Model {
	return &Model{Env: env}
}

// Freeze forbids structural changes until Thaw. Called by the solver session
// at Initialize.
func (m *Model) Freeze() { m.frozen = true }

// Thaw re-enables structural changes after a session ends.
func (m *Model) Thaw() { m.frozen = false }

// AddLineType registers a material template. Names must be unique.
func (m *Model) AddLineType(lt *LineType) error {
	if m.frozen {
		return ErrFrozen
	}
	for _, have := range m.LineTypes {
		if have.Name == lt.Name {
			return fmt.Errorf("model: duplicate line type %q", lt.Name)
		}
	}
	m.LineTypes = append(m.LineTypes, lt)
	return nil
}

// LineType looks up a registered material template by name.
func (m *Model) LineType(name string) (*LineType, bool) {
	for _, lt := range m.LineTypes {
		if lt.Name == name {
			return lt, true
		}
	}
	return nil, false
}

// AddNode registers a node. Names must be unique.
func (m *Model) AddNode(n *Node) error {
	if m.frozen {
		return ErrFrozen
	}
	for _, have := range m.Nodes {
		if have.Name == n.Name {
			return fmt.Errorf("model: duplicate node %q", n.Name)
		}
	}
	m.Nodes = append(m.Nodes, n)
	return nil
}

// Node looks up a registered node by name.
func (m *Model) Node(name string) (*Node, bool) {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// AddLine registers a line. Both end nodes and the type must already be
// registered.
func (m *Model) AddLine(l *Line) error {
	if m.frozen {
		return ErrFrozen
	}
	if l.Type == nil {
		return errors.New("model: line has no type")
	}
	if l.Anchor == nil || l.Fairlead == nil {
		return errors.New("model: line missing an end node")
	}
	if l.Anchor == l.Fairlead {
		return fmt.Errorf("model: line connects node %q to itself", l.Anchor.Name)
	}
	if !m.registered(l.Anchor) || !m.registered(l.Fairlead) {
		return errors.New("model: line references an unregistered node")
	}
	m.Lines = append(m.Lines, l)
	return nil
}

func (m *Model) registered(n *Node) bool {
	for _, have := range m.Nodes {
		if have == n {
			return true
		}
	}
	return false
}

// Validate checks the assembled network, fixes the constraint-vector layout,
// caches each line's net submerged weight, and seeds missing tension guesses.
// It must be called (directly or through the session) before any assembly.
func (m *Model) Validate() error {
	if len(m.Lines) == 0 {
		return ErrNoEquations
	}
	m.eqIdx = make([][3]int, len(m.Nodes))
	cnt := 0
	for i, n := range m.Nodes {
		m.eqIdx[i] = [3]int{-1, -1, -1}
		if n.Kind != NodeConnect && n.ActiveDOF() != 0 {
			return fmt.Errorf("model: %s node %q has active equations", n.Kind, n.Name)
		}
		if n.ActiveX {
			m.eqIdx[i][0] = cnt
			cnt++
		}
		if n.ActiveY {
			m.eqIdx[i][1] = cnt
			cnt++
		}
		if n.ActiveZ {
			m.eqIdx[i][2] = cnt
			cnt++
		}
	}
	m.numNodeEqs = cnt

	for i, l := range m.Lines {
		if l.Type.EA <= 0 {
			return fmt.Errorf("model: line %d type %q has non-positive stiffness", i, l.Type.Name)
		}
		a := math.Pi * l.Type.Diameter * l.Type.Diameter / 4
		l.Omega = m.Env.Gravity * (l.Type.MassDen - m.Env.SeaDensity*a)
		if l.H == 0 && l.V == 0 {
			l.guessTensions()
		}
	}
	return nil
}

// NumNodeEqs returns the number of active node force-balance equations.
// Valid after Validate.
func (m *Model) NumNodeEqs() int { return m.numNodeEqs }

// NumUnknowns returns the constraint-vector length: active node DOFs plus an
// (H, V) pair per line. Valid after Validate.
func (m *Model) NumUnknowns() int { return m.numNodeEqs + 2*len(m.Lines) }

// EqIndex returns the constraint indices of node i's axes, -1 for inactive.
func (m *Model) EqIndex(i int) [3]int { return m.eqIdx[i] }

// PackState copies the model state into a constraint vector: active node
// position components first, then each line's (H, V).
func (m *Model) PackState(dst []float64) {
	for i, n := range m.Nodes {
		for axis := 0; axis < 3; axis++ {
			if idx := m.eqIdx[i][axis]; idx >= 0 {
				dst[idx] = n.Position[axis]
			}
		}
	}
	for i, l := range m.Lines {
		dst[m.numNodeEqs+2*i] = l.H
		dst[m.numNodeEqs+2*i+1] = l.V
	}
}

// ApplyState writes a constraint vector back into node positions and line
// tensions. The inverse of PackState.
func (m *Model) ApplyState(src []float64) {
	for i, n := range m.Nodes {
		for axis := 0; axis < 3; axis++ {
			if idx := m.eqIdx[i][axis]; idx >= 0 {
				n.Position[axis] = src[idx]
			}
		}
	}
	for i, l := range m.Lines {
		l.H = src[m.numNodeEqs+2*i]
		l.V = src[m.numNodeEqs+2*i+1]
	}
}
