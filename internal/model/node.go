package model

// NodeKind classifies how a node participates in the equilibrium problem.
type NodeKind int

const (
	// NodeFix is anchored to the seabed; its position never changes.
	NodeFix NodeKind = iota
	// NodeConnect is a free junction; its position is solved for.
	NodeConnect
	// NodeVessel is prescribed by the floating structure; fixed during a solve.
	NodeVessel
)

func (k NodeKind) String() string {
	switch k {
	case NodeFix:
		return "fix"
	case NodeConnect:
		return "connect"
	case NodeVessel:
		return "vessel"
	}
	return "unknown"
}

// Node is a connection point in the mooring network. Force accumulators are
// scratch state, zeroed at the start of every residual evaluation.
type Node struct {
	Name     string
	Kind     NodeKind
	Position [3]float64
	Mass     float64    // kg
	Volume   float64    // displaced volume, m^3
	Applied  [3]float64 // externally applied force, N

	// Newton equation flags; true only for connect nodes.
	ActiveX, ActiveY, ActiveZ bool

	SumFX, SumFY, SumFZ float64
}

// NewNode builds a node of the given kind at pos. Connect nodes get all three
// Newton equations activated; fix and vessel nodes contribute no unknowns.
func NewNode(name string, kind NodeKind, pos [3]float64) *Node {
	n := &Node{Name: name, Kind: kind, Position: pos}
	if kind == NodeConnect {
		n.ActiveX, n.ActiveY, n.ActiveZ = true, true, true
	}
	return n
}

// ResetForce zeroes the force accumulators. No carry-over is permitted
// between residual evaluations.
func (n *Node) ResetForce() {
	n.SumFX, n.SumFY, n.SumFZ = 0, 0, 0
}

// AddForce accumulates a line-pull contribution.
func (n *Node) AddForce(fx, fy, fz float64) {
	n.SumFX += fx
	n.SumFY += fy
	n.SumFZ += fz
}

// ActiveDOF reports how many Newton equations this node contributes.
func (n *Node) ActiveDOF() int {
	c := 0
	if n.ActiveX {
		c++
	}
	if n.ActiveY {
		c++
	}
	if n.ActiveZ {
		c++
	}
	return c
}
