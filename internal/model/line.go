package model

import "math"

// LineType is an immutable material template shared by reference across lines.
type LineType struct {
	Name     string
	Diameter float64 // m
	MassDen  float64 // dry mass per unit length, kg/m
	EA       float64 // axial stiffness, N
	Cb       float64 // seabed friction coefficient
	CIntern  float64 // internal structural damping (unused by the static solve)
	Cdn      float64 // normal drag coefficient (unused by the static solve)
	Cdt      float64 // tangential drag coefficient (unused by the static solve)
}

// Line is an elastic catenary segment between an anchor node and a fairlead
// node. H and V are the horizontal and vertical fairlead tension components,
// iterated by the solver; the taut convention requires H >= 0.
type Line struct {
	Type     *LineType
	Length   float64 // unstretched length, m
	Anchor   *Node
	Fairlead *Node

	H, V float64

	// Include the line pull in the end node's force balance. Both default
	// to true; clearing one detaches the line from that node's equations
	// without removing its closure rows.
	IncludeAnchor   bool
	IncludeFairlead bool

	// Net submerged weight per unit length, N/m. Cached by Model.Validate.
	Omega float64
}

// NewLine joins anchor to fairlead with the given type and unstretched length.
func NewLine(lt *LineType, length float64, anchor, fairlead *Node) *Line {
	return &Line{
		Type:            lt,
		Length:          length,
		Anchor:          anchor,
		Fairlead:        fairlead,
		IncludeAnchor:   true,
		IncludeFairlead: true,
	}
}

// Chord returns the horizontal span l, vertical span h (fairlead minus
// anchor), and the azimuth cosine/sine from anchor to fairlead. For a
// near-vertical line the azimuth is pinned to the x axis.
func (l *Line) Chord() (span, rise, cpsi, spsi float64) {
	dx := l.Fairlead.Position[0] - l.Anchor.Position[0]
	dy := l.Fairlead.Position[1] - l.Anchor.Position[1]
	span = math.Hypot(dx, dy)
	rise = l.Fairlead.Position[2] - l.Anchor.Position[2]
	if span < 1e-12 {
		return span, rise, 1, 0
	}
	return span, rise, dx / span, dy / span
}

// Tension returns the magnitude of the fairlead tension.
func (l *Line) Tension() float64 {
	return math.Hypot(l.H, l.V)
}

// guessTensions seeds (H, V) with the Peyrot-Goulois catenary starting point
// when the caller has not supplied one. Weightless lines start from the
// elastic-rod tension of the current chord.
func (l *Line) guessTensions() {
	span, rise, _, _ := l.Chord()
	chord := math.Hypot(span, rise)
	w := l.Omega
	if math.Abs(w) < weightTol {
		t0 := 1.0
		if chord > l.Length && l.Length > 0 {
			t0 = math.Max(l.Type.EA*(chord-l.Length)/l.Length, 1.0)
		}
		if chord < 1e-12 {
			l.H, l.V = t0, 0
			return
		}
		l.H = math.Max(t0*span/chord, 1.0)
		l.V = t0 * rise / chord
		return
	}

	var lambda float64
	switch {
	case span < 1e-12:
		lambda = 1e6
	case chord >= l.Length:
		lambda = 0.2
	default:
		arg := 3 * ((l.Length*l.Length-rise*rise)/(span*span) - 1)
		if arg <= 0 {
			lambda = 0.2
		} else {
			lambda = math.Sqrt(arg)
		}
	}
	l.H = math.Abs(w * span / (2 * lambda))
	l.V = w / 2 * (rise/math.Tanh(lambda) + l.Length)
}

const weightTol = 1e-9
