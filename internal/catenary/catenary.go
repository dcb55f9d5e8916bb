package catenary

import (
	"errors"
	"fmt"
	"math"
)

// Regime identifies which closed-form branch produced a Result.
type Regime int

const (
	RegimeHanging Regime = iota
	RegimeContact
	RegimeRod
	RegimeSlackRod
)

func (r Regime) String() string {
	switch r {
	case RegimeHanging:
		return "hanging"
	case RegimeContact:
		return "contact"
	case RegimeRod:
		return "rod"
	case RegimeSlackRod:
		return "slack"
	}
	return "unknown"
}

var (
	// ErrNonPositiveLength marks a line whose unstretched length is outside
	// the catenary model's domain.
	ErrNonPositiveLength = errors.New("catenary: non-positive unstretched length")
	// ErrNonPositiveStiffness marks a line with EA <= 0.
	ErrNonPositiveStiffness = errors.New("catenary: non-positive axial stiffness")
)

// Input collects everything one evaluation needs. ChordX and ChordZ are the
// horizontal and vertical spans between the end nodes at the current trial
// state; they select the slack-rod branch for weightless lines.
type Input struct {
	H, V   float64 // fairlead tension components, N
	Length float64 // unstretched length, m
	EA     float64 // axial stiffness, N
	Omega  float64 // net submerged weight per unit length, N/m
	Cb     float64 // seabed friction coefficient
	ChordX float64 // horizontal chord span, m
	ChordZ float64 // vertical chord span (fairlead minus anchor), m
}

// Result holds the spans implied by the catenary equations, their partials
// with respect to (H, V), and the anchor-end tensions with the partials the
// force-balance Jacobian needs. dVa/dH is identically zero in every regime.
type Result struct {
	Regime Regime

	X, Z                   float64
	DXdH, DXdV, DZdH, DZdV float64

	AnchorH, AnchorV   float64
	DHadH, DHadV, DVadV float64
}

// weightTol is the |omega| below which a line is treated as weightless.
const weightTol = 1e-9

// Eval computes the spans and partials for one line at the trial tensions.
// The value and the partials always come from the same regime.
func Eval(in Input) (Result, error) {
	if in.Length <= 0 {
		return Result{}, fmt.Errorf("%w: Lu=%g", ErrNonPositiveLength, in.Length)
	}
	if in.EA <= 0 {
		return Result{}, fmt.Errorf("%w: EA=%g", ErrNonPositiveStiffness, in.EA)
	}
	if math.Abs(in.Omega) < weightTol {
		return evalRod(in), nil
	}
	if in.Omega > 0 && in.V >= 0 && in.V < in.Omega*in.Length {
		return evalContact(in), nil
	}
	return evalHanging(in), nil
}

// clampH floors the horizontal tension so the near-vertical limit stays
// finite. Value and partials are both taken at the clamped point.
func clampH(h, omega, lu float64) float64 {
	floor := 1e-8 * math.Max(1, math.Abs(omega)*lu)
	return math.Max(h, floor)
}

// evalHanging is the freely hanging elastic catenary. Valid for either sign
// of omega and of V.
func evalHanging(in Input) Result {
	w := in.Omega
	lu := in.Length
	h := clampH(in.H, w, lu)
	va := in.V - w*lu // vertical tension at the anchor

	t1 := in.V / h
	t0 := va / h
	s1 := math.Sqrt(1 + t1*t1)
	s0 := math.Sqrt(1 + t0*t0)
	a1 := math.Asinh(t1)
	a0 := math.Asinh(t0)

	return Result{
		Regime: RegimeHanging,
		X:      h/w*(a1-a0) + h*lu/in.EA,
		Z:      h/w*(s1-s0) + (in.V*lu-w*lu*lu/2)/in.EA,
		DXdH:   (a1-a0)/w - (t1/s1-t0/s0)/w + lu/in.EA,
		DXdV:   (1/s1 - 1/s0) / w,
		DZdH:   (s1-s0)/w - (t1*t1/s1-t0*t0/s0)/w,
		DZdV:   (t1/s1-t0/s0)/w + lu/in.EA,

		AnchorH: h,
		AnchorV: va,
		DHadH:   1,
		DVadV:   1,
	}
}

// evalContact is the bottom-resting branch: omega sinks the line and the
// fairlead vertical tension cannot lift all of it, so the trailing
// Lb = Lu - V/omega rests on the seabed. Cb enters the horizontal span
// through the friction correction and sets the anchor-side tension, floored
// at zero once friction has absorbed the full horizontal pull.
func evalContact(in Input) Result {
	w := in.Omega
	lu := in.Length
	cb := math.Max(in.Cb, 0)
	h := clampH(in.H, w, lu)

	lb := lu - in.V/w
	t1 := in.V / h
	s1 := math.Sqrt(1 + t1*t1)
	a1 := math.Asinh(t1)

	// Friction correction to the horizontal span. lambda is the seabed
	// length over which the line is fully gripped.
	var fric, dfricH, dfricV float64
	if cb > 0 {
		lambda := lb - h/(cb*w)
		if lambda > 0 {
			fric = cb * w / (2 * in.EA) * (lambda*lambda - lb*lb)
			dfricH = -lambda / in.EA
			dfricV = cb / in.EA * (lb - lambda)
		} else {
			fric = -cb * w / (2 * in.EA) * lb * lb
			dfricV = cb / in.EA * lb
		}
	}

	res := Result{
		Regime: RegimeContact,
		X:      lb + h/w*a1 + h*lu/in.EA + fric,
		Z:      h/w*(s1-1) + in.V*in.V/(2*in.EA*w),
		DXdH:   (a1-t1/s1)/w + lu/in.EA + dfricH,
		DXdV:   -1/w + 1/(s1*w) + dfricV,
		DZdH:   (s1-1)/w - t1*t1/(s1*w),
		DZdV:   t1/(s1*w) + in.V/(in.EA*w),
	}

	res.AnchorH = h - cb*w*lb
	if res.AnchorH > 0 {
		res.DHadH = 1
		res.DHadV = cb
	} else {
		res.AnchorH = 0
	}
	// AnchorV and DVadV stay zero: the resting segment carries no vertical
	// tension into the anchor.
	return res
}

// minRodTension floors the tension magnitude in the rod branch so the unit
// direction stays defined.
func minRodTension(ea float64) float64 { return 1e-12 * ea }

// evalRod handles weightless lines. A chord longer than the rest length gives
// the stretched elastic rod; otherwise the line is slack and tensionless, and
// the caller replaces the closure equations with H = 0, V = 0.
func evalRod(in Input) Result {
	chord := math.Hypot(in.ChordX, in.ChordZ)
	if chord <= in.Length {
		return Result{
			Regime: RegimeSlackRod,
			X:      in.ChordX,
			Z:      in.ChordZ,
			DXdH:   1,
			DZdV:   1,

			AnchorH: in.H,
			AnchorV: in.V,
			DHadH:   1,
			DVadV:   1,
		}
	}

	lu := in.Length
	t := math.Max(math.Hypot(in.H, in.V), minRodTension(in.EA))
	t3 := t * t * t
	return Result{
		Regime: RegimeRod,
		X:      lu*in.H/t + lu*in.H/in.EA,
		Z:      lu*in.V/t + lu*in.V/in.EA,
		DXdH:   lu*in.V*in.V/t3 + lu/in.EA,
		DXdV:   -lu * in.H * in.V / t3,
		DZdH:   -lu * in.H * in.V / t3,
		DZdV:   lu*in.H*in.H/t3 + lu/in.EA,

		AnchorH: in.H,
		AnchorV: in.V,
		DHadH:   1,
		DVadV:   1,
	}
}
