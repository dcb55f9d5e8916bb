// Package catenary evaluates the closed-form elastic catenary equations for
// a single mooring line segment.
//
// Given a fairlead tension guess (H, V) and the segment's material data,
// [Eval] returns the horizontal and vertical spans the catenary equations
// imply, together with the four analytic partials dX/dH, dX/dV, dZ/dH, dZ/dV
// and the end tensions at the anchor. Four regimes are distinguished:
//
//   - [RegimeHanging]: freely hanging elastic catenary (nonzero net weight)
//   - [RegimeContact]: part of the line rests on the seabed; the friction
//     coefficient Cb enters the horizontal span and the anchor tension
//   - [RegimeRod]: weightless elastic rod stretched beyond its rest length
//   - [RegimeSlackRod]: weightless line shorter than its chord; tensionless
//
// The regime decision is shared between the span values and the partials, so
// the residual and Jacobian a caller assembles from one Eval call can never
// mix branches. The near-vertical H -> 0 limit is safeguarded by clamping H
// to a small positive floor before evaluation.
package catenary
