package system

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"moorstat/internal/catenary"
	"moorstat/internal/model"
)

// lineIndex is the fixed index bookkeeping for one line: the columns of its
// (H, V) unknowns, its closure rows, and the constraint indices of the end
// nodes' axes (-1 when inactive). Computed once; only values are refreshed.
type lineIndex struct {
	h, v   int // constraint columns of the tension pair
	fh, fv int // closure equation rows

	anchorEq, fairEq [3]int
}

// Builder assembles F(x) and J(x) for one validated model. The sparsity
// bookkeeping is fixed at construction for the life of a solve session.
type Builder struct {
	model   *model.Model
	scaling float64

	n     int // total unknowns
	m     int // node equations
	lines []lineIndex

	fScratch1, fScratch2 *mat.VecDense // finite-difference workspace
}

// NewBuilder fixes the constraint layout for m. The model must already be
// validated; scaling is the K factor applied to the node equation block.
func NewBuilder(m *model.Model, scaling float64) (*Builder, error) {
	if scaling <= 0 {
		return nil, fmt.Errorf("system: non-positive function scaling %g", scaling)
	}
	n := m.NumUnknowns()
	if n == 0 {
		return nil, errors.New("system: model has no unknowns")
	}
	b := &Builder{
		model:   m,
		scaling: scaling,
		n:       n,
		m:       m.NumNodeEqs(),
		lines:   make([]lineIndex, len(m.Lines)),
	}

	nodePos := make(map[*model.Node]int, len(m.Nodes))
	for i, nd := range m.Nodes {
		nodePos[nd] = i
	}
	for i, l := range m.Lines {
		b.lines[i] = lineIndex{
			h:        b.m + 2*i,
			v:        b.m + 2*i + 1,
			fh:       b.m + 2*i,
			fv:       b.m + 2*i + 1,
			anchorEq: m.EqIndex(nodePos[l.Anchor]),
			fairEq:   m.EqIndex(nodePos[l.Fairlead]),
		}
	}
	b.fScratch1 = mat.NewVecDense(n, nil)
	b.fScratch2 = mat.NewVecDense(n, nil)
	return b, nil
}

// Size returns the constraint-vector length.
func (b *Builder) Size() int { return b.n }

// NumNodeEqs returns the size of the node force-balance block.
func (b *Builder) NumNodeEqs() int { return b.m }

// InitialState packs the model's current positions and tensions into a fresh
// constraint vector.
func (b *Builder) InitialState() []float64 {
	x := make([]float64, b.n)
	b.model.PackState(x)
	return x
}

func (b *Builder) evalInput(l *model.Line) catenary.Input {
	span, rise, _, _ := l.Chord()
	return catenary.Input{
		H:      l.H,
		V:      l.V,
		Length: l.Length,
		EA:     l.Type.EA,
		Omega:  l.Omega,
		Cb:     l.Type.Cb,
		ChordX: span,
		ChordZ: rise,
	}
}

// Residual evaluates F at x into f. The trial state is written through to the
// model (positions and tensions) before evaluation; node force accumulators
// are reset every call.
func (b *Builder) Residual(x []float64, f *mat.VecDense) error {
	md := b.model
	md.ApplyState(x)

	for _, nd := range md.Nodes {
		nd.ResetForce()
	}

	evals := make([]catenary.Result, len(md.Lines))
	for i, l := range md.Lines {
		res, err := catenary.Eval(b.evalInput(l))
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		evals[i] = res

		_, _, c, s := l.Chord()
		if l.IncludeFairlead {
			l.Fairlead.AddForce(l.H*c, l.H*s, l.V)
		}
		if l.IncludeAnchor {
			l.Anchor.AddForce(-res.AnchorH*c, -res.AnchorH*s, -res.AnchorV)
		}
	}

	// Node rows: line pull minus external loads, scaled by K.
	g := md.Env.Gravity
	rho := md.Env.SeaDensity
	for i, nd := range md.Nodes {
		idx := md.EqIndex(i)
		if idx[0] >= 0 {
			f.SetVec(idx[0], b.scaling*(nd.SumFX-nd.Applied[0]))
		}
		if idx[1] >= 0 {
			f.SetVec(idx[1], b.scaling*(nd.SumFY-nd.Applied[1]))
		}
		if idx[2] >= 0 {
			f.SetVec(idx[2], b.scaling*(nd.SumFZ-nd.Applied[2]-rho*g*nd.Volume+nd.Mass*g))
		}
	}

	// Closure rows, unscaled. A slack weightless line is driven to zero
	// tension instead of a span match.
	for i, l := range md.Lines {
		li := b.lines[i]
		span, rise, _, _ := l.Chord()
		if evals[i].Regime == catenary.RegimeSlackRod {
			f.SetVec(li.fh, l.H)
			f.SetVec(li.fv, l.V)
			continue
		}
		f.SetVec(li.fh, evals[i].X-span)
		f.SetVec(li.fv, evals[i].Z-rise)
	}
	return nil
}

func add(jac *mat.Dense, r, c int, v float64) {
	jac.Set(r, c, jac.At(r, c)+v)
}

// Jacobian evaluates the analytic J at x into jac. The matrix is cleared of
// values, never restructured, before refilling.
func (b *Builder) Jacobian(x []float64, jac *mat.Dense) error {
	md := b.model
	md.ApplyState(x)
	jac.Zero()

	k := b.scaling
	for i, l := range md.Lines {
		li := b.lines[i]
		res, err := catenary.Eval(b.evalInput(l))
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		span, _, c, s := l.Chord()

		// B block: node equations vs this line's (H, V). Upper block
		// scaled by K; the lower-left closure-vs-position block below is
		// its unscaled negative transpose.
		if l.IncludeFairlead {
			fe := li.fairEq
			if fe[0] >= 0 {
				add(jac, fe[0], li.h, k*c)
			}
			if fe[1] >= 0 {
				add(jac, fe[1], li.h, k*s)
			}
			if fe[2] >= 0 {
				add(jac, fe[2], li.v, k)
			}
		}
		if l.IncludeAnchor {
			ae := li.anchorEq
			if ae[0] >= 0 {
				add(jac, ae[0], li.h, -k*res.DHadH*c)
				add(jac, ae[0], li.v, -k*res.DHadV*c)
			}
			if ae[1] >= 0 {
				add(jac, ae[1], li.h, -k*res.DHadH*s)
				add(jac, ae[1], li.v, -k*res.DHadV*s)
			}
			if ae[2] >= 0 {
				add(jac, ae[2], li.v, -k*res.DVadV)
			}
		}

		// A block: geometric stiffness through the azimuth. Vertical rows
		// have no position dependence; near-vertical lines have a pinned
		// azimuth and contribute nothing here.
		if span >= 1e-12 {
			b.azimuthStiffness(jac, li, l, res, c, s, span)
		}

		// Lower-left closure rows vs positions.
		if res.Regime != catenary.RegimeSlackRod {
			fe, ae := li.fairEq, li.anchorEq
			if fe[0] >= 0 {
				add(jac, li.fh, fe[0], -c)
			}
			if fe[1] >= 0 {
				add(jac, li.fh, fe[1], -s)
			}
			if fe[2] >= 0 {
				add(jac, li.fv, fe[2], -1)
			}
			if ae[0] >= 0 {
				add(jac, li.fh, ae[0], c)
			}
			if ae[1] >= 0 {
				add(jac, li.fh, ae[1], s)
			}
			if ae[2] >= 0 {
				add(jac, li.fv, ae[2], 1)
			}
		}

		// C block: the 2x2 catenary partials, identity for a slack rod.
		if res.Regime == catenary.RegimeSlackRod {
			jac.Set(li.fh, li.h, 1)
			jac.Set(li.fv, li.v, 1)
		} else {
			jac.Set(li.fh, li.h, res.DXdH)
			jac.Set(li.fh, li.v, res.DXdV)
			jac.Set(li.fv, li.h, res.DZdH)
			jac.Set(li.fv, li.v, res.DZdV)
		}
	}
	return nil
}

// azimuthStiffness adds the A-block entries of one line: derivatives of the
// horizontal pull components with respect to the end node x/y positions,
// through psi = atan2(dy, dx).
//
//	dpsi/dxf = -s/l   dpsi/dyf = c/l   dpsi/dxa = s/l   dpsi/dya = -c/l
func (b *Builder) azimuthStiffness(jac *mat.Dense, li lineIndex, l *model.Line, res catenary.Result, c, s, span float64) {
	k := b.scaling
	// position columns in dpsi order: xf, yf, xa, ya
	cols := [4]int{li.fairEq[0], li.fairEq[1], li.anchorEq[0], li.anchorEq[1]}
	dpsi := [4]float64{-s / span, c / span, s / span, -c / span}

	if l.IncludeFairlead {
		// fairlead rows: d(H c)/dpsi = -H s, d(H s)/dpsi = H c
		for j, col := range cols {
			if col < 0 {
				continue
			}
			if li.fairEq[0] >= 0 {
				add(jac, li.fairEq[0], col, k*-l.H*s*dpsi[j])
			}
			if li.fairEq[1] >= 0 {
				add(jac, li.fairEq[1], col, k*l.H*c*dpsi[j])
			}
		}
	}
	if l.IncludeAnchor {
		// anchor rows: d(-Ha c)/dpsi = Ha s, d(-Ha s)/dpsi = -Ha c
		for j, col := range cols {
			if col < 0 {
				continue
			}
			if li.anchorEq[0] >= 0 {
				add(jac, li.anchorEq[0], col, k*res.AnchorH*s*dpsi[j])
			}
			if li.anchorEq[1] >= 0 {
				add(jac, li.anchorEq[1], col, k*-res.AnchorH*c*dpsi[j])
			}
		}
	}
}

// fdStep is the relative central-difference perturbation.
const fdStep = 1e-7

// JacobianFD evaluates J by central differences of the residual, column by
// column, in the same ordering as the analytic assembly.
func (b *Builder) JacobianFD(x []float64, jac *mat.Dense) error {
	jac.Zero()
	xt := make([]float64, len(x))
	copy(xt, x)
	for j := 0; j < b.n; j++ {
		d := fdStep * (1 + abs(x[j]))
		xt[j] = x[j] + d
		if err := b.Residual(xt, b.fScratch1); err != nil {
			return err
		}
		xt[j] = x[j] - d
		if err := b.Residual(xt, b.fScratch2); err != nil {
			return err
		}
		xt[j] = x[j]
		for i := 0; i < b.n; i++ {
			jac.Set(i, j, (b.fScratch1.AtVec(i)-b.fScratch2.AtVec(i))/(2*d))
		}
	}
	// leave the model at the unperturbed state
	b.model.ApplyState(x)
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
