// Package linsolve provides the pluggable linear backends the Newton driver
// solves J*dx = -F with. Backends are selected by name; the direct LU
// factorization is the default and is adequate for the small-to-moderate
// systems mooring networks produce.
package linsolve

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular marks a singular or unusably ill-conditioned system.
var ErrSingular = errors.New("linsolve: singular or ill-conditioned system")

// condLimit is the condition number beyond which a factorization is treated
// as a failure rather than trusted.
const condLimit = 1e14

// Backend solves one square dense system per call. A call either returns a
// solution or an error; there are no partial or cancelable sub-steps.
type Backend interface {
	Name() string
	Solve(a *mat.Dense, b *mat.VecDense, dst *mat.VecDense) error
}

// New returns the backend registered under name; the empty string selects
// the default direct solver.
func New(name string) (Backend, error) {
	switch name {
	case "", "lu":
		return LU{}, nil
	case "qr":
		return QR{}, nil
	}
	return nil, fmt.Errorf("linsolve: unknown backend %q", name)
}

// LU is the default direct solver: partial-pivot LU factorization.
type LU struct{}

func (LU) Name() string { return "lu" }

func (LU) Solve(a *mat.Dense, b *mat.VecDense, dst *mat.VecDense) error {
	var lu mat.LU
	lu.Factorize(a)
	if c := lu.Cond(); c > condLimit {
		return fmt.Errorf("%w: condition number %.3g", ErrSingular, c)
	}
	if err := lu.SolveVecTo(dst, false, b); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return nil
}

// QR solves through an orthogonal factorization. Slower than LU but more
// tolerant of poor scaling; selectable as the alternative strategy.
type QR struct{}

func (QR) Name() string { return "qr" }

func (QR) Solve(a *mat.Dense, b *mat.VecDense, dst *mat.VecDense) error {
	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveVecTo(dst, false, b); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return nil
}
