package linsolve

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewSelectsBackend(t *testing.T) {
	b, err := New("")
	require.NoError(t, err)
	require.Equal(t, "lu", b.Name())

	b, err = New("lu")
	require.NoError(t, err)
	require.Equal(t, "lu", b.Name())

	b, err = New("qr")
	require.NoError(t, err)
	require.Equal(t, "qr", b.Name())

	_, err = New("cholesky")
	require.Error(t, err)
}

func solveKnownSystem(t *testing.T, b Backend) {
	t.Helper()
	// a * [1, -2, 3]^T = rhs
	a := mat.NewDense(3, 3, []float64{
		4, 1, 0,
		1, 3, -1,
		0, -1, 5,
	})
	want := []float64{1, -2, 3}
	rhs := mat.NewVecDense(3, nil)
	rhs.MulVec(a, mat.NewVecDense(3, want))

	dst := mat.NewVecDense(3, nil)
	require.NoError(t, b.Solve(a, rhs, dst))
	for i, w := range want {
		require.InDelta(t, w, dst.AtVec(i), 1e-12)
	}
}

func TestLUSolve(t *testing.T) { solveKnownSystem(t, LU{}) }
func TestQRSolve(t *testing.T) { solveKnownSystem(t, QR{}) }

func TestLUSingularSystem(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{
		1, 2,
		2, 4,
	})
	rhs := mat.NewVecDense(2, []float64{1, 1})
	dst := mat.NewVecDense(2, nil)
	require.ErrorIs(t, LU{}.Solve(a, rhs, dst), ErrSingular)
}

func TestLUIllConditionedSystem(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{
		1, 1,
		1, 1 + 1e-16,
	})
	rhs := mat.NewVecDense(2, []float64{2, 2})
	dst := mat.NewVecDense(2, nil)
	require.ErrorIs(t, LU{}.Solve(a, rhs, dst), ErrSingular)
}
