package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"moorstat/internal/config"
	"moorstat/internal/linsolve"
	"moorstat/internal/model"
	"moorstat/internal/system"
)

// State is the lifecycle position of a session.
type State int

const (
	Uninitialized State = iota
	Initialized
	Solving
	Converged
	Diverged
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Solving:
		return "solving"
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Record is one iteration's summary, handed to observers.
type Record struct {
	Iter         int
	ResidualNorm float64
	StepNorm     float64
	Alpha        float64
}

// Observer receives per-iteration records during a solve. Implementations
// must not retain or mutate solver state.
type Observer interface {
	OnIteration(Record)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Record)

func (f ObserverFunc) OnIteration(r Record) { f(r) }

// Result summarizes a finished solve.
type Result struct {
	Reason       Reason
	Iterations   int
	ResidualNorm float64
}

// Converged reports whether the solve ended on a convergence criterion and
// survived the post-solve residual check.
func (r Result) Converged() bool { return r.Reason.Converged() }

// armijo is the sufficient-decrease constant of the step-acceptance test.
const armijo = 1e-4

// gradTol bounds the relative gradient norm below which a failed line search
// is classified as stagnation at a local minimum.
const gradTol = 1e-8

// Session owns one solve: the model, the assembled system, the linear
// backend, and the iteration state. Not safe for concurrent use.
type Session struct {
	state  State
	reason Reason

	model   *model.Model
	cfg     *config.Config
	builder *system.Builder
	backend linsolve.Backend

	x       []float64
	xTrial  []float64
	f       *mat.VecDense
	fTrial  *mat.VecDense
	rhs     *mat.VecDense
	dx      *mat.VecDense
	jac     *mat.Dense
	history []float64
	iters   int

	observers []Observer
}

// NewSession returns an uninitialized session.
func NewSession() *Session { return &Session{state: Uninitialized} }

// AddObserver registers an iteration observer. Must be called before Solve.
func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// Reason returns the termination reason, ReasonNone before termination.
func (s *Session) Reason() Reason { return s.reason }

// Iterations returns the number of accepted Newton steps so far.
func (s *Session) Iterations() int { return s.iters }

// History returns the residual norms of the accepted iterates, starting with
// the initial state.
func (s *Session) History() []float64 {
	out := make([]float64, len(s.history))
	copy(out, s.history)
	return out
}

// Initialize validates the model and options, fixes the constraint layout
// and Jacobian structure, copies the initial guess in, and freezes the model
// against structural changes. Any failure leaves the session Uninitialized.
func (s *Session) Initialize(m *model.Model, cfg *config.Config) error {
	if s.state != Uninitialized {
		return fmt.Errorf("%w: state %s", ErrSessionTerminated, s.state)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInitialization, err)
	}
	cfg = cfg.Effective()
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInitialization, err)
	}
	builder, err := system.NewBuilder(m, cfg.Scaling)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInitialization, err)
	}
	backend, err := linsolve.New(cfg.Backend)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInitialization, err)
	}

	n := builder.Size()
	s.model = m
	s.cfg = cfg
	s.builder = builder
	s.backend = backend
	s.x = builder.InitialState()
	s.xTrial = make([]float64, n)
	s.f = mat.NewVecDense(n, nil)
	s.fTrial = mat.NewVecDense(n, nil)
	s.rhs = mat.NewVecDense(n, nil)
	s.dx = mat.NewVecDense(n, nil)
	s.jac = mat.NewDense(n, n, nil)
	s.history = s.history[:0]
	s.iters = 0

	m.Freeze()
	s.state = Initialized
	return nil
}

// Shutdown releases session resources and unfreezes the model. The session
// returns to Uninitialized and may be initialized again.
func (s *Session) Shutdown() {
	if s.model != nil {
		s.model.Thaw()
	}
	s.model = nil
	s.builder = nil
	s.backend = nil
	s.x, s.xTrial = nil, nil
	s.f, s.fTrial, s.rhs, s.dx = nil, nil, nil, nil
	s.jac = nil
	s.state = Uninitialized
	s.reason = ReasonNone
}

// Solve runs damped Newton iteration to a terminal state. On a converged
// result the model's free-node positions and line tensions hold the solution;
// on any other outcome the model state is unspecified and must not be read.
// A panic out of assembly, the backend, or an observer is recovered into the
// Failed state rather than crossing the package boundary.
func (s *Session) Solve() (res Result, err error) {
	switch s.state {
	case Uninitialized:
		return Result{}, ErrNotInitialized
	case Initialized:
	default:
		return Result{}, fmt.Errorf("%w: state %s", ErrSessionTerminated, s.state)
	}
	s.state = Solving
	defer func() {
		if r := recover(); r != nil {
			res, err = s.fail(ReasonNone, math.NaN(), fmt.Errorf("panic: %v", r))
		}
	}()

	if err := s.builder.Residual(s.x, s.f); err != nil {
		return s.fail(ReasonFunctionDomain, math.NaN(), err)
	}
	normF := mat.Norm(s.f, 2)
	if math.IsNaN(normF) || math.IsInf(normF, 0) {
		return s.fail(ReasonOverflow, normF, fmt.Errorf("initial residual norm %v", normF))
	}
	norm0 := normF
	s.history = append(s.history, normF)

	if normF < s.cfg.AbsTol {
		return s.finish(ReasonAbsTol, normF)
	}

	for it := 0; ; it++ {
		if it >= s.cfg.MaxIterations {
			return s.fail(ReasonMaxIterations, normF, fmt.Errorf("%d iterations, ||F||=%.6g", it, normF))
		}

		if err := s.assembleJacobian(); err != nil {
			return s.fail(ReasonFunctionDomain, normF, err)
		}
		if hasNonFinite(s.jac.RawMatrix().Data) {
			return s.fail(ReasonOverflow, normF, fmt.Errorf("non-finite Jacobian at iteration %d", it))
		}

		s.rhs.ScaleVec(-1, s.f)
		if err := s.backend.Solve(s.jac, s.rhs, s.dx); err != nil {
			return s.fail(ReasonLinearSolve, normF, err)
		}

		alpha, normTrial, err := s.acceptStep(normF)
		if err != nil {
			return s.fail(s.reason, normF, err)
		}
		if alpha == 0 {
			if s.nearLocalMinimum(normF) {
				return s.fail(ReasonLocalMinimum, normF, fmt.Errorf("||J^T F|| small with ||F||=%.6g", normF))
			}
			return s.fail(ReasonStepRejected, normF, fmt.Errorf("no acceptable step from ||F||=%.6g", normF))
		}

		copy(s.x, s.xTrial)
		s.f.CopyVec(s.fTrial)
		normF = normTrial
		s.iters = it + 1
		stepNorm := alpha * mat.Norm(s.dx, 2)
		s.history = append(s.history, normF)
		s.notify(Record{Iter: s.iters, ResidualNorm: normF, StepNorm: stepNorm, Alpha: alpha})

		switch {
		case normF < s.cfg.AbsTol:
			return s.finish(ReasonAbsTol, normF)
		case normF < s.cfg.RelTol*norm0:
			return s.finish(ReasonRelTol, normF)
		case stepNorm < s.cfg.StepTol:
			return s.finish(ReasonStepTol, normF)
		}
	}
}

func (s *Session) assembleJacobian() error {
	if s.cfg.Jacobian == config.JacobianFD {
		return s.builder.JacobianFD(s.x, s.jac)
	}
	return s.builder.Jacobian(s.x, s.jac)
}

// acceptStep backtracks from the full Newton step until the residual norm
// shows sufficient decrease. Returns alpha=0 when every trial was rejected;
// any non-rejection failure sets s.reason and returns the error.
func (s *Session) acceptStep(normF float64) (alpha, normTrial float64, err error) {
	alpha = 1.0
	for trial := 0; trial < s.cfg.MaxBacktracks; trial++ {
		for i := range s.x {
			s.xTrial[i] = s.x[i] + alpha*s.dx.AtVec(i)
		}
		if err := s.builder.Residual(s.xTrial, s.fTrial); err != nil {
			s.reason = ReasonFunctionDomain
			return 0, 0, err
		}
		normTrial = mat.Norm(s.fTrial, 2)
		if math.IsNaN(normTrial) || math.IsInf(normTrial, 0) {
			s.reason = ReasonOverflow
			return 0, 0, fmt.Errorf("non-finite trial residual at alpha=%g", alpha)
		}
		if normTrial <= (1-armijo*alpha)*normF || normTrial < s.cfg.AbsTol {
			return alpha, normTrial, nil
		}
		alpha /= 2
	}
	return 0, 0, nil
}

// nearLocalMinimum reports whether the gradient-like norm ||J^T F|| is small
// relative to ||F||, the signature of stagnation at a non-solution.
func (s *Session) nearLocalMinimum(normF float64) bool {
	var g mat.VecDense
	g.MulVec(s.jac.T(), s.f)
	return mat.Norm(&g, 2) <= gradTol*math.Max(1, normF)
}

// finish applies the post-solve guard before reporting convergence: the
// residual is re-evaluated at the final state and must still satisfy the
// post-check tolerance.
func (s *Session) finish(reason Reason, normF float64) (Result, error) {
	if err := s.builder.Residual(s.x, s.f); err != nil {
		return s.fail(ReasonFunctionDomain, normF, err)
	}
	final := mat.Norm(s.f, 2)
	if final > s.cfg.PostCheckTol*(1+1e-12) {
		s.state = Diverged
		s.reason = ReasonPostCheckFailed
		res := Result{Reason: s.reason, Iterations: s.iters, ResidualNorm: final}
		return res, fmt.Errorf("%w: ||F||=%.6g exceeds %.6g (converged on %s)",
			ErrPostCheck, final, s.cfg.PostCheckTol, reason)
	}
	s.state = Converged
	s.reason = reason
	return Result{Reason: reason, Iterations: s.iters, ResidualNorm: final}, nil
}

// fail ends the session on a divergence reason, reporting the last evaluated
// residual norm (NaN when no residual was ever computed). A reason-less
// failure, such as a recovered panic, lands in Failed instead of Diverged.
func (s *Session) fail(reason Reason, normF float64, cause error) (Result, error) {
	s.state = Diverged
	if reason == ReasonNone {
		s.state = Failed
	}
	s.reason = reason
	res := Result{Reason: reason, Iterations: s.iters, ResidualNorm: normF}
	return res, fmt.Errorf("%w: %v", reasonErr(reason), cause)
}

func (s *Session) notify(r Record) {
	for _, o := range s.observers {
		o.OnIteration(r)
	}
}

func hasNonFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
