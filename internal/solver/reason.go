package solver

import "errors"

// Reason classifies why the Newton iteration stopped.
type Reason int

const (
	ReasonNone Reason = iota

	// Converged sub-reasons, by criterion.
	ReasonAbsTol  // ||F|| < atol
	ReasonRelTol  // ||F|| < rtol*||F_initial||
	ReasonStepTol // ||dx|| < stol

	// Diverged sub-reasons, by cause.
	ReasonFunctionDomain // trial state outside the catenary model's domain
	ReasonLinearSolve    // linear solve singular or failed
	ReasonOverflow       // NaN or Inf in F or J
	ReasonMaxIterations  // iteration budget exhausted
	ReasonStepRejected   // step-acceptance test rejected every trial step
	ReasonLocalMinimum   // gradient-like norm small while ||F|| is not

	// ReasonPostCheckFailed overrides a converged result whose final
	// residual fails the explicit re-check.
	ReasonPostCheckFailed
)

// Converged reports whether the reason is one of the convergence criteria.
func (r Reason) Converged() bool {
	return r == ReasonAbsTol || r == ReasonRelTol || r == ReasonStepTol
}

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonAbsTol:
		return "fnorm-abs"
	case ReasonRelTol:
		return "fnorm-relative"
	case ReasonStepTol:
		return "snorm-relative"
	case ReasonFunctionDomain:
		return "function-domain"
	case ReasonLinearSolve:
		return "linear-solve"
	case ReasonOverflow:
		return "fnorm-nan"
	case ReasonMaxIterations:
		return "max-it"
	case ReasonStepRejected:
		return "line-search"
	case ReasonLocalMinimum:
		return "local-min"
	case ReasonPostCheckFailed:
		return "post-check"
	}
	return "unknown"
}

// Sentinel errors for the failure taxonomy. Solve wraps these with context;
// callers match with errors.Is.
var (
	ErrInitialization    = errors.New("solver: initialization failed")
	ErrNotInitialized    = errors.New("solver: session not initialized")
	ErrSessionTerminated = errors.New("solver: session already terminated")
	ErrFunctionDomain    = errors.New("solver: residual evaluated outside model domain")
	ErrLinearSolve       = errors.New("solver: linear solve failed")
	ErrOverflow          = errors.New("solver: numerical overflow in F or J")
	ErrStepRejected      = errors.New("solver: step acceptance rejected all trial steps")
	ErrMaxIterations     = errors.New("solver: maximum iterations exceeded")
	ErrLocalMinimum      = errors.New("solver: stagnated at a local minimum")
	ErrPostCheck         = errors.New("solver: post-solve residual check failed")
)

// reasonErr maps a diverged reason to its sentinel.
func reasonErr(r Reason) error {
	switch r {
	case ReasonFunctionDomain:
		return ErrFunctionDomain
	case ReasonLinearSolve:
		return ErrLinearSolve
	case ReasonOverflow:
		return ErrOverflow
	case ReasonMaxIterations:
		return ErrMaxIterations
	case ReasonStepRejected:
		return ErrStepRejected
	case ReasonLocalMinimum:
		return ErrLocalMinimum
	case ReasonPostCheckFailed:
		return ErrPostCheck
	}
	return errors.New("solver: unknown failure")
}
