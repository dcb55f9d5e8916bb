// Package report maps solver termination reasons to stable status codes and
// human-readable diagnostics. It is the single place convergence text is
// produced; numeric packages return typed reasons only.
package report

import (
	"fmt"

	"moorstat/internal/solver"
)

// Status pairs a stable numeric code with a diagnostic message. The codes
// follow the classic SNES numbering for the shared outcomes (positive
// converged, negative diverged) so summaries stay comparable across tools.
type Status struct {
	Code    int
	Message string
}

func (s Status) String() string {
	return fmt.Sprintf("[%d] %s", s.Code, s.Message)
}

// Classify maps a termination reason to its status. Unrecognized reasons map
// to a generic failure; Classify never errors.
func Classify(r solver.Reason) Status {
	switch r {
	case solver.ReasonAbsTol:
		return Status{2, "converged: ||F|| < atol"}
	case solver.ReasonRelTol:
		return Status{3, "converged: ||F|| < rtol*||F_initial||"}
	case solver.ReasonStepTol:
		return Status{4, "converged: step size small, ||delta x|| < stol"}
	case solver.ReasonFunctionDomain:
		return Status{-1, "diverged: trial state left the domain of F"}
	case solver.ReasonLinearSolve:
		return Status{-3, "diverged: the linear solve failed"}
	case solver.ReasonOverflow:
		return Status{-4, "diverged: ||F|| is NaN or Inf"}
	case solver.ReasonMaxIterations:
		return Status{-5, "diverged: maximum iterations reached"}
	case solver.ReasonStepRejected:
		return Status{-6, "diverged: the step acceptance test failed"}
	case solver.ReasonLocalMinimum:
		return Status{-8, "diverged: ||J^T F|| small, converged to a local minimum of F"}
	case solver.ReasonPostCheckFailed:
		return Status{69, "post-solve check failed: residual exceeds the convergence tolerance"}
	}
	return Status{1, "solver failed to converge"}
}
