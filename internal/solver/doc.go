// Package solver owns the nonlinear solve session: Newton iteration over the
// assembled residual and block Jacobian, a backtracking step-acceptance test,
// and the exact termination taxonomy.
//
// A [Session] walks Uninitialized -> Initialized -> Solving and ends in a
// terminal state (converged, diverged, or failed). Terminal sessions cannot
// be reused; construct a new session to solve again. One Solve call owns the
// model's mutable state exclusively until it returns. After any converged
// result the residual is re-evaluated at the final state; if the explicit
// check contradicts the convergence flag, the outcome is downgraded to
// [ReasonPostCheckFailed].
package solver
