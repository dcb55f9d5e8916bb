// Package system assembles the nonlinear equilibrium equations of a mooring
// model: the residual vector F(x) and its block Jacobian
//
//	J = [  A    B ]
//	    [ -B^T  C ]
//
// where A couples node equations to free node positions, B couples them to
// the line tension unknowns (the upper block carries the function scaling K),
// and C holds each line's 2x2 catenary partials on the diagonal.
//
// The residual is the concatenation of K-scaled node force-balance rows (one
// per active axis per free node) and the unscaled per-line closure rows
// f_h = Xc - l, f_v = Zc - h. Index bookkeeping is computed once per builder;
// every evaluation refreshes values only.
package system
