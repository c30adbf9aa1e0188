package scheme

import "errors"

var (
	// ErrNoEstimate indicates the stability heuristic does not apply to the
	// equation. Callers of MaxTimestep never see it; the fallback absorbs it.
	ErrNoEstimate = errors.New("scheme: no stability estimate for equation")

	// ErrNonlinear indicates a scheme that cannot handle a nonzero
	// nonlinear part was applied to one.
	ErrNonlinear = errors.New("scheme: nonlinear part not supported")

	// ErrBadTimestep indicates a non-positive step size.
	ErrBadTimestep = errors.New("scheme: timestep must be positive")
)
