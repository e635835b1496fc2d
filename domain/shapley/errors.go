package shapley

import "errors"

// Domain errors for Shapley computations.
var (
	// ErrEfficiencyViolated indicates the values do not sum to the grand coalition's worth.
	ErrEfficiencyViolated = errors.New("shapley values do not sum to grand coalition worth")
)
