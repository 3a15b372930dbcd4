package binning

import "errors"

var (
	// ErrDegenerateOutcome means the rows being binned have no bad or no
	// good outcomes, so shares, WOE and IV are undefined.
	ErrDegenerateOutcome = errors.New("binning: outcome has no bad or no good rows")
	// ErrExcessiveIterations means a merge was requested with fewer than two
	// bins left.
	ErrExcessiveIterations = errors.New("binning: more iterations requested than mergeable boundaries")
	ErrInvalidCuts         = errors.New("binning: invalid cut points")
	ErrInvalidIterations   = errors.New("binning: maximum iterations must be positive")
)
