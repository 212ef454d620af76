package yield

import "errors"

var (
	// ErrNoYieldToClaim indicates the claim window has not elapsed. This
	// is an expected business outcome, not an infrastructure failure.
	ErrNoYieldToClaim = errors.New("yield: no yield to claim yet")
)
