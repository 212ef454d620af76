package invest

import "errors"

var (
	// ErrBelowMinimum indicates a deposit under the minimum investment.
	ErrBelowMinimum = errors.New("invest: amount below minimum investment")
)
