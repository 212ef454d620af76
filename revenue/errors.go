package revenue

import "errors"

var (
	// ErrInvalidAmount indicates a zero revenue amount.
	ErrInvalidAmount = errors.New("revenue: invalid amount")
)
