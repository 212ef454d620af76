package reputation

import "errors"

var (
	// ErrInvalidAmount indicates a zero or otherwise unusable token amount.
	ErrInvalidAmount = errors.New("reputation: invalid amount")

	// ErrInsufficientBalance indicates a debit larger than the balance.
	ErrInsufficientBalance = errors.New("reputation: insufficient balance")
)
