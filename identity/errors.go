package identity

import "errors"

var (
	// ErrInvalidID indicates a malformed identifier string.
	ErrInvalidID = errors.New("identity: invalid identifier")
)
