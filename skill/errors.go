package skill

import "errors"

var (
	// ErrInvalidMetadata indicates a required skill field is empty.
	ErrInvalidMetadata = errors.New("skill: invalid metadata")
)
