package passport

import "errors"

var (
	// ErrUnauthorized indicates the caller lacks the required role.
	ErrUnauthorized = errors.New("passport: unauthorized")

	// ErrNotInitialized indicates the ledger has no global state yet.
	ErrNotInitialized = errors.New("passport: ledger not initialized")

	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.New("passport: ledger already initialized")

	// ErrSkillNotFound indicates an unknown skill identifier.
	ErrSkillNotFound = errors.New("passport: skill not found")

	// ErrNoInvestmentFound indicates the caller holds no position in the skill.
	ErrNoInvestmentFound = errors.New("passport: no investment found")

	// ErrAccountNotFound indicates no reputation account exists for the identity.
	ErrAccountNotFound = errors.New("passport: account not found")
)
