// Package reputation implements the reputation token ledger: per-user
// accounts carrying a token balance and a reputation score, and the
// mint/slash/transfer mutations that move them. All amounts are integer
// base units. The package holds no state of its own; callers load
// accounts from a store, apply mutations, and commit the results.
package reputation

import (
	"time"

	"github.com/skillpassorg/libskillpass-go/identity"
)

// Account is a reputation token account.
type Account struct {
	Owner   identity.ID
	Balance uint64 // token balance in base units
	Score   uint64 // net mint minus slash; transfers do not move it

	CreatedAt time.Time
}

// NewAccount returns a zeroed account for owner.
func NewAccount(owner identity.ID, at time.Time) *Account {
	return &Account{Owner: owner, CreatedAt: at}
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// EventKind distinguishes audit event types.
type EventKind string

const (
	EventMint  EventKind = "mint"
	EventSlash EventKind = "slash"
)

// Event records a mint or slash for the audit history.
type Event struct {
	Kind   EventKind
	User   identity.ID
	Amount uint64
	Reason string
	At     time.Time
}
