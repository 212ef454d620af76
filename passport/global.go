// Package passport is the authoritative skill-investment ledger. It owns
// the global state and exposes the ledger's mutating operations and read
// queries; the leaf packages (reputation, skill, invest, revenue, yield)
// supply the pure protocol math and passport supplies atomicity,
// authorization, and storage.
package passport

import (
	"time"

	"github.com/skillpassorg/libskillpass-go/identity"
	"github.com/skillpassorg/libskillpass-go/skill"
)

// GlobalState is the single bootstrap record. Exactly one exists;
// Initialize enforces that through the store, not by convention.
type GlobalState struct {
	Authority  identity.ID
	Treasury   identity.ID // treasury account on the reputation ledger
	SkillCount uint64      // issues monotonic skill IDs
	CreatedAt  time.Time
}

// Clone returns a copy of the global state.
func (g *GlobalState) Clone() *GlobalState {
	c := *g
	return &c
}

// nextSkillID issues the next skill identifier. Caller holds the global
// lock and commits the updated state in the same change set.
func (g *GlobalState) nextSkillID() skill.ID {
	g.SkillCount++
	return skill.ID(g.SkillCount)
}
