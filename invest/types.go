// Package invest implements investment pool accounting: the per-skill pool
// aggregates, per-investor investment records, and the APY formula.
package invest

import (
	"time"

	"github.com/skillpassorg/libskillpass-go/identity"
	"github.com/skillpassorg/libskillpass-go/skill"
)

// MinInvestment is the floor for a single deposit, in raw base units.
// The comparison is deliberately against base units, matching the live
// call sites this package interoperates with.
const MinInvestment = 50

// Pool holds the aggregate stake accounting for one skill. Exactly one
// pool exists per skill, created with it.
type Pool struct {
	SkillID       skill.ID
	TotalInvested uint64
	InvestorCount uint32
	CurrentAPY    uint64 // whole percent, recomputed from inputs

	// Escrow accounts on the reputation ledger. Principal holds staked
	// tokens; Reward accumulates the investor share of recorded revenue.
	PrincipalAccount identity.ID
	RewardAccount    identity.ID

	CreatedAt time.Time
}

// NewPool returns a zeroed pool for skillID with derived escrow accounts.
func NewPool(skillID skill.ID, at time.Time) *Pool {
	n := skillKey(skillID)
	return &Pool{
		SkillID:          skillID,
		CurrentAPY:       APY(0, 0, false),
		PrincipalAccount: identity.DeriveTagged("pool-principal", n),
		RewardAccount:    identity.DeriveTagged("pool-reward", n),
		CreatedAt:        at,
	}
}

// Clone returns a copy of the pool.
func (p *Pool) Clone() *Pool {
	c := *p
	return &c
}

// Investment is one investor's position in one skill. There is exactly one
// record per (investor, skill) pair; repeat deposits grow the principal.
type Investment struct {
	Investor    identity.ID
	SkillID     skill.ID
	Principal   uint64
	CreatedAt   time.Time
	LastClaimAt time.Time

	// AccrualMark is the pool's cumulative investor-allocated revenue at
	// the time of the last claim (or creation). Yield owed is computed
	// from the delta past this mark.
	AccrualMark  uint64
	PendingYield uint64
	TotalClaimed uint64
}

// Clone returns a copy of the investment.
func (i *Investment) Clone() *Investment {
	c := *i
	return &c
}
