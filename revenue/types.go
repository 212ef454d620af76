// Package revenue implements job-revenue distribution for skill pools:
// the fixed-share split of each recorded job payment, the append-only
// per-skill revenue breakdown, and the projected-revenue pricing model
// shown to prospective investors.
package revenue

import (
	"time"

	"github.com/skillpassorg/libskillpass-go/skill"
)

// Breakdown is the append-only revenue history for one skill. Cumulative
// totals are monotonic; entries record each job completion and its split.
type Breakdown struct {
	SkillID skill.ID

	// Cumulative totals in base units. Investor is the portion allocated
	// to the pool's reward accumulator; Platform and Verification are the
	// treasury-bound portions.
	Total        uint64
	Investor     uint64
	Platform     uint64
	Verification uint64

	Entries []Entry
}

// Entry records one job completion event.
type Entry struct {
	At          time.Time
	Amount      uint64
	Description string

	InvestorShare     uint64
	PlatformFee       uint64
	VerificationShare uint64 // 0 when the skill is verified (folded into InvestorShare)
}

// NewBreakdown returns an empty breakdown for skillID.
func NewBreakdown(skillID skill.ID) *Breakdown {
	return &Breakdown{SkillID: skillID}
}

// Clone returns a deep copy of the breakdown.
func (b *Breakdown) Clone() *Breakdown {
	c := *b
	c.Entries = make([]Entry, len(b.Entries))
	copy(c.Entries, b.Entries)
	return &c
}
