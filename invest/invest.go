package invest

import (
	"fmt"
	"time"

	"github.com/skillpassorg/libskillpass-go/identity"
)

// Deposit applies one investment to the pool. inv is the investor's
// existing record for this skill, or nil on first deposit; the (possibly
// new) record is returned. The caller has already moved the tokens and
// holds the pool's lock; existing is the full set of investment records
// for the pool, used to recompute the distinct-investor count.
func Deposit(p *Pool, inv *Investment, investor identity.ID, amount uint64, accrualMark uint64, existing []*Investment, at time.Time) (*Investment, error) {
	if amount < MinInvestment {
		return nil, fmt.Errorf("%w: %d < %d", ErrBelowMinimum, amount, MinInvestment)
	}

	if inv == nil {
		inv = &Investment{
			Investor:    investor,
			SkillID:     p.SkillID,
			Principal:   amount,
			CreatedAt:   at,
			LastClaimAt: at,
			AccrualMark: accrualMark,
		}
		existing = append(existing, inv)
	} else {
		inv.Principal += amount
	}

	p.TotalInvested += amount
	p.InvestorCount = countInvestors(existing)
	return inv, nil
}

// countInvestors returns the number of distinct investors with a non-zero
// principal.
func countInvestors(invs []*Investment) uint32 {
	seen := make(map[identity.ID]struct{}, len(invs))
	for _, inv := range invs {
		if inv.Principal == 0 {
			continue
		}
		seen[inv.Investor] = struct{}{}
	}
	return uint32(len(seen))
}
