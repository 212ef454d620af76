package invest

import (
	"strconv"

	"github.com/skillpassorg/libskillpass-go/skill"
)

// APY formula terms, in whole percent. These values are protocol
// constants: existing callers reproduce the same numbers, so changing any
// of them is a protocol version bump, not a tuning knob.
const (
	apyBase = 12

	endorsementBonusPer = 2  // per distinct investor
	endorsementBonusCap = 20 // at 10+ investors

	stakeBonusHigh      = 8
	stakeBonusLow       = 4
	stakeBonusThreshold = 1000 // raw base units, as at the live call sites

	verificationBonus = 5
)

// APY computes the pool's current APY in whole percent. It is a pure
// function of its inputs and must stay deterministic: pools store the
// result only as a convenience for readers.
func APY(investorCount uint32, totalInvested uint64, verified bool) uint64 {
	apy := uint64(apyBase)

	endorsement := uint64(investorCount) * endorsementBonusPer
	if endorsement > endorsementBonusCap {
		endorsement = endorsementBonusCap
	}
	apy += endorsement

	if totalInvested > stakeBonusThreshold {
		apy += stakeBonusHigh
	} else {
		apy += stakeBonusLow
	}

	if verified {
		apy += verificationBonus
	}
	return apy
}

// Refresh recomputes the pool's stored APY from its own aggregates.
func (p *Pool) Refresh(verified bool) {
	p.CurrentAPY = APY(p.InvestorCount, p.TotalInvested, verified)
}

func skillKey(id skill.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}
