// Package yield implements claim settlement for investors: the monthly
// eligibility gate and the pro-rata computation of yield owed.
package yield

import (
	"fmt"
	"math/bits"
	"time"
)

// ClaimWindow is the minimum interval between claims. The gate is hard:
// a claim one second early fails identically to one on day one.
const ClaimWindow = 30 * 24 * time.Hour

// Eligible reports whether a claim at now is allowed given the last claim
// time (the investment's creation time if it has never claimed).
func Eligible(lastClaimAt, now time.Time) bool {
	return !now.Before(lastClaimAt.Add(ClaimWindow))
}

// NextClaimTime returns the earliest instant a claim will be accepted.
func NextClaimTime(lastClaimAt time.Time) time.Time {
	return lastClaimAt.Add(ClaimWindow)
}

// CheckEligible returns ErrNoYieldToClaim if the window has not elapsed.
func CheckEligible(lastClaimAt, now time.Time) error {
	if !Eligible(lastClaimAt, now) {
		return fmt.Errorf("%w: next claim at %s", ErrNoYieldToClaim,
			NextClaimTime(lastClaimAt).UTC().Format(time.RFC3339))
	}
	return nil
}

// Owed computes the amount payable to an investor: their pro-rata share of
// the investor-allocated revenue accrued since their mark, capped at what
// the reward accumulator actually holds. Yield is never fabricated.
func Owed(principal, totalInvested, accrued, accumulatorBalance uint64) uint64 {
	if principal == 0 || totalInvested == 0 || accrued == 0 {
		return 0
	}
	owed := mulDiv(accrued, principal, totalInvested)
	if owed > accumulatorBalance {
		owed = accumulatorBalance
	}
	return owed
}

// mulDiv returns a*b/c through a 128-bit intermediate so large accruals
// against large principals cannot overflow. The quotient always fits:
// callers pass b ≤ c (principal never exceeds the pool total).
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return q
}
