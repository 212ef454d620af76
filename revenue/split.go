package revenue

import (
	"fmt"
	"math/bits"
	"time"
)

// Revenue split in basis points. Protocol constants: the 70/20/10 split is
// fixed, and the verification share routes to the treasury only while the
// skill is unverified.
const (
	platformFeeBps  = 2000
	verificationBps = 1000
	bpsDenominator  = 10000
)

// Split divides a job payment into the investor share, the platform fee,
// and the verification share. Integer remainders fold into the investor
// share so the three parts always sum to amount. For verified skills the
// verification share is returned as part of investorShare and
// verificationShare is zero.
func Split(amount uint64, verified bool) (investorShare, platformFee, verificationShare uint64, err error) {
	if amount == 0 {
		return 0, 0, 0, fmt.Errorf("%w: revenue amount must be positive", ErrInvalidAmount)
	}

	platformFee = bpsOf(amount, platformFeeBps)
	verificationShare = bpsOf(amount, verificationBps)
	investorShare = amount - platformFee - verificationShare

	if verified {
		investorShare += verificationShare
		verificationShare = 0
	}
	return investorShare, platformFee, verificationShare, nil
}

// bpsOf returns amount*bps/10000 through a 128-bit intermediate so the
// product cannot wrap for very large payments. The quotient always fits:
// bps is below the denominator.
func bpsOf(amount, bps uint64) uint64 {
	hi, lo := bits.Mul64(amount, bps)
	q, _ := bits.Div64(hi, lo, bpsDenominator)
	return q
}

// Record splits amount, appends the entry, and advances the cumulative
// totals. It returns the investor share (reward-accumulator credit) and
// the treasury credit.
func (b *Breakdown) Record(amount uint64, description string, verified bool, at time.Time) (investorShare, treasuryShare uint64, err error) {
	investorShare, platformFee, verificationShare, err := Split(amount, verified)
	if err != nil {
		return 0, 0, err
	}

	b.Total += amount
	b.Investor += investorShare
	b.Platform += platformFee
	b.Verification += verificationShare
	b.Entries = append(b.Entries, Entry{
		At:                at,
		Amount:            amount,
		Description:       description,
		InvestorShare:     investorShare,
		PlatformFee:       platformFee,
		VerificationShare: verificationShare,
	})
	return investorShare, platformFee + verificationShare, nil
}
