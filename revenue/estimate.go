package revenue

import "github.com/shopspring/decimal"

// Pricing model constants. The projection is what prospective investors
// see before any job has been recorded; settlement never consults it.
var (
	baseMonthlyRevenue = decimal.NewFromInt(800)
	investorUplift     = decimal.RequireFromString("0.1")  // per investor
	stakeUplift        = decimal.RequireFromString("0.05") // per 1000 staked
	stakeUpliftUnit    = decimal.NewFromInt(1000)
	investorYieldShare = decimal.RequireFromString("0.07") // of projected revenue
	one                = decimal.NewFromInt(1)
)

// ProjectedMonthlyRevenue returns the deterministic monthly revenue
// estimate for a pool:
//
//	800 × (1 + 0.1 × investorCount) × (1 + 0.05 × totalInvested/1000)
func ProjectedMonthlyRevenue(investorCount uint32, totalInvested uint64) decimal.Decimal {
	investors := one.Add(investorUplift.Mul(decimal.NewFromInt(int64(investorCount))))
	stake := one.Add(stakeUplift.Mul(decimal.NewFromUint64(totalInvested).Div(stakeUpliftUnit)))
	return baseMonthlyRevenue.Mul(investors).Mul(stake)
}

// EstimateMonthlyYield returns the expected monthly yield for a
// prospective stake against a pool holding totalInvested: 7% of projected
// monthly revenue, pro-rata by post-investment ownership share. Advisory
// only: it is a pricing figure, not a settlement amount.
func EstimateMonthlyYield(stake uint64, totalInvested uint64, investorCount uint32) decimal.Decimal {
	if stake == 0 {
		return decimal.Zero
	}
	projected := ProjectedMonthlyRevenue(investorCount, totalInvested)
	earmarked := projected.Mul(investorYieldShare)
	share := decimal.NewFromUint64(stake).Div(decimal.NewFromUint64(totalInvested + stake))
	return earmarked.Mul(share)
}
