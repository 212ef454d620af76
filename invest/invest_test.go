package invest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillpassorg/libskillpass-go/identity"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAPY(t *testing.T) {
	tests := []struct {
		name     string
		count    uint32
		invested uint64
		verified bool
		want     uint64
	}{
		{"empty pool", 0, 0, false, 16},                 // 12 + 0 + 4
		{"one investor small stake", 1, 200, false, 18}, // 12 + 2 + 4
		{"one investor large stake", 1, 200_000_000, false, 22},
		{"endorsement bonus caps at ten", 25, 5000, false, 40}, // 12 + 20 + 8
		{"verified adds five", 3, 2000, true, 31},              // 12 + 6 + 8 + 5
		{"threshold is strict", 1, 1000, false, 18},
		{"just over threshold", 1, 1001, false, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, APY(tt.count, tt.invested, tt.verified))
		})
	}
}

func TestAPY_Deterministic(t *testing.T) {
	a := APY(7, 123_456, true)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a, APY(7, 123_456, true))
	}
}

func TestNewPool(t *testing.T) {
	p := NewPool(3, now)
	assert.Equal(t, uint64(16), p.CurrentAPY)
	assert.Zero(t, p.TotalInvested)
	assert.False(t, p.PrincipalAccount.IsZero())
	assert.False(t, p.RewardAccount.IsZero())
	assert.NotEqual(t, p.PrincipalAccount, p.RewardAccount)

	// Escrow accounts are stable per skill and distinct across skills.
	q := NewPool(3, now.Add(time.Hour))
	assert.Equal(t, p.PrincipalAccount, q.PrincipalAccount)
	r := NewPool(4, now)
	assert.NotEqual(t, p.PrincipalAccount, r.PrincipalAccount)
}

func TestDeposit_First(t *testing.T) {
	p := NewPool(1, now)
	alice := identity.Derive("alice")

	inv, err := Deposit(p, nil, alice, 200_000_000, 0, nil, now)
	require.NoError(t, err)

	assert.Equal(t, uint64(200_000_000), inv.Principal)
	assert.Equal(t, now, inv.CreatedAt)
	assert.Equal(t, now, inv.LastClaimAt)
	assert.Equal(t, uint64(200_000_000), p.TotalInvested)
	assert.Equal(t, uint32(1), p.InvestorCount)
}

func TestDeposit_RepeatGrowsPrincipal(t *testing.T) {
	p := NewPool(1, now)
	alice := identity.Derive("alice")

	inv, err := Deposit(p, nil, alice, 100, 0, nil, now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	inv2, err := Deposit(p, inv, alice, 60, 0, []*Investment{inv}, later)
	require.NoError(t, err)

	assert.Same(t, inv, inv2)
	assert.Equal(t, uint64(160), inv.Principal)
	assert.Equal(t, now, inv.CreatedAt) // unchanged on repeat deposits
	assert.Equal(t, uint64(160), p.TotalInvested)
	assert.Equal(t, uint32(1), p.InvestorCount)
}

func TestDeposit_BelowMinimum(t *testing.T) {
	p := NewPool(1, now)
	_, err := Deposit(p, nil, identity.Derive("alice"), 49, 0, nil, now)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.Zero(t, p.TotalInvested)

	_, err = Deposit(p, nil, identity.Derive("alice"), 50, 0, nil, now)
	assert.NoError(t, err)
}

func TestDeposit_DistinctInvestorCount(t *testing.T) {
	p := NewPool(1, now)
	var invs []*Investment

	for _, name := range []string{"a", "b", "c"} {
		inv, err := Deposit(p, nil, identity.Derive(name), 1000, 0, invs, now)
		require.NoError(t, err)
		invs = append(invs, inv)
	}
	assert.Equal(t, uint32(3), p.InvestorCount)

	// Repeat deposit does not double-count.
	_, err := Deposit(p, invs[0], identity.Derive("a"), 500, 0, invs, now)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), p.InvestorCount)
	assert.Equal(t, uint64(3500), p.TotalInvested)
}
