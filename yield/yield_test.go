package yield

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestEligible(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"immediately", 0, false},
		{"day one", 24 * time.Hour, false},
		{"day twenty-nine", 29 * 24 * time.Hour, false},
		{"one second early", ClaimWindow - time.Second, false},
		{"exactly thirty days", ClaimWindow, true},
		{"well past", 90 * 24 * time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(start, start.Add(tt.elapsed)))
		})
	}
}

func TestCheckEligible(t *testing.T) {
	err := CheckEligible(start, start.Add(29*24*time.Hour))
	assert.ErrorIs(t, err, ErrNoYieldToClaim)

	assert.NoError(t, CheckEligible(start, start.Add(ClaimWindow)))
}

func TestNextClaimTime(t *testing.T) {
	assert.Equal(t, start.Add(ClaimWindow), NextClaimTime(start))
}

func TestOwed(t *testing.T) {
	tests := []struct {
		name                                        string
		principal, totalInvested, accrued, reserves uint64
		want                                        uint64
	}{
		{"sole investor takes all", 1000, 1000, 700, 700, 700},
		{"half share", 500, 1000, 700, 700, 350},
		{"rounds down", 1, 3, 100, 100, 33},
		{"capped at reserves", 1000, 1000, 700, 600, 600},
		{"nothing accrued", 1000, 1000, 0, 500, 0},
		{"zero principal", 0, 1000, 700, 700, 0},
		{"empty pool", 100, 0, 700, 700, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Owed(tt.principal, tt.totalInvested, tt.accrued, tt.reserves))
		})
	}
}

func TestOwed_LargeMagnitudes(t *testing.T) {
	// accrued × principal overflows uint64; the 128-bit path must not.
	principal := uint64(200_000_000_000)
	total := uint64(900_000_000_000)
	accrued := uint64(3_500_000_000_000)

	got := Owed(principal, total, accrued, accrued)
	// 3.5e12 × 2e11 / 9e11 = 777_777_777_777 (floor)
	assert.Equal(t, uint64(777_777_777_777), got)
}
