package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Deterministic(t *testing.T) {
	a := Derive("wallet:7NpTrx2k")
	b := Derive("wallet:9QmFej5w")

	assert.Equal(t, a, Derive("wallet:7NpTrx2k"))
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
}

func TestDeriveTagged_NamespaceSeparation(t *testing.T) {
	// A tagged system account must never equal any plain-derived ID,
	// even when an attacker controls the input string.
	user := Derive("treasury")
	sys := DeriveTagged("treasury")
	assert.NotEqual(t, user, sys)

	// Strings crafted to spell out a system account's preimage still land
	// in the user domain.
	forged := []string{
		"skillpass/sys\x00treasury",
		"skillpass/treasury",
		"skillpass/sys\x00pool-reward\x001",
		"skillpass/pool-reward\x001",
		"sys\x00treasury",
	}
	for _, s := range forged {
		assert.NotEqual(t, sys, Derive(s), "forged %q reached the treasury ID", s)
		assert.NotEqual(t, DeriveTagged("pool-reward", "1"), Derive(s), "forged %q reached the reward escrow", s)
	}

	p1 := DeriveTagged("pool-principal", "1")
	p2 := DeriveTagged("pool-principal", "2")
	r1 := DeriveTagged("pool-reward", "1")
	assert.NotEqual(t, p1, p2)
	assert.NotEqual(t, p1, r1)
}

func TestHexRoundTrip(t *testing.T) {
	id := Derive("user1")
	parsed, err := FromHex(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestFromHex_Invalid(t *testing.T) {
	_, err := FromHex("zz")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = FromHex("abcd")
	assert.ErrorIs(t, err, ErrInvalidID)
}
