// Package identity defines the opaque participant identifiers used by the
// ledger. An ID is a stable, collision-free 32-byte value; how the outer
// layer maps wallets or login sessions onto IDs is its own business.
package identity

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the length of an ID in bytes.
const Size = 32

// ID identifies a ledger participant or a system-owned account.
type ID [Size]byte

// Zero is the all-zero ID, used as "no identity".
var Zero ID

// Hash domains. User-derived and system-account IDs hash under distinct
// fixed prefixes. The prefixes differ before any caller-controlled byte is
// written, so no identity string passed to Derive can reproduce the preimage
// of a tagged system account.
var (
	userDomain   = []byte("skillpass/user\x00")
	systemDomain = []byte("skillpass/sys\x00")
)

// Derive returns the ID for an external identity string. The same string
// always derives the same ID.
func Derive(s string) ID {
	h, _ := blake2b.New256(nil)
	h.Write(userDomain)
	h.Write([]byte(s))
	var id ID
	h.Sum(id[:0])
	return id
}

// DeriveTagged returns a system-account ID in a namespace separate from
// user-derived IDs. Escrow and treasury accounts use this so they can never
// collide with an ID any external identity string could derive.
func DeriveTagged(tag string, parts ...string) ID {
	h, _ := blake2b.New256(nil)
	h.Write(systemDomain)
	h.Write([]byte(tag))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(p))
	}
	var id ID
	h.Sum(id[:0])
	return id
}

// FromHex parses a 64-character hex string into an ID.
func FromHex(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(b) != Size {
		return Zero, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidID, Size, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// String returns the hex form of the ID.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id == Zero
}
