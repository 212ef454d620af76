// Package skill defines the registry records for user-registered skills
// and the ownership credential minted to a skill's creator.
package skill

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillpassorg/libskillpass-go/identity"
)

// ID is the registry-issued skill identifier. IDs are monotonic and never
// reused; 0 is never a valid ID.
type ID uint64

// Skill is a registered skill record.
type Skill struct {
	ID          ID
	Creator     identity.ID
	Category    string
	Name        string
	Description string
	URI         string // off-ledger metadata pointer

	Verified         bool
	TotalStaked      uint64 // mirrors the pool's TotalInvested
	EndorsementCount uint32 // mirrors the pool's InvestorCount

	CreatedAt  time.Time
	Credential *Credential
}

// Credential is the non-fungible ownership artifact issued to the creator
// when a skill is registered. It is an identity record, not an economic one.
type Credential struct {
	SkillID      ID
	Owner        identity.ID
	CreatorScore uint64 // creator's reputation score at issue time
	IssuedAt     time.Time
}

// New validates the metadata and builds a skill record. The caller assigns
// the ID and attaches the credential.
func New(creator identity.ID, category, name, description, uri string, at time.Time) (*Skill, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidMetadata)
	}
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category must not be empty", ErrInvalidMetadata)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrInvalidMetadata)
	}
	if creator.IsZero() {
		return nil, fmt.Errorf("%w: creator identity required", ErrInvalidMetadata)
	}
	return &Skill{
		Creator:     creator,
		Category:    category,
		Name:        name,
		Description: description,
		URI:         uri,
		CreatedAt:   at,
	}, nil
}

// Clone returns a deep copy of the skill record.
func (s *Skill) Clone() *Skill {
	c := *s
	if s.Credential != nil {
		cred := *s.Credential
		c.Credential = &cred
	}
	return &c
}
