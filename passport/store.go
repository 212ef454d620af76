package passport

import (
	"sort"
	"sync"

	"github.com/skillpassorg/libskillpass-go/identity"
	"github.com/skillpassorg/libskillpass-go/invest"
	"github.com/skillpassorg/libskillpass-go/reputation"
	"github.com/skillpassorg/libskillpass-go/revenue"
	"github.com/skillpassorg/libskillpass-go/skill"
)

// ChangeSet is the unit of commitment: every entity an operation mutated,
// applied to storage in one atomic write. Operations validate first, build
// the set, and call Store.Apply last; a failed operation commits nothing.
type ChangeSet struct {
	Global      *GlobalState
	Accounts    []*reputation.Account
	Skills      []*skill.Skill
	Pools       []*invest.Pool
	Investments []*invest.Investment
	Breakdowns  []*revenue.Breakdown
	Events      []*reputation.Event
}

// Store persists ledger entities. Reads return copies; the only write path
// is Apply, which must be atomic. Lookups return the package's *NotFound
// sentinels when the entity does not exist.
type Store interface {
	// Global returns the bootstrap record, or ErrNotInitialized.
	Global() (*GlobalState, error)

	// Account returns the reputation account for id, or ErrAccountNotFound.
	Account(id identity.ID) (*reputation.Account, error)

	// Accounts returns every reputation account.
	Accounts() ([]*reputation.Account, error)

	// Skill returns a skill record, or ErrSkillNotFound.
	Skill(id skill.ID) (*skill.Skill, error)

	// Skills returns every skill record in id order.
	Skills() ([]*skill.Skill, error)

	// Pool returns the investment pool for a skill, or ErrSkillNotFound.
	Pool(id skill.ID) (*invest.Pool, error)

	// Investment returns one investor's position, or ErrNoInvestmentFound.
	Investment(investor identity.ID, id skill.ID) (*invest.Investment, error)

	// InvestmentsBySkill returns every position in a skill's pool.
	InvestmentsBySkill(id skill.ID) ([]*invest.Investment, error)

	// InvestmentsByInvestor returns every position held by an investor.
	InvestmentsByInvestor(investor identity.ID) ([]*invest.Investment, error)

	// Breakdown returns a skill's revenue history, or ErrSkillNotFound.
	Breakdown(id skill.ID) (*revenue.Breakdown, error)

	// Events returns the audit history for a user, oldest first.
	Events(user identity.ID) ([]*reputation.Event, error)

	// Apply atomically writes every entity in the change set.
	Apply(cs *ChangeSet) error

	// Close releases the store's resources.
	Close() error
}

// invKey is the composite (investor, skill) key for investment records.
type invKey struct {
	investor identity.ID
	skillID  skill.ID
}

// MemStore is an in-memory Store, used by tests and by embedders that do
// not need durability.
type MemStore struct {
	mu          sync.RWMutex
	global      *GlobalState
	accounts    map[identity.ID]*reputation.Account
	skills      map[skill.ID]*skill.Skill
	pools       map[skill.ID]*invest.Pool
	investments map[invKey]*invest.Investment
	breakdowns  map[skill.ID]*revenue.Breakdown
	events      []*reputation.Event
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		accounts:    make(map[identity.ID]*reputation.Account),
		skills:      make(map[skill.ID]*skill.Skill),
		pools:       make(map[skill.ID]*invest.Pool),
		investments: make(map[invKey]*invest.Investment),
		breakdowns:  make(map[skill.ID]*revenue.Breakdown),
	}
}

// Global returns the bootstrap record.
func (s *MemStore) Global() (*GlobalState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.global == nil {
		return nil, ErrNotInitialized
	}
	return s.global.Clone(), nil
}

// Account returns the reputation account for id.
func (s *MemStore) Account(id identity.ID) (*reputation.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a.Clone(), nil
}

// Accounts returns every reputation account.
func (s *MemStore) Accounts() ([]*reputation.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*reputation.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Clone())
	}
	return out, nil
}

// Skill returns a skill record.
func (s *MemStore) Skill(id skill.ID) (*skill.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sk, ok := s.skills[id]
	if !ok {
		return nil, ErrSkillNotFound
	}
	return sk.Clone(), nil
}

// Skills returns every skill record in id order.
func (s *MemStore) Skills() ([]*skill.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*skill.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		out = append(out, sk.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Pool returns the investment pool for a skill.
func (s *MemStore) Pool(id skill.ID) (*invest.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pools[id]
	if !ok {
		return nil, ErrSkillNotFound
	}
	return p.Clone(), nil
}

// Investment returns one investor's position.
func (s *MemStore) Investment(investor identity.ID, id skill.ID) (*invest.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.investments[invKey{investor, id}]
	if !ok {
		return nil, ErrNoInvestmentFound
	}
	return inv.Clone(), nil
}

// InvestmentsBySkill returns every position in a skill's pool.
func (s *MemStore) InvestmentsBySkill(id skill.ID) ([]*invest.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*invest.Investment
	for k, inv := range s.investments {
		if k.skillID == id {
			out = append(out, inv.Clone())
		}
	}
	return out, nil
}

// InvestmentsByInvestor returns every position held by an investor.
func (s *MemStore) InvestmentsByInvestor(investor identity.ID) ([]*invest.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*invest.Investment
	for k, inv := range s.investments {
		if k.investor == investor {
			out = append(out, inv.Clone())
		}
	}
	return out, nil
}

// Breakdown returns a skill's revenue history.
func (s *MemStore) Breakdown(id skill.ID) (*revenue.Breakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.breakdowns[id]
	if !ok {
		return nil, ErrSkillNotFound
	}
	return b.Clone(), nil
}

// Events returns the audit history for a user, oldest first.
func (s *MemStore) Events(user identity.ID) ([]*reputation.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*reputation.Event
	for _, e := range s.events {
		if e.User == user {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

// Apply atomically writes every entity in the change set.
func (s *MemStore) Apply(cs *ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cs.Global != nil {
		s.global = cs.Global.Clone()
	}
	for _, a := range cs.Accounts {
		s.accounts[a.Owner] = a.Clone()
	}
	for _, sk := range cs.Skills {
		s.skills[sk.ID] = sk.Clone()
	}
	for _, p := range cs.Pools {
		s.pools[p.SkillID] = p.Clone()
	}
	for _, inv := range cs.Investments {
		s.investments[invKey{inv.Investor, inv.SkillID}] = inv.Clone()
	}
	for _, b := range cs.Breakdowns {
		s.breakdowns[b.SkillID] = b.Clone()
	}
	for _, e := range cs.Events {
		c := *e
		s.events = append(s.events, &c)
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }
