package passport

import (
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/shopspring/decimal"

	"github.com/skillpassorg/libskillpass-go/identity"
	"github.com/skillpassorg/libskillpass-go/invest"
	"github.com/skillpassorg/libskillpass-go/reputation"
	"github.com/skillpassorg/libskillpass-go/revenue"
	"github.com/skillpassorg/libskillpass-go/skill"
	"github.com/skillpassorg/libskillpass-go/yield"
)

var log = logging.Logger("passport")

// Ledger is the shared business-logic layer: one instance per deployment,
// safe for concurrent use. REST handlers, RPC adapters, and tests all call
// Ledger methods; nothing mutates the store behind its back.
type Ledger struct {
	store Store
	locks *lockTable
	now   func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the ledger's time source. Eligibility gates compare
// stored timestamps against this clock; tests use it to cross the claim
// window without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a Ledger over the given store.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		locks: newLockTable(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Close closes the underlying store.
func (l *Ledger) Close() error { return l.store.Close() }

// Lock unit names. Accounts, skills (with their pool, breakdown, and
// investment records), and the global record are the serialization units.
func acctKey(id identity.ID) string { return "acct:" + id.String() }
func skillLockKey(id skill.ID) string {
	return fmt.Sprintf("skill:%d", id)
}

const globalKey = "global"

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

// Initialize creates the global state and the treasury account. It can
// succeed exactly once; a second call fails with ErrAlreadyInitialized.
func (l *Ledger) Initialize(authority identity.ID) (*GlobalState, error) {
	if authority.IsZero() {
		return nil, fmt.Errorf("%w: authority identity required", ErrUnauthorized)
	}

	release := l.locks.acquire(globalKey)
	defer release()

	if _, err := l.store.Global(); err == nil {
		return nil, ErrAlreadyInitialized
	} else if !errors.Is(err, ErrNotInitialized) {
		return nil, err
	}

	now := l.now()
	g := &GlobalState{
		Authority: authority,
		Treasury:  identity.DeriveTagged("treasury"),
		CreatedAt: now,
	}
	treasury := reputation.NewAccount(g.Treasury, now)

	if err := l.store.Apply(&ChangeSet{
		Global:   g,
		Accounts: []*reputation.Account{treasury},
	}); err != nil {
		return nil, err
	}
	log.Infow("ledger initialized", "authority", authority.String())
	return g.Clone(), nil
}

// ---------------------------------------------------------------------------
// Reputation operations
// ---------------------------------------------------------------------------

// Mint issues reputation tokens to user. Authority only.
func (l *Ledger) Mint(caller, user identity.ID, amount uint64, reason string) (*reputation.Account, error) {
	g, err := l.store.Global()
	if err != nil {
		return nil, err
	}
	if caller != g.Authority {
		return nil, fmt.Errorf("%w: mint requires the authority", ErrUnauthorized)
	}

	release := l.locks.acquire(acctKey(user))
	defer release()

	account, err := l.loadOrNewAccount(user)
	if err != nil {
		return nil, err
	}
	if err := reputation.Mint(account, amount); err != nil {
		return nil, err
	}

	now := l.now()
	err = l.store.Apply(&ChangeSet{
		Accounts: []*reputation.Account{account},
		Events: []*reputation.Event{{
			Kind: reputation.EventMint, User: user, Amount: amount, Reason: reason, At: now,
		}},
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("minted", "user", user.String(), "amount", amount, "reason", reason)
	return account.Clone(), nil
}

// Slash burns amount from user's balance and score and credits the
// treasury. Authority only. The debit and the treasury credit land in one
// commit; a partial application would corrupt conservation.
func (l *Ledger) Slash(caller, user identity.ID, amount uint64, reason string) (*reputation.Account, error) {
	g, err := l.store.Global()
	if err != nil {
		return nil, err
	}
	if caller != g.Authority {
		return nil, fmt.Errorf("%w: slash requires the authority", ErrUnauthorized)
	}

	release := l.locks.acquire(acctKey(user), acctKey(g.Treasury))
	defer release()

	account, err := l.store.Account(user)
	if err != nil {
		return nil, err
	}
	treasury, err := l.store.Account(g.Treasury)
	if err != nil {
		return nil, err
	}
	if err := reputation.Slash(account, treasury, amount); err != nil {
		return nil, err
	}

	now := l.now()
	err = l.store.Apply(&ChangeSet{
		Accounts: []*reputation.Account{account, treasury},
		Events: []*reputation.Event{{
			Kind: reputation.EventSlash, User: user, Amount: amount, Reason: reason, At: now,
		}},
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("slashed", "user", user.String(), "amount", amount, "reason", reason)
	return account.Clone(), nil
}

// ---------------------------------------------------------------------------
// Skill registry
// ---------------------------------------------------------------------------

// CreateSkill registers a skill and atomically creates its zeroed
// investment pool, empty revenue breakdown, and the creator's ownership
// credential.
func (l *Ledger) CreateSkill(creator identity.ID, category, name, description, uri string) (*skill.Skill, error) {
	now := l.now()
	sk, err := skill.New(creator, category, name, description, uri, now)
	if err != nil {
		return nil, err
	}

	release := l.locks.acquire(globalKey)
	defer release()

	g, err := l.store.Global()
	if err != nil {
		return nil, err
	}
	sk.ID = g.nextSkillID()

	// Record the creator's standing on the credential when they already
	// hold a reputation account; a missing account is not an error.
	var creatorScore uint64
	if acct, err := l.store.Account(creator); err == nil {
		creatorScore = acct.Score
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	sk.Credential = &skill.Credential{
		SkillID:      sk.ID,
		Owner:        creator,
		CreatorScore: creatorScore,
		IssuedAt:     now,
	}

	pool := invest.NewPool(sk.ID, now)
	principal := reputation.NewAccount(pool.PrincipalAccount, now)
	reward := reputation.NewAccount(pool.RewardAccount, now)

	err = l.store.Apply(&ChangeSet{
		Global:     g,
		Skills:     []*skill.Skill{sk},
		Pools:      []*invest.Pool{pool},
		Breakdowns: []*revenue.Breakdown{revenue.NewBreakdown(sk.ID)},
		Accounts:   []*reputation.Account{principal, reward},
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("skill created", "id", sk.ID, "name", name, "creator", creator.String())
	return sk.Clone(), nil
}

// VerifySkill flips a skill's verified flag. Authority only. The pool's
// APY picks up the verification bonus immediately.
func (l *Ledger) VerifySkill(caller identity.ID, id skill.ID) (*skill.Skill, error) {
	g, err := l.store.Global()
	if err != nil {
		return nil, err
	}
	if caller != g.Authority {
		return nil, fmt.Errorf("%w: verification requires the authority", ErrUnauthorized)
	}

	release := l.locks.acquire(skillLockKey(id))
	defer release()

	sk, err := l.store.Skill(id)
	if err != nil {
		return nil, err
	}
	pool, err := l.store.Pool(id)
	if err != nil {
		return nil, err
	}

	sk.Verified = true
	pool.Refresh(true)

	err = l.store.Apply(&ChangeSet{
		Skills: []*skill.Skill{sk},
		Pools:  []*invest.Pool{pool},
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("skill verified", "id", id)
	return sk.Clone(), nil
}

// ---------------------------------------------------------------------------
// Investment
// ---------------------------------------------------------------------------

// Invest stakes amount of the investor's reputation tokens against a
// skill. First deposits create the Investment record; repeats grow its
// principal. The pool aggregates, the skill mirror fields, and the APY are
// updated in the same commit as the token transfer.
func (l *Ledger) Invest(investor identity.ID, id skill.ID, amount uint64) (*invest.Investment, error) {
	if amount < invest.MinInvestment {
		return nil, fmt.Errorf("%w: %d < %d", invest.ErrBelowMinimum, amount, invest.MinInvestment)
	}

	release := l.locks.acquire(skillLockKey(id), acctKey(investor))
	defer release()

	sk, err := l.store.Skill(id)
	if err != nil {
		return nil, err
	}
	pool, err := l.store.Pool(id)
	if err != nil {
		return nil, err
	}
	account, err := l.store.Account(investor)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: no tokens to invest", reputation.ErrInsufficientBalance)
		}
		return nil, err
	}
	principal, err := l.store.Account(pool.PrincipalAccount)
	if err != nil {
		return nil, err
	}
	breakdown, err := l.store.Breakdown(id)
	if err != nil {
		return nil, err
	}

	if err := reputation.Transfer(account, principal, amount); err != nil {
		return nil, err
	}

	var existingInv *invest.Investment
	if inv, err := l.store.Investment(investor, id); err == nil {
		existingInv = inv
	} else if !errors.Is(err, ErrNoInvestmentFound) {
		return nil, err
	}
	others, err := l.store.InvestmentsBySkill(id)
	if err != nil {
		return nil, err
	}
	if existingInv != nil {
		// Mutate the loaded copy, not a second read of the same record.
		filtered := others[:0]
		for _, o := range others {
			if o.Investor != investor {
				filtered = append(filtered, o)
			}
		}
		others = append(filtered, existingInv)
	}

	now := l.now()
	// New positions start accruing from the current cumulative mark;
	// revenue recorded before the deposit is not theirs.
	inv, err := invest.Deposit(pool, existingInv, investor, amount, breakdown.Investor, others, now)
	if err != nil {
		return nil, err
	}
	pool.Refresh(sk.Verified)
	sk.TotalStaked = pool.TotalInvested
	sk.EndorsementCount = pool.InvestorCount

	err = l.store.Apply(&ChangeSet{
		Accounts:    []*reputation.Account{account, principal},
		Skills:      []*skill.Skill{sk},
		Pools:       []*invest.Pool{pool},
		Investments: []*invest.Investment{inv},
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("invested", "skill", id, "investor", investor.String(), "amount", amount,
		"totalInvested", pool.TotalInvested, "apy", pool.CurrentAPY)
	return inv.Clone(), nil
}

// ---------------------------------------------------------------------------
// Revenue
// ---------------------------------------------------------------------------

// RecordJobCompletion records job revenue against a skill. Authority or
// the skill's creator only. The amount splits 70/20/10: the investor share
// credits the pool's reward accumulator, the platform fee credits the
// treasury, and the verification share follows the skill's verified flag.
// Pending yield across the pool's positions and the APY are refreshed in
// the same commit.
func (l *Ledger) RecordJobCompletion(caller identity.ID, id skill.ID, amount uint64, description string) (*revenue.Breakdown, error) {
	g, err := l.store.Global()
	if err != nil {
		return nil, err
	}

	release := l.locks.acquire(skillLockKey(id), acctKey(g.Treasury))
	defer release()

	sk, err := l.store.Skill(id)
	if err != nil {
		return nil, err
	}
	if caller != g.Authority && caller != sk.Creator {
		return nil, fmt.Errorf("%w: revenue is recorded by the authority or the skill creator", ErrUnauthorized)
	}
	pool, err := l.store.Pool(id)
	if err != nil {
		return nil, err
	}
	breakdown, err := l.store.Breakdown(id)
	if err != nil {
		return nil, err
	}
	reward, err := l.store.Account(pool.RewardAccount)
	if err != nil {
		return nil, err
	}
	treasury, err := l.store.Account(g.Treasury)
	if err != nil {
		return nil, err
	}

	now := l.now()
	investorShare, treasuryShare, err := breakdown.Record(amount, description, sk.Verified, now)
	if err != nil {
		return nil, err
	}

	// Job payments enter the system here: balance credits with no
	// matching ledger debit, mirroring revenue arriving from outside the
	// reputation mint.
	reward.Balance += investorShare
	treasury.Balance += treasuryShare

	// Refresh every position's pending yield against the new cumulative
	// mark so readers see accrual without waiting for a claim.
	positions, err := l.store.InvestmentsBySkill(id)
	if err != nil {
		return nil, err
	}
	for _, inv := range positions {
		inv.PendingYield = yield.Owed(inv.Principal, pool.TotalInvested,
			breakdown.Investor-inv.AccrualMark, reward.Balance)
	}

	pool.Refresh(sk.Verified)

	err = l.store.Apply(&ChangeSet{
		Accounts:    []*reputation.Account{reward, treasury},
		Pools:       []*invest.Pool{pool},
		Breakdowns:  []*revenue.Breakdown{breakdown},
		Investments: positions,
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("revenue recorded", "skill", id, "amount", amount,
		"investorShare", investorShare, "treasuryShare", treasuryShare, "apy", pool.CurrentAPY)
	return breakdown.Clone(), nil
}

// ---------------------------------------------------------------------------
// Yield
// ---------------------------------------------------------------------------

// ClaimYield settles the caller's accrued yield for a skill. The claim is
// gated: fewer than thirty days since the last claim (or the investment's
// creation) fails with yield.ErrNoYieldToClaim, and a repeat call inside
// the same window fails the same way, so it can never double-pay.
func (l *Ledger) ClaimYield(investor identity.ID, id skill.ID) (*invest.Investment, uint64, error) {
	release := l.locks.acquire(skillLockKey(id), acctKey(investor))
	defer release()

	if _, err := l.store.Skill(id); err != nil {
		return nil, 0, err
	}
	inv, err := l.store.Investment(investor, id)
	if err != nil {
		return nil, 0, err
	}

	now := l.now()
	if err := yield.CheckEligible(inv.LastClaimAt, now); err != nil {
		return nil, 0, err
	}

	pool, err := l.store.Pool(id)
	if err != nil {
		return nil, 0, err
	}
	breakdown, err := l.store.Breakdown(id)
	if err != nil {
		return nil, 0, err
	}
	reward, err := l.store.Account(pool.RewardAccount)
	if err != nil {
		return nil, 0, err
	}
	account, err := l.store.Account(investor)
	if err != nil {
		return nil, 0, err
	}

	owed := yield.Owed(inv.Principal, pool.TotalInvested,
		breakdown.Investor-inv.AccrualMark, reward.Balance)
	if owed > 0 {
		if err := reputation.Transfer(reward, account, owed); err != nil {
			return nil, 0, err
		}
	}

	inv.TotalClaimed += owed
	inv.PendingYield = 0
	inv.AccrualMark = breakdown.Investor
	inv.LastClaimAt = now

	err = l.store.Apply(&ChangeSet{
		Accounts:    []*reputation.Account{reward, account},
		Investments: []*invest.Investment{inv},
	})
	if err != nil {
		return nil, 0, err
	}
	log.Debugw("yield claimed", "skill", id, "investor", investor.String(), "owed", owed)
	return inv.Clone(), owed, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Account returns a user's reputation account.
func (l *Ledger) Account(user identity.ID) (*reputation.Account, error) {
	return l.store.Account(user)
}

// TreasuryBalance returns the treasury's token balance.
func (l *Ledger) TreasuryBalance() (uint64, error) {
	g, err := l.store.Global()
	if err != nil {
		return 0, err
	}
	t, err := l.store.Account(g.Treasury)
	if err != nil {
		return 0, err
	}
	return t.Balance, nil
}

// Skill returns a skill record.
func (l *Ledger) Skill(id skill.ID) (*skill.Skill, error) {
	return l.store.Skill(id)
}

// Skills returns every registered skill in id order.
func (l *Ledger) Skills() ([]*skill.Skill, error) {
	return l.store.Skills()
}

// Pool returns a skill's investment pool.
func (l *Ledger) Pool(id skill.ID) (*invest.Pool, error) {
	return l.store.Pool(id)
}

// Breakdown returns a skill's revenue history.
func (l *Ledger) Breakdown(id skill.ID) (*revenue.Breakdown, error) {
	return l.store.Breakdown(id)
}

// Investment returns the caller's position in a skill.
func (l *Ledger) Investment(investor identity.ID, id skill.ID) (*invest.Investment, error) {
	return l.store.Investment(investor, id)
}

// Investments returns every position held by an investor.
func (l *Ledger) Investments(investor identity.ID) ([]*invest.Investment, error) {
	return l.store.InvestmentsByInvestor(investor)
}

// PendingYield computes the amount a claim would settle right now,
// ignoring the eligibility gate. Read-only.
func (l *Ledger) PendingYield(investor identity.ID, id skill.ID) (uint64, error) {
	inv, err := l.store.Investment(investor, id)
	if err != nil {
		return 0, err
	}
	pool, err := l.store.Pool(id)
	if err != nil {
		return 0, err
	}
	breakdown, err := l.store.Breakdown(id)
	if err != nil {
		return 0, err
	}
	reward, err := l.store.Account(pool.RewardAccount)
	if err != nil {
		return 0, err
	}
	return yield.Owed(inv.Principal, pool.TotalInvested,
		breakdown.Investor-inv.AccrualMark, reward.Balance), nil
}

// EstimateYield returns the advisory expected monthly yield for a
// prospective stake against a skill's pool, per the pricing model. It is
// never reconciled against settlement.
func (l *Ledger) EstimateYield(id skill.ID, stake uint64) (decimal.Decimal, error) {
	pool, err := l.store.Pool(id)
	if err != nil {
		return decimal.Zero, err
	}
	return revenue.EstimateMonthlyYield(stake, pool.TotalInvested, pool.InvestorCount), nil
}

// History returns the mint/slash audit events for a user.
func (l *Ledger) History(user identity.ID) ([]*reputation.Event, error) {
	return l.store.Events(user)
}

// loadOrNewAccount returns the stored account or a fresh one for id.
func (l *Ledger) loadOrNewAccount(id identity.ID) (*reputation.Account, error) {
	a, err := l.store.Account(id)
	if err == nil {
		return a, nil
	}
	if errors.Is(err, ErrAccountNotFound) {
		return reputation.NewAccount(id, l.now()), nil
	}
	return nil, err
}
