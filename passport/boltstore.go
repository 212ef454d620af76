package passport

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/skillpassorg/libskillpass-go/identity"
	"github.com/skillpassorg/libskillpass-go/invest"
	"github.com/skillpassorg/libskillpass-go/reputation"
	"github.com/skillpassorg/libskillpass-go/revenue"
	"github.com/skillpassorg/libskillpass-go/skill"
)

var (
	bucketGlobal      = []byte("global")
	bucketAccounts    = []byte("accounts")
	bucketSkills      = []byte("skills")
	bucketPools       = []byte("pools")
	bucketInvestments = []byte("investments")
	bucketBreakdowns  = []byte("breakdowns")
	bucketEvents      = []byte("events")

	keyGlobal = []byte("state")
)

// BoltStore is the durable Store, backed by a single bbolt file. Apply
// writes a whole change set inside one bolt transaction, which is what
// makes the ledger's operations atomic across process crashes.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath. The parent
// directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("passport: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("passport: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{
			bucketGlobal, bucketAccounts, bucketSkills, bucketPools,
			bucketInvestments, bucketBreakdowns, bucketEvents,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("passport: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// skillIDKey encodes a skill id as an 8-byte big-endian key so bucket
// iteration yields id order.
func skillIDKey(id skill.ID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// investmentKey is the composite (investor, skill) key.
func investmentKey(investor identity.ID, id skill.ID) []byte {
	k := make([]byte, identity.Size+8)
	copy(k, investor[:])
	binary.BigEndian.PutUint64(k[identity.Size:], uint64(id))
	return k
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Global returns the bootstrap record.
func (s *BoltStore) Global() (*GlobalState, error) {
	var g GlobalState
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketGlobal).Get(keyGlobal)
		if data == nil {
			return ErrNotInitialized
		}
		if err := decodeGob(data, &g); err != nil {
			return fmt.Errorf("boltstore: decode global state: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Account returns the reputation account for id.
func (s *BoltStore) Account(id identity.ID) (*reputation.Account, error) {
	var a reputation.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get(id[:])
		if data == nil {
			return ErrAccountNotFound
		}
		if err := decodeGob(data, &a); err != nil {
			return fmt.Errorf("boltstore: decode account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Accounts returns every reputation account.
func (s *BoltStore) Accounts() ([]*reputation.Account, error) {
	var out []*reputation.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(_, data []byte) error {
			var a reputation.Account
			if err := decodeGob(data, &a); err != nil {
				return fmt.Errorf("boltstore: decode account: %w", err)
			}
			out = append(out, &a)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Skill returns a skill record.
func (s *BoltStore) Skill(id skill.ID) (*skill.Skill, error) {
	var sk skill.Skill
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSkills).Get(skillIDKey(id))
		if data == nil {
			return ErrSkillNotFound
		}
		if err := decodeGob(data, &sk); err != nil {
			return fmt.Errorf("boltstore: decode skill: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sk, nil
}

// Skills returns every skill record in id order.
func (s *BoltStore) Skills() ([]*skill.Skill, error) {
	var out []*skill.Skill
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSkills).ForEach(func(_, data []byte) error {
			var sk skill.Skill
			if err := decodeGob(data, &sk); err != nil {
				return fmt.Errorf("boltstore: decode skill: %w", err)
			}
			out = append(out, &sk)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Pool returns the investment pool for a skill.
func (s *BoltStore) Pool(id skill.ID) (*invest.Pool, error) {
	var p invest.Pool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPools).Get(skillIDKey(id))
		if data == nil {
			return ErrSkillNotFound
		}
		if err := decodeGob(data, &p); err != nil {
			return fmt.Errorf("boltstore: decode pool: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Investment returns one investor's position.
func (s *BoltStore) Investment(investor identity.ID, id skill.ID) (*invest.Investment, error) {
	var inv invest.Investment
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketInvestments).Get(investmentKey(investor, id))
		if data == nil {
			return ErrNoInvestmentFound
		}
		if err := decodeGob(data, &inv); err != nil {
			return fmt.Errorf("boltstore: decode investment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvestmentsBySkill returns every position in a skill's pool.
func (s *BoltStore) InvestmentsBySkill(id skill.ID) ([]*invest.Investment, error) {
	return s.scanInvestments(func(inv *invest.Investment) bool {
		return inv.SkillID == id
	})
}

// InvestmentsByInvestor returns every position held by an investor.
// Investor is the key prefix, so this is a range scan.
func (s *BoltStore) InvestmentsByInvestor(investor identity.ID) ([]*invest.Investment, error) {
	var out []*invest.Investment
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketInvestments).Cursor()
		prefix := investor[:]
		for k, data := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, data = c.Next() {
			var inv invest.Investment
			if err := decodeGob(data, &inv); err != nil {
				return fmt.Errorf("boltstore: decode investment: %w", err)
			}
			out = append(out, &inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) scanInvestments(keep func(*invest.Investment) bool) ([]*invest.Investment, error) {
	var out []*invest.Investment
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketInvestments).ForEach(func(_, data []byte) error {
			var inv invest.Investment
			if err := decodeGob(data, &inv); err != nil {
				return fmt.Errorf("boltstore: decode investment: %w", err)
			}
			if keep(&inv) {
				out = append(out, &inv)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Breakdown returns a skill's revenue history.
func (s *BoltStore) Breakdown(id skill.ID) (*revenue.Breakdown, error) {
	var b revenue.Breakdown
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBreakdowns).Get(skillIDKey(id))
		if data == nil {
			return ErrSkillNotFound
		}
		if err := decodeGob(data, &b); err != nil {
			return fmt.Errorf("boltstore: decode breakdown: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Events returns the audit history for a user, oldest first. Events are
// keyed by insertion sequence, so bucket order is already chronological.
func (s *BoltStore) Events(user identity.ID) ([]*reputation.Event, error) {
	var out []*reputation.Event
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).ForEach(func(_, data []byte) error {
			var e reputation.Event
			if err := decodeGob(data, &e); err != nil {
				return fmt.Errorf("boltstore: decode event: %w", err)
			}
			if e.User == user {
				out = append(out, &e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Apply writes every entity in the change set inside one bolt transaction.
func (s *BoltStore) Apply(cs *ChangeSet) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if cs.Global != nil {
			data, err := encodeGob(cs.Global)
			if err != nil {
				return fmt.Errorf("boltstore: encode global state: %w", err)
			}
			if err := tx.Bucket(bucketGlobal).Put(keyGlobal, data); err != nil {
				return fmt.Errorf("boltstore: put global state: %w", err)
			}
		}
		for _, a := range cs.Accounts {
			data, err := encodeGob(a)
			if err != nil {
				return fmt.Errorf("boltstore: encode account: %w", err)
			}
			if err := tx.Bucket(bucketAccounts).Put(a.Owner[:], data); err != nil {
				return fmt.Errorf("boltstore: put account: %w", err)
			}
		}
		for _, sk := range cs.Skills {
			data, err := encodeGob(sk)
			if err != nil {
				return fmt.Errorf("boltstore: encode skill: %w", err)
			}
			if err := tx.Bucket(bucketSkills).Put(skillIDKey(sk.ID), data); err != nil {
				return fmt.Errorf("boltstore: put skill: %w", err)
			}
		}
		for _, p := range cs.Pools {
			data, err := encodeGob(p)
			if err != nil {
				return fmt.Errorf("boltstore: encode pool: %w", err)
			}
			if err := tx.Bucket(bucketPools).Put(skillIDKey(p.SkillID), data); err != nil {
				return fmt.Errorf("boltstore: put pool: %w", err)
			}
		}
		for _, inv := range cs.Investments {
			data, err := encodeGob(inv)
			if err != nil {
				return fmt.Errorf("boltstore: encode investment: %w", err)
			}
			if err := tx.Bucket(bucketInvestments).Put(investmentKey(inv.Investor, inv.SkillID), data); err != nil {
				return fmt.Errorf("boltstore: put investment: %w", err)
			}
		}
		for _, b := range cs.Breakdowns {
			data, err := encodeGob(b)
			if err != nil {
				return fmt.Errorf("boltstore: encode breakdown: %w", err)
			}
			if err := tx.Bucket(bucketBreakdowns).Put(skillIDKey(b.SkillID), data); err != nil {
				return fmt.Errorf("boltstore: put breakdown: %w", err)
			}
		}
		for _, e := range cs.Events {
			eb := tx.Bucket(bucketEvents)
			seq, err := eb.NextSequence()
			if err != nil {
				return fmt.Errorf("boltstore: event sequence: %w", err)
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			data, err := encodeGob(e)
			if err != nil {
				return fmt.Errorf("boltstore: encode event: %w", err)
			}
			if err := eb.Put(key, data); err != nil {
				return fmt.Errorf("boltstore: put event: %w", err)
			}
		}
		return nil
	})
}
