package passport

import (
	"sort"
	"sync"
)

// lockTable serializes operations on ledger units. Every mutating
// operation names the units it will touch (accounts, skills, the global
// record) and acquires them in sorted order before reading any of them,
// so two operations on the same pool can never interleave their read and
// write phases and cross-unit acquisition cannot deadlock.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) get(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.locks[key]
	if !ok {
		m = &sync.Mutex{}
		t.locks[key] = m
	}
	return m
}

// acquire locks the named units in sorted order and returns a release
// function that unlocks them in reverse. Duplicate keys are collapsed.
func (t *lockTable) acquire(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	held := make([]*sync.Mutex, len(uniq))
	for i, k := range uniq {
		m := t.get(k)
		m.Lock()
		held[i] = m
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
