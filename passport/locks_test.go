package passport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockTable_Serializes(t *testing.T) {
	lt := newLockTable()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := lt.acquire("acct:a", "skill:1")
			defer release()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

// TestLockTable_NoDeadlockOnOpposingOrders acquires two overlapping key
// sets in opposite caller order from two goroutines. Sorted acquisition
// means this terminates.
func TestLockTable_NoDeadlockOnOpposingOrders(t *testing.T) {
	lt := newLockTable()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release := lt.acquire("acct:a", "acct:b")
			defer release()
		}()
		go func() {
			defer wg.Done()
			release := lt.acquire("acct:b", "acct:a")
			defer release()
		}()
	}
	wg.Wait()
}

func TestLockTable_DuplicateKeysCollapse(t *testing.T) {
	lt := newLockTable()
	// Would self-deadlock if duplicates were locked twice.
	release := lt.acquire("acct:a", "acct:a", "acct:a")
	release()
}
