package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookLocks_SerializesSameBook(t *testing.T) {
	t.Parallel()

	locks := newBookLocks()
	unlock := locks.lock(1)

	acquired := make(chan struct{})
	go func() {
		release := locks.lock(1)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on the same book acquired while held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestBookLocks_IndependentBooks(t *testing.T) {
	t.Parallel()

	locks := newBookLocks()
	unlockA := locks.lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another book blocked")
	}
}

func TestBookLocks_ReleasesEntries(t *testing.T) {
	t.Parallel()

	locks := newBookLocks()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			locks.lock(id % 5)()
		}(int64(i))
	}
	wg.Wait()

	assert.Zero(t, locks.len())
}
