package app

import "sync"

// bookLocks serializes writers per book id. Entries are dropped once no
// goroutine holds or waits on them.
type bookLocks struct {
	mu    sync.Mutex
	locks map[int64]*bookLock
}

type bookLock struct {
	mu   sync.Mutex
	refs int
}

func newBookLocks() *bookLocks {
	return &bookLocks{locks: make(map[int64]*bookLock)}
}

func (b *bookLocks) lock(bookID int64) (unlock func()) {
	b.mu.Lock()
	l, ok := b.locks[bookID]
	if !ok {
		l = &bookLock{}
		b.locks[bookID] = l
	}
	l.refs++
	b.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		b.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(b.locks, bookID)
		}
		b.mu.Unlock()
	}
}

func (b *bookLocks) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.locks)
}
