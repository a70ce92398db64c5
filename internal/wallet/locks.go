package wallet

import "sync"

// UserLocks serializes balance mutations per user. Every service that
// mutates wallet rows must share one registry; two services with private
// registries can still interleave read-modify-write cycles on one row.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserLocks creates an empty lock registry.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *UserLocks) of(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}

// Lock acquires the lock for one user and returns the release function.
func (l *UserLocks) Lock(userID string) func() {
	lock := l.of(userID)
	lock.Lock()
	return lock.Unlock
}

// LockPair acquires the locks for two users, always in lexical id order so
// opposing callers cannot deadlock, and returns the release function.
func (l *UserLocks) LockPair(a, b string) func() {
	if a == b {
		return l.Lock(a)
	}
	if b < a {
		a, b = b, a
	}
	first, second := l.of(a), l.of(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
