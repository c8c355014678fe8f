package service

import (
	"sync"

	"github.com/punchamoorthee/messops/internal/domain"
)

type lockKey struct {
	rollNo string
	date   domain.Date
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// keyLock serialises read-modify-write cycles on a single (student, date)
// booking. Entries are dropped once no goroutine holds or waits on them.
type keyLock struct {
	mu      sync.Mutex
	entries map[lockKey]*lockEntry
}

func newKeyLock() *keyLock {
	return &keyLock{entries: make(map[lockKey]*lockEntry)}
}

// Lock blocks until the key is free and returns its unlock function.
func (k *keyLock) Lock(rollNo string, date domain.Date) func() {
	key := lockKey{rollNo: rollNo, date: date}

	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &lockEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
