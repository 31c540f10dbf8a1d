package rules

import (
	"sync"

	"github.com/mcoot/banker/internal/model"
)

// keyedMutex hands out one mutex per player; entries are dropped when unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[model.PlayerID]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[model.PlayerID]*refLock)}
}

// Lock blocks until the player's lock is held and returns its release func
func (k *keyedMutex) Lock(id model.PlayerID) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &refLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

// size returns the number of live entries
func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
