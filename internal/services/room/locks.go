package room

import (
	"sync"

	"github.com/sfines/sdd-process-example/internal/model"
)

// keyLocks hands out one mutex per room code. Entries are dropped once no
// goroutine holds or waits on them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[model.RoomCode]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[model.RoomCode]*keyLock)}
}

// Lock blocks until the lock for code is held and returns its release func
func (k *keyLocks) Lock(code model.RoomCode) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[code]
	if !ok {
		l = &keyLock{}
		k.locks[code] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			k.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(k.locks, code)
			}
			k.mu.Unlock()
		})
	}
}

// size is the number of codes with a live lock entry
func (k *keyLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
