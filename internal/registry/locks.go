package registry

import (
	"sync"

	"github.com/google/uuid"
)

// keyLocks serialises store calls per command ID.
type keyLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

// lock blocks until id is free and returns the matching unlock.
func (k *keyLocks) lock(id uuid.UUID) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = map[uuid.UUID]*keyLock{}
	}
	l, ok := k.m[id]
	if !ok {
		l = &keyLock{}
		k.m[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.m, id)
		}
		k.mu.Unlock()
	}
}
