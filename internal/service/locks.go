package service

import "sync"

// EntityLocks serializes write+publish per question id, so the order in
// which events reach the bus matches the order the mutations committed.
// Question and answer mutations share one registry: a status change and
// an answer insert on the same question never interleave between commit
// and publish. Different ids proceed concurrently.
type EntityLocks struct {
	mu    sync.Mutex
	locks map[int64]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

func NewEntityLocks() *EntityLocks {
	return &EntityLocks{locks: make(map[int64]*entityLock)}
}

// lock acquires the lock for id and returns its unlock func.
func (l *EntityLocks) lock(id int64) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &entityLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
