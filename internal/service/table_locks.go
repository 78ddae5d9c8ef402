package service

import "sync"

// tableLocks serialises the read-modify-write cycle over a table's record
// document. Every record mutation rewrites the whole records array, so two
// concurrent writers against the same table would otherwise silently lose
// one write. Locks are keyed by table id and never released from the map;
// the population is bounded by the number of tables.
type tableLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTableLocks() *tableLocks {
	return &tableLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given table and returns its unlock func.
func (t *tableLocks) Lock(tableID string) func() {
	t.mu.Lock()
	lock, ok := t.locks[tableID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[tableID] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
