package mutation

import (
	"errors"
	"sync"
)

// ErrBusy is returned when a row already has a mutation in flight.
var ErrBusy = errors.New("an action for this item is already in progress")

// BusySet tracks rows with an in-flight mutation. It only blocks the same row;
// other rows stay available.
type BusySet struct {
	mu   sync.Mutex
	rows map[string]struct{}
}

func NewBusySet() *BusySet {
	return &BusySet{rows: make(map[string]struct{})}
}

func rowID(scope, id string) string {
	return scope + ":" + id
}

func (b *BusySet) Acquire(scope, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := rowID(scope, id)
	if _, ok := b.rows[key]; ok {
		return ErrBusy
	}
	b.rows[key] = struct{}{}
	return nil
}

func (b *BusySet) Release(scope, id string) {
	b.mu.Lock()
	delete(b.rows, rowID(scope, id))
	b.mu.Unlock()
}

func (b *BusySet) IsBusy(scope, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.rows[rowID(scope, id)]
	return ok
}

// Busy lists the busy ids within scope, used to render disabled row controls.
func (b *BusySet) Busy(scope string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	prefix := scope + ":"
	var ids []string
	for key := range b.rows {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			ids = append(ids, key[len(prefix):])
		}
	}
	return ids
}
