package repofake

import (
	"sync"

	"github.com/indiriim/go-notify-admin/session"
)

var _ session.Repo = (*FakeRepo)(nil)

// FakeRepo is an in-memory session.Repo for tests.
type FakeRepo struct {
	lock    sync.RWMutex
	entries map[string]string

	// FailSet, when non-nil, is returned by every Set call.
	FailSet error
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{entries: make(map[string]string)}
}

func (r *FakeRepo) Get(key string) (string, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.entries[key]
	return v, ok, nil
}

func (r *FakeRepo) Set(key, value string) error {
	if r.FailSet != nil {
		return r.FailSet
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.entries[key] = value
	return nil
}

func (r *FakeRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.entries, key)
	return nil
}

// Len reports how many entries are stored.
func (r *FakeRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.entries)
}
