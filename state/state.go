// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/dao-ledger/stakerep/cache"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/kv"
	"github.com/dao-ledger/stakerep/stackedmap"
)

var logger = log.New("pkg", "state")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// storageKey addresses one storage slot of a namespace.
type storageKey struct {
	addr dao.Address
	key  dao.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, dao.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State is the ledger state. Writes are journaled in memory and only reach
// the underlying store on Commit, so any revision can be reverted for free.
type State struct {
	db    kv.Store
	cache *cache.LRU // committed values
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object on top of the given store.
func New(db kv.Store, cacheSize int) (*State, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	lru, err := cache.NewLRU("state", cacheSize)
	if err != nil {
		return nil, &Error{err}
	}
	s := &State{db: db, cache: lru}
	s.sm = stackedmap.New(s.committedGetter)
	return s, nil
}

// committedGetter implements stackedmap.MapGetter.
func (s *State) committedGetter(key storageKey) ([]byte, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		raw, err := s.db.Get(key.bytes())
		if err != nil {
			if s.db.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, false, &Error{err}
	}
	raw := v.([]byte)
	return raw, len(raw) > 0, nil
}

// GetRawStorage returns the raw value stored at key in the addr namespace.
// Empty value means absent.
func (s *State) GetRawStorage(addr dao.Address, key dao.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SetRawStorage sets the raw value. Empty value deletes the slot.
func (s *State) SetRawStorage(addr dao.Address, key dao.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr dao.Address, key dao.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be passed through.
func (s *State) DecodeStorage(addr dao.Address, key dao.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 || revision > s.sm.Depth() {
		panic(fmt.Sprintf("invalid revision %d, depth %d", revision, s.sm.Depth()))
	}
	s.sm.PopTo(revision)
}

// Commit flushes every journaled write to the store in one batch and
// starts a fresh journal. On failure nothing is written and the journal is kept.
func (s *State) Commit() error {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v []byte) bool {
		changes[k] = v
		return true
	})
	if len(changes) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for k, v := range changes {
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.bytes())
		} else {
			err = batch.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	for k, v := range changes {
		s.cache.Add(k, v)
	}
	s.sm = stackedmap.New(s.committedGetter)
	logger.Trace("state committed", "slots", len(changes))
	return nil
}
