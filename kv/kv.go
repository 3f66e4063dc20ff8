// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter wraps methods for getting kvs.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch defines batch of putting ops, written atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Range is the key range [From, To) to iterate.
type Range struct {
	From []byte
	To   []byte
}

// Iterator to iterates kvs.
type Iterator interface {
	Next() bool
	Release()
	Error() error

	Key() []byte
	Value() []byte
}

// Store is a full featured kv store.
type Store interface {
	Getter
	Putter

	NewBatch() Batch
	NewIterator(r Range) Iterator
}

// StoreCloser with close method.
type StoreCloser interface {
	Store
	Close() error
}
