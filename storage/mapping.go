// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a typed key/value view over a namespace slot range.
// Values are RLP encoded. Reading an absent key yields the zero value,
// allocated when V is a pointer type.
type Mapping[K Key, V any] struct {
	context *Context
	basePos dao.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos dao.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) dao.Bytes32 {
	return dao.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		return decode(raw, &value)
	})
	return
}

// Exists reports whether a value was ever stored under key and not deleted.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

// Raw is a single typed slot.
type Raw[V any] struct {
	context *Context
	pos     dao.Bytes32
}

func NewRaw[V any](context *Context, pos dao.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		return decode(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func decode[V any](raw []byte, value *V) error {
	if t := reflect.TypeOf(*value); t != nil && t.Kind() == reflect.Ptr {
		*value = reflect.New(t.Elem()).Interface().(V)
	}
	if len(raw) == 0 {
		return nil
	}
	return errors.Wrap(rlp.DecodeBytes(raw, value), "decode storage")
}
