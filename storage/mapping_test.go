// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/lvldb"
	"github.com/dao-ledger/stakerep/state"
)

type record struct {
	Amount *big.Int
	Count  uint64
	Flag   bool
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db, 0)
	require.NoError(t, err)
	return NewContext(dao.BytesToAddress([]byte("ns")), st)
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[dao.Address, *record](ctx, dao.BytesToBytes32([]byte("records")))
	other := NewMapping[dao.Address, *record](ctx, dao.BytesToBytes32([]byte("others")))
	key := dao.BytesToAddress([]byte("alice"))

	got, err := m.Get(key)
	assert.NoError(t, err)
	assert.NotNil(t, got, "absent pointer values are allocated")
	assert.Nil(t, got.Amount)

	exists, err := m.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, m.Set(key, &record{Amount: big.NewInt(42), Count: 3, Flag: true}))

	got, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), got.Amount.Int64())
	assert.Equal(t, uint64(3), got.Count)
	assert.True(t, got.Flag)

	// same key in another mapping does not collide
	got, err = other.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), got.Count)

	m.Delete(key)
	exists, err = m.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestRaw(t *testing.T) {
	ctx := newContext(t)
	counter := NewRaw[uint64](ctx, dao.BytesToBytes32([]byte("counter")))

	v, err := counter.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	assert.NoError(t, counter.Set(7))
	v, err = counter.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	total := NewRaw[*big.Int](ctx, dao.BytesToBytes32([]byte("total")))
	n, err := total.Get()
	assert.NoError(t, err)
	assert.Equal(t, 0, n.Sign())
}
