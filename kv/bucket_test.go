// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dao-ledger/stakerep/kv"
	"github.com/dao-ledger/stakerep/lvldb"
)

func TestBucket(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	a := kv.Bucket("a").NewStore(db)
	b := kv.Bucket("b").NewStore(db)

	assert.NoError(t, a.Put([]byte("k1"), []byte("v1")))
	assert.NoError(t, a.Put([]byte("k2"), []byte("v2")))
	assert.NoError(t, b.Put([]byte("k1"), []byte("other")))

	v, err := a.Get([]byte("k1"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)

	v, err = db.Get([]byte("bk1"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("other"), v)

	_, err = a.Get([]byte("k3"))
	assert.True(t, a.IsNotFound(err))

	batch := b.NewBatch()
	assert.NoError(t, batch.Put([]byte("k2"), []byte("v2b")))
	assert.NoError(t, batch.Delete([]byte("k1")))
	assert.Equal(t, 2, batch.Len())
	assert.NoError(t, batch.Write())

	has, err := b.Has([]byte("k1"))
	assert.NoError(t, err)
	assert.False(t, has)

	var keys []string
	it := a.NewIterator(kv.Range{})
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	assert.NoError(t, it.Error())
	assert.Equal(t, []string{"k1", "k2"}, keys)
}
