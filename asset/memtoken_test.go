// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
)

func TestMemToken(t *testing.T) {
	custody := dao.BytesToAddress([]byte("custody"))
	alice := dao.BytesToAddress([]byte("alice"))
	bob := dao.BytesToAddress([]byte("bob"))

	token := NewMemToken(custody)
	token.Mint(alice, big.NewInt(100))

	err := token.TransferIn(alice, big.NewInt(10))
	assert.True(t, reverts.Is(err, reverts.InsufficientAllowance))

	token.Approve(alice, custody, big.NewInt(500))
	err = token.TransferIn(alice, big.NewInt(200))
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	assert.NoError(t, token.TransferIn(alice, big.NewInt(60)))
	allowance, _ := token.Allowance(alice, custody)
	assert.Equal(t, big.NewInt(440), allowance)

	assert.NoError(t, token.TransferOut(bob, big.NewInt(25)))
	err = token.TransferOut(bob, big.NewInt(36))
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	for addr, want := range map[dao.Address]int64{alice: 40, bob: 25, custody: 35} {
		got, err := token.BalanceOf(addr)
		assert.NoError(t, err)
		assert.Equal(t, big.NewInt(want), got, addr.String())
	}
}
