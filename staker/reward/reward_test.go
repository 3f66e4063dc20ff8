// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dao-ledger/stakerep/dao"
)

func TestSimple(t *testing.T) {
	// 1000 tokens at 10% for a full year is 100 tokens
	assert.Equal(t, dao.Tokens(100), Simple(dao.Tokens(1000), 1000, dao.SecondsPerYear))
	// 5% for 30 days
	want := new(big.Int).Mul(dao.Tokens(1000), big.NewInt(500*30))
	want.Quo(want, big.NewInt(10000*365))
	assert.Equal(t, want, Simple(dao.Tokens(1000), 500, 30*dao.SecondsPerDay))

	assert.Equal(t, 0, Simple(dao.Tokens(1000), 0, dao.SecondsPerYear).Sign())
	assert.Equal(t, 0, Simple(new(big.Int), 1000, dao.SecondsPerYear).Sign())
}

func TestIndexAcrossRateChange(t *testing.T) {
	amount := dao.Tokens(365)
	index := new(big.Int)
	index = Advance(index, 1000, 10*dao.SecondsPerDay)
	index = Advance(index, 500, 20*dao.SecondsPerDay)

	got := Pending(amount, index, new(big.Int))
	want := new(big.Int).Add(
		Simple(amount, 1000, 10*dao.SecondsPerDay),
		Simple(amount, 500, 20*dao.SecondsPerDay),
	)
	assert.Equal(t, want, got)

	// snapshot at or beyond index owes nothing
	assert.Equal(t, 0, Pending(amount, index, index).Sign())
	assert.Equal(t, 0, Pending(amount, index, new(big.Int).Add(index, big.NewInt(1))).Sign())
}

func TestBonus(t *testing.T) {
	assert.Equal(t, big.NewInt(5), Bonus(big.NewInt(100), dao.PatientBonusBps))
	assert.Equal(t, 0, Bonus(big.NewInt(19), dao.PatientBonusBps).Sign())
}
