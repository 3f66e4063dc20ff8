// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward holds the time-proportional accrual math.
//
// Each pool keeps an index equal to the sum of rate*seconds over its lifetime.
// A stake remembers the index when it was last settled, so the reward owed since then is
//
//	amount * (index - snapshot) / (10000 * secondsPerYear)
//
// which equals amount * rate / 10000 * elapsed / secondsPerYear while the rate is constant
// and stays exact across rate changes.
package reward

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
)

var denominator = new(big.Int).Mul(
	big.NewInt(dao.BpsDenominator),
	new(big.Int).SetUint64(dao.SecondsPerYear),
)

// Advance returns index moved forward by elapsed seconds at rateBps.
func Advance(index *big.Int, rateBps uint64, elapsed uint64) *big.Int {
	step := new(big.Int).Mul(new(big.Int).SetUint64(rateBps), new(big.Int).SetUint64(elapsed))
	return step.Add(step, index)
}

// Pending returns the reward owed to amount between snapshot and index.
func Pending(amount, index, snapshot *big.Int) *big.Int {
	if amount.Sign() <= 0 || index.Cmp(snapshot) <= 0 {
		return new(big.Int)
	}
	delta := new(big.Int).Sub(index, snapshot)
	delta.Mul(delta, amount)
	return delta.Quo(delta, denominator)
}

// Simple is the closed form for a constant rate, amount*rate/10000*elapsed/secondsPerYear.
func Simple(amount *big.Int, rateBps uint64, elapsed uint64) *big.Int {
	return Pending(amount, Advance(new(big.Int), rateBps, elapsed), new(big.Int))
}

// Bonus returns amount*bonusBps/10000.
func Bonus(amount *big.Int, bonusBps uint64) *big.Int {
	b := new(big.Int).Mul(amount, new(big.Int).SetUint64(bonusBps))
	return b.Quo(b, big.NewInt(dao.BpsDenominator))
}
