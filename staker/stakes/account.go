// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/staker/reward"
)

// Key identifies a stake account.
type Key struct {
	Owner   dao.Address
	Purpose dao.Purpose
}

func (k Key) Bytes() []byte {
	return append(k.Owner.Bytes(), byte(k.Purpose))
}

// Account is the stake of one owner in one pool.
type Account struct {
	Owner       dao.Address
	Purpose     dao.Purpose
	Amount      *big.Int
	Strategy    dao.Strategy
	StakedAt    uint64
	LastClaimAt uint64

	Accrued       *big.Int // settled but unclaimed rewards
	IndexSnapshot *big.Int // pool reward index at last settlement
	TotalClaimed  *big.Int
}

func (a *Account) normalize(key Key) {
	a.Owner = key.Owner
	a.Purpose = key.Purpose
	for _, f := range []**big.Int{&a.Amount, &a.Accrued, &a.IndexSnapshot, &a.TotalClaimed} {
		if *f == nil {
			*f = new(big.Int)
		}
	}
}

// IsEmpty returns whether the account holds no principal.
func (a *Account) IsEmpty() bool {
	return a.Amount.Sign() == 0
}

// Settle moves rewards earned up to the pool index into Accrued.
func (a *Account) Settle(index *big.Int) {
	a.Accrued = new(big.Int).Add(a.Accrued, reward.Pending(a.Amount, index, a.IndexSnapshot))
	a.IndexSnapshot = new(big.Int).Set(index)
}

// PendingAt returns the rewards claimable at the given pool index, bonus excluded.
func (a *Account) PendingAt(index *big.Int) *big.Int {
	return new(big.Int).Add(a.Accrued, reward.Pending(a.Amount, index, a.IndexSnapshot))
}
