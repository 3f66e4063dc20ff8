// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unstake

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
)

// Request is a pending or processed withdrawal.
type Request struct {
	Owner       dao.Address
	Purpose     dao.Purpose
	Index       uint64
	Amount      *big.Int
	Strategy    dao.Strategy
	RequestTime uint64
	UnlockTime  uint64

	Processed   bool
	ProcessedAt uint64
	Penalty     *big.Int
	FinalAmount *big.Int
}

// Ready reports whether the request may be processed at now.
func (r *Request) Ready(now uint64) bool {
	return now >= r.UnlockTime
}
