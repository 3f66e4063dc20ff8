// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset describes the fungible token the ledger takes custody of.
package asset

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
)

// Token is the transfer primitive consumed by the ledger.
// Every call is synchronous and all-or-nothing.
type Token interface {
	// Custody is the account holding staked principal and reward reserves.
	Custody() dao.Address
	Allowance(owner, spender dao.Address) (*big.Int, error)
	BalanceOf(addr dao.Address) (*big.Int, error)
	// TransferIn pulls amount from an owner into custody, spending allowance.
	TransferIn(from dao.Address, amount *big.Int) error
	// TransferOut pays amount from custody.
	TransferOut(to dao.Address, amount *big.Int) error
}
