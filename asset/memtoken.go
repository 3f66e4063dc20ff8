// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"math/big"
	"sync"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
)

var _ Token = (*MemToken)(nil)

type allowanceKey struct {
	owner, spender dao.Address
}

// MemToken is an in-process token ledger, used in solo mode and tests.
type MemToken struct {
	mu         sync.Mutex
	custody    dao.Address
	balances   map[dao.Address]*big.Int
	allowances map[allowanceKey]*big.Int
}

func NewMemToken(custody dao.Address) *MemToken {
	return &MemToken{
		custody:    custody,
		balances:   make(map[dao.Address]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
	}
}

func (t *MemToken) Custody() dao.Address {
	return t.custody
}

// Mint credits amount to addr.
func (t *MemToken) Mint(addr dao.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.balances[addr] = new(big.Int).Add(t.balanceOf(addr), amount)
}

// Approve sets the amount spender may pull from owner.
func (t *MemToken) Approve(owner, spender dao.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.allowances[allowanceKey{owner, spender}] = new(big.Int).Set(amount)
}

func (t *MemToken) Allowance(owner, spender dao.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.allowance(owner, spender)), nil
}

func (t *MemToken) BalanceOf(addr dao.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.balanceOf(addr)), nil
}

func (t *MemToken) TransferIn(from dao.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := allowanceKey{from, t.custody}
	allowance := t.allowance(from, t.custody)
	if allowance.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientAllowance, "allowance %v below %v", allowance, amount)
	}
	if err := t.move(from, t.custody, amount); err != nil {
		return err
	}
	t.allowances[key] = new(big.Int).Sub(allowance, amount)
	return nil
}

func (t *MemToken) TransferOut(to dao.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.move(t.custody, to, amount)
}

func (t *MemToken) move(from, to dao.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative transfer")
	}
	balance := t.balanceOf(from)
	if balance.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "balance %v below %v", balance, amount)
	}
	t.balances[from] = new(big.Int).Sub(balance, amount)
	t.balances[to] = new(big.Int).Add(t.balanceOf(to), amount)
	return nil
}

func (t *MemToken) balanceOf(addr dao.Address) *big.Int {
	if b, ok := t.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func (t *MemToken) allowance(owner, spender dao.Address) *big.Int {
	if a, ok := t.allowances[allowanceKey{owner, spender}]; ok {
		return a
	}
	return new(big.Int)
}
