// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds an in-memory ledger for integration tests.
package testledger

import (
	"github.com/dao-ledger/stakerep/asset"
	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/genesis"
	"github.com/dao-ledger/stakerep/ledger"
	"github.com/dao-ledger/stakerep/lvldb"
)

// LaunchTime is the genesis time of every test ledger.
const LaunchTime = uint64(1_700_000_000)

var (
	Custody  = dao.BytesToAddress([]byte("custody"))
	Treasury = dao.BytesToAddress([]byte("treasury"))
	Operator = dao.BytesToAddress([]byte("operator"))
)

// Chain bundles a ledger with its backing store and token.
type Chain struct {
	*ledger.Ledger
	Token   *asset.MemToken
	Genesis *genesis.Genesis

	db *lvldb.LevelDB
}

// Genesis returns a genesis granting every capability to Operator.
func Genesis() *genesis.Genesis {
	return &genesis.Genesis{
		LaunchTime:        LaunchTime,
		Custody:           Custody,
		Treasury:          Treasury,
		LargeContribution: 100,
		Authority: []genesis.Authority{{
			Holder:       Operator,
			Capabilities: authority.Capabilities,
		}},
	}
}

// New opens a ledger over an in-memory store.
func New() (*Chain, error) {
	gen := Genesis()
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	token := asset.NewMemToken(Custody)
	l, err := ledger.New(db, token, gen, ledger.Options{})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Chain{Ledger: l, Token: token, Genesis: gen, db: db}, nil
}

// Fund mints tokens to addr and approves custody to pull them.
func (c *Chain) Fund(addr dao.Address, tokens int64) {
	c.Token.Mint(addr, dao.Tokens(tokens))
	c.Token.Approve(addr, Custody, dao.Tokens(tokens))
}

// OperatorToken returns a capability token held by Operator.
func OperatorToken(c authority.Capability) authority.Token {
	return authority.Token{Holder: Operator, Capability: c}
}

// Close releases the ledger and its store.
func (c *Chain) Close() {
	c.Ledger.Close()
	c.db.Close()
}
