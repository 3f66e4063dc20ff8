// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dao-ledger/stakerep/asset"
	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/genesis"
	"github.com/dao-ledger/stakerep/kv"
	"github.com/dao-ledger/stakerep/lvldb"
)

const launchTime = uint64(1_700_000_000)

var (
	custody  = dao.BytesToAddress([]byte("custody"))
	treasury = dao.BytesToAddress([]byte("treasury"))
	admin    = dao.BytesToAddress([]byte("admin"))
	alice    = dao.BytesToAddress([]byte("alice"))
	bob      = dao.BytesToAddress([]byte("bob"))
	carol    = dao.BytesToAddress([]byte("carol"))

	orgA = dao.OrgIDFromName("alpha")
)

func tokenOf(holder dao.Address, c authority.Capability) authority.Token {
	return authority.Token{Holder: holder, Capability: c}
}

func testGenesis(t *testing.T) *genesis.Genesis {
	gen := &genesis.Genesis{
		LaunchTime:        launchTime,
		Custody:           custody,
		Treasury:          treasury,
		LargeContribution: 100,
		Authority: []genesis.Authority{{
			Holder:       admin,
			Capabilities: authority.Capabilities,
		}},
	}
	require.NoError(t, gen.Validate())
	return gen
}

func newLedgerOn(t *testing.T, db kv.Store, token *asset.MemToken) *Ledger {
	l, err := New(db, token, testGenesis(t), Options{})
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func newLedger(t *testing.T) (*Ledger, *asset.MemToken) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	token := asset.NewMemToken(custody)
	return newLedgerOn(t, db, token), token
}

// fund mints tokens to addr and approves custody to pull all of them.
func fund(token *asset.MemToken, addr dao.Address, tokens int64) {
	token.Mint(addr, dao.Tokens(tokens))
	token.Approve(addr, custody, dao.Tokens(tokens))
}

func balanceOf(t *testing.T, token *asset.MemToken, addr dao.Address) *big.Int {
	b, err := token.BalanceOf(addr)
	require.NoError(t, err)
	return b
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	ledger *Ledger

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(ledger *Ledger) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), ledger: ledger}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(owner dao.Address, purpose dao.Purpose, tokens int64, strategy dao.Strategy, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.Stake(owner, purpose, dao.Tokens(tokens), strategy, now); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", tokens, owner, err)
		}
		t.Logf("staked %d tokens for %s in %s", tokens, owner, purpose)
	})
}

func (st *TestSequence) RequestUnstake(owner dao.Address, purpose dao.Purpose, tokens int64, strategy dao.Strategy, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		req, err := st.ledger.RequestUnstake(owner, purpose, dao.Tokens(tokens), strategy, now)
		if err != nil {
			t.Fatalf("failed to request unstake for %s: %v", owner, err)
		}
		t.Logf("requested unstake %d for %s, index %d", tokens, owner, req.Index)
	})
}

func (st *TestSequence) ProcessUnstake(owner dao.Address, purpose dao.Purpose, index uint64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		req, err := st.ledger.ProcessUnstake(owner, purpose, index, now)
		if err != nil {
			t.Fatalf("failed to process request %d for %s: %v", index, owner, err)
		}
		t.Logf("processed request %d for %s, final %s", index, owner, req.FinalAmount)
	})
}

func (st *TestSequence) Distribute(purpose dao.Purpose, tokens int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.DistributeRewards(tokenOf(admin, authority.RewardDistributor), purpose, dao.Tokens(tokens), now); err != nil {
			t.Fatalf("failed to distribute %d to %s: %v", tokens, purpose, err)
		}
		t.Logf("distributed %d tokens to %s", tokens, purpose)
	})
}

func (st *TestSequence) Slash(owner dao.Address, purpose dao.Purpose, tokens int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.ledger.Slash(tokenOf(admin, authority.Slasher), owner, purpose, dao.Tokens(tokens), "test", now); err != nil {
			t.Fatalf("failed to slash %s: %v", owner, err)
		}
		t.Logf("slashed %d tokens from %s", tokens, owner)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type BalanceAssertions struct {
	token    *asset.MemToken
	expected map[dao.Address]*big.Int
}

func AssertBalances(token *asset.MemToken) *BalanceAssertions {
	return &BalanceAssertions{token: token, expected: make(map[dao.Address]*big.Int)}
}

func (ba *BalanceAssertions) Of(addr dao.Address, amount *big.Int) *BalanceAssertions {
	ba.expected[addr] = amount
	return ba
}

func (ba *BalanceAssertions) Assert(t *testing.T) {
	for addr, want := range ba.expected {
		got := balanceOf(t, ba.token, addr)
		assert.Equal(t, 0, want.Cmp(got), "balance of %s: want %s, got %s", addr, want, got)
	}
}
