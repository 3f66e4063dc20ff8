// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/lvldb"
	"github.com/dao-ledger/stakerep/state"
	"github.com/dao-ledger/stakerep/storage"
)

var defaultRates = map[dao.Purpose]uint64{
	dao.Governance:      500,
	dao.DAOCreation:     300,
	dao.TreasuryBond:    800,
	dao.LiquidityMining: 1000,
}

func newStaker(t *testing.T) *Staker {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st, err := state.New(db, 0)
	require.NoError(t, err)

	staker := New(storage.NewContext(dao.BytesToAddress([]byte("staker")), st))
	for _, purpose := range dao.Purposes {
		created, err := staker.CreatePool(purpose, defaultRates[purpose], 0)
		require.NoError(t, err)
		require.True(t, created)
	}
	return staker
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	staker *Staker

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(staker *Staker) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), staker: staker}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(owner dao.Address, purpose dao.Purpose, tokens int64, strategy dao.Strategy, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.Stake(owner, purpose, dao.Tokens(tokens), strategy, now); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", tokens, owner, err)
		}
		t.Logf("staked %d tokens for %s in %s", tokens, owner, purpose)
	})
}

func (st *TestSequence) RequestUnstake(owner dao.Address, purpose dao.Purpose, tokens int64, strategy dao.Strategy, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		req, err := st.staker.RequestUnstake(owner, purpose, dao.Tokens(tokens), strategy, now)
		if err != nil {
			t.Fatalf("failed to request unstake for %s: %v", owner, err)
		}
		t.Logf("requested unstake %d for %s, index %d", tokens, owner, req.Index)
	})
}

func (st *TestSequence) ProcessUnstake(owner dao.Address, purpose dao.Purpose, index uint64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		req, err := st.staker.ProcessUnstake(owner, purpose, index, now)
		if err != nil {
			t.Fatalf("failed to process request %d for %s: %v", index, owner, err)
		}
		t.Logf("processed request %d for %s, final %s", index, owner, req.FinalAmount)
	})
}

func (st *TestSequence) Slash(owner dao.Address, purpose dao.Purpose, tokens int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.staker.Slash(owner, purpose, dao.Tokens(tokens), dao.Address{}, "test", now); err != nil {
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

type PoolAssertions struct {
	staker  *Staker
	purpose dao.Purpose

	totalStaked  *big.Int
	stakersCount *uint64
	average      *big.Int
}

func AssertPool(staker *Staker, purpose dao.Purpose) *PoolAssertions {
	return &PoolAssertions{staker: staker, purpose: purpose}
}

func (pa *PoolAssertions) TotalStaked(tokens int64) *PoolAssertions {
	pa.totalStaked = dao.Tokens(tokens)
	return pa
}

func (pa *PoolAssertions) StakersCount(expected uint64) *PoolAssertions {
	pa.stakersCount = &expected
	return pa
}

func (pa *PoolAssertions) Average(expected *big.Int) *PoolAssertions {
	pa.average = expected
	return pa
}

func (pa *PoolAssertions) Assert(t *testing.T) {
	p, err := pa.staker.Pool(pa.purpose, 0)
	assert.NoError(t, err, "failed to get pool %s", pa.purpose)

	if pa.totalStaked != nil {
		assert.Equal(t, 0, pa.totalStaked.Cmp(p.TotalStaked), "pool %s total staked %s", pa.purpose, p.TotalStaked)
	}
	if pa.stakersCount != nil {
		assert.Equal(t, *pa.stakersCount, p.StakersCount, "pool %s stakers count mismatch", pa.purpose)
	}
	if pa.average != nil {
		assert.Equal(t, 0, pa.average.Cmp(p.AverageStakeAmount), "pool %s average %s", pa.purpose, p.AverageStakeAmount)
	}
}
