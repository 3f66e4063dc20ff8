// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dao-ledger/stakerep/api/staking"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/test/testledger"
)

var (
	alice = dao.BytesToAddress([]byte("alice"))
	bob   = dao.BytesToAddress([]byte("bob"))
)

type server struct {
	*httptest.Server
	chain *testledger.Chain
	now   atomic.Uint64
}

func initStakingServer(t *testing.T) *server {
	chain, err := testledger.New()
	require.NoError(t, err)

	s := &server{chain: chain}
	s.now.Store(testledger.LaunchTime + 10)

	router := mux.NewRouter()
	staking.New(chain.Ledger, s.now.Load).Mount(router, "/staking")
	s.Server = httptest.NewServer(router)

	t.Cleanup(func() {
		s.Close()
		chain.Close()
	})
	return s
}

func (s *server) do(t *testing.T, method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func revertKind(t *testing.T, data []byte) string {
	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	return body["kind"]
}

func TestStaking(t *testing.T) {
	s := initStakingServer(t)
	s.chain.Fund(alice, 1000)

	for _, tt := range []struct {
		name string
		fn   func(*testing.T, *server)
	}{
		{"stakeAndUnstake", testStakeAndUnstake},
		{"stakeTooSmall", testStakeTooSmall},
		{"unauthorized", testUnauthorized},
		{"actForOtherOwner", testActForOtherOwner},
		{"pools", testPools},
		{"badRequests", testBadRequests},
		{"distributeAndClaim", testDistributeAndClaim},
	} {
		t.Run(tt.name, func(t *testing.T) { tt.fn(t, s) })
	}
}

func testStakeAndUnstake(t *testing.T, s *server) {
	code, data := s.do(t, http.MethodPost, "/staking/stake", map[string]any{
		"caller":   alice,
		"owner":    alice,
		"purpose":  "treasury_bond",
		"amount":   dao.Tokens(500).String(),
		"strategy": "standard",
	})
	require.Equal(t, http.StatusOK, code, string(data))

	var acc staking.Account
	require.NoError(t, json.Unmarshal(data, &acc))
	assert.Equal(t, alice, acc.Owner)
	assert.Equal(t, dao.TreasuryBond, acc.Purpose)
	assert.Equal(t, 0, (*big.Int)(acc.Amount).Cmp(dao.Tokens(500)))
	assert.False(t, acc.Slashed)

	code, data = s.do(t, http.MethodPost, "/staking/unstake/request", map[string]any{
		"caller":   alice,
		"owner":    alice,
		"purpose":  "treasury_bond",
		"amount":   dao.Tokens(100).String(),
		"strategy": "rage_quit",
	})
	require.Equal(t, http.StatusOK, code, string(data))
	var req staking.UnstakeRequest
	require.NoError(t, json.Unmarshal(data, &req))
	assert.False(t, req.Processed)

	code, data = s.do(t, http.MethodPost, "/staking/unstake/process", map[string]any{
		"caller":  alice,
		"owner":   alice,
		"purpose": "treasury_bond",
		"index":   req.Index,
	})
	require.Equal(t, http.StatusOK, code, string(data))
	require.NoError(t, json.Unmarshal(data, &req))
	assert.True(t, req.Processed)
	assert.Equal(t, 0, (*big.Int)(req.FinalAmount).Cmp(dao.Tokens(80)))
	assert.Equal(t, 0, (*big.Int)(req.Penalty).Cmp(dao.Tokens(20)))

	code, data = s.do(t, http.MethodPost, "/staking/unstake/process", map[string]any{
		"caller":  alice,
		"owner":   alice,
		"purpose": "treasury_bond",
		"index":   req.Index,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "RequestAlreadyProcessed", revertKind(t, data))

	code, data = s.do(t, http.MethodGet, "/staking/accounts/"+alice.String()+"/requests?purpose=treasury_bond", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	var reqs []*staking.UnstakeRequest
	require.NoError(t, json.Unmarshal(data, &reqs))
	assert.Len(t, reqs, 1)

	code, data = s.do(t, http.MethodGet, "/staking/accounts/"+alice.String()+"/treasury_bond", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	require.NoError(t, json.Unmarshal(data, &acc))
	assert.Equal(t, 0, (*big.Int)(acc.Amount).Cmp(dao.Tokens(400)))
}

func testStakeTooSmall(t *testing.T, s *server) {
	code, data := s.do(t, http.MethodPost, "/staking/stake", map[string]any{
		"caller":   alice,
		"owner":    alice,
		"purpose":  "governance",
		"amount":   "1",
		"strategy": "standard",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "AmountTooSmall", revertKind(t, data))
}

func testUnauthorized(t *testing.T, s *server) {
	code, data := s.do(t, http.MethodPost, "/staking/slash", map[string]any{
		"caller":  bob,
		"owner":   alice,
		"purpose": "treasury_bond",
		"amount":  dao.Tokens(1).String(),
		"reason":  "spam",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Unauthorized", revertKind(t, data))

	code, data = s.do(t, http.MethodPut, "/staking/pools/governance", map[string]any{
		"caller":        testledger.Operator,
		"rewardRateBps": 5000,
		"active":        true,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "RateTooHigh", revertKind(t, data))
}

func testActForOtherOwner(t *testing.T, s *server) {
	for path, body := range map[string]map[string]any{
		"/staking/stake": {
			"owner":    alice,
			"purpose":  "governance",
			"amount":   dao.Tokens(10).String(),
			"strategy": "standard",
		},
		"/staking/unstake/request": {
			"owner":    alice,
			"purpose":  "treasury_bond",
			"amount":   dao.Tokens(10).String(),
			"strategy": "rage_quit",
		},
		"/staking/unstake/process": {
			"owner":   alice,
			"purpose": "treasury_bond",
			"index":   0,
		},
		"/staking/claim": {
			"owner":   alice,
			"purpose": "treasury_bond",
		},
	} {
		body["caller"] = bob
		code, _ := s.do(t, http.MethodPost, path, body)
		assert.Equal(t, http.StatusForbidden, code, path)

		delete(body, "caller")
		code, _ = s.do(t, http.MethodPost, path, body)
		assert.Equal(t, http.StatusForbidden, code, path)
	}

	// nothing was moved on alice's behalf
	code, data := s.do(t, http.MethodGet, "/staking/pools/governance", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	var p staking.Pool
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, uint64(0), p.StakersCount)
}

func testPools(t *testing.T, s *server) {
	code, data := s.do(t, http.MethodGet, "/staking/pools", nil)
	require.Equal(t, http.StatusOK, code, string(data))
	var pools []*staking.Pool
	require.NoError(t, json.Unmarshal(data, &pools))
	assert.Len(t, pools, len(dao.Purposes))

	code, data = s.do(t, http.MethodPut, "/staking/pools/liquidity_mining", map[string]any{
		"caller":        testledger.Operator,
		"rewardRateBps": 900,
		"active":        true,
	})
	require.Equal(t, http.StatusOK, code, string(data))
	var p staking.Pool
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, dao.LiquidityMining, p.Purpose)
	assert.Equal(t, uint64(900), p.RewardRateBps)
}

func testBadRequests(t *testing.T, s *server) {
	code, _ := s.do(t, http.MethodGet, "/staking/pools/unknown", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/staking/accounts/0x12/governance", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/staking/stake", map[string]any{
		"caller":  alice,
		"owner":   alice,
		"purpose": "governance",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/staking/claim", map[string]any{
		"caller":  alice,
		"owner":   alice,
		"purpose": "governance",
		"extra":   1,
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func testDistributeAndClaim(t *testing.T, s *server) {
	s.chain.Fund(testledger.Operator, 100)

	code, data := s.do(t, http.MethodPost, "/staking/distribute", map[string]any{
		"caller":  testledger.Operator,
		"purpose": "treasury_bond",
		"amount":  dao.Tokens(100).String(),
	})
	require.Equal(t, http.StatusOK, code, string(data))
	var p staking.Pool
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, 0, (*big.Int)(p.TotalRewardsDistributed).Cmp(dao.Tokens(100)))

	s.now.Add(dao.SecondsPerYear)

	code, data = s.do(t, http.MethodPost, "/staking/claim", map[string]any{
		"caller":  alice,
		"owner":   alice,
		"purpose": "treasury_bond",
	})
	require.Equal(t, http.StatusOK, code, string(data))
	var claim staking.Claim
	require.NoError(t, json.Unmarshal(data, &claim))
	assert.Positive(t, (*big.Int)(claim.Amount).Sign())
}
