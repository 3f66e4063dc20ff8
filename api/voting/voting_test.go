// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voting_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dao-ledger/stakerep/api/voting"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/test/testledger"
)

var (
	alice = dao.BytesToAddress([]byte("alice"))
	bob   = dao.BytesToAddress([]byte("bob"))
)

var ts *httptest.Server

func initVotingServer(t *testing.T) {
	chain, err := testledger.New()
	require.NoError(t, err)

	now := testledger.LaunchTime + 10
	chain.Fund(alice, 100)
	require.NoError(t, chain.Stake(alice, dao.Governance, dao.Tokens(100), dao.Standard, now))

	router := mux.NewRouter()
	voting.New(chain.Ledger, func() uint64 { return now }).Mount(router, "/voting")
	ts = httptest.NewServer(router)

	t.Cleanup(func() {
		ts.Close()
		chain.Close()
	})
}

func httpPost(t *testing.T, path string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, out
}

func getPower(t *testing.T, member dao.Address) *voting.Power {
	res, err := http.Get(ts.URL + "/voting/alpha/" + member.String() + "/power")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var p voting.Power
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	return &p
}

func TestDelegation(t *testing.T) {
	initVotingServer(t)

	code, data := httpPost(t, "/voting/delegate", map[string]any{
		"org":       "alpha",
		"caller":    alice,
		"delegator": alice,
		"delegatee": bob,
		"amount":    "40",
	})
	require.Equal(t, http.StatusOK, code, string(data))
	var d voting.Delegation
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, uint64(1), d.ID)
	assert.True(t, d.Active)

	p := getPower(t, alice)
	assert.Equal(t, 0, (*big.Int)(p.Own).Cmp(big.NewInt(100)))
	assert.Equal(t, 0, (*big.Int)(p.Effective).Cmp(big.NewInt(60)))
	p = getPower(t, bob)
	assert.Equal(t, 0, (*big.Int)(p.Effective).Cmp(big.NewInt(40)))

	res, err := http.Get(ts.URL + "/voting/alpha/" + alice.String() + "/delegations")
	require.NoError(t, err)
	var ds voting.Delegations
	require.NoError(t, json.NewDecoder(res.Body).Decode(&ds))
	res.Body.Close()
	assert.Len(t, ds.Outgoing, 1)
	assert.Empty(t, ds.Incoming)

	id := d.ID
	code, data = httpPost(t, "/voting/undelegate", map[string]any{
		"org":       "alpha",
		"caller":    bob,
		"delegator": bob,
		"id":        id,
	})
	assert.Equal(t, http.StatusForbidden, code, string(data))

	code, data = httpPost(t, "/voting/undelegate", map[string]any{
		"org":       "alpha",
		"caller":    alice,
		"delegator": alice,
		"delegatee": bob,
	})
	require.Equal(t, http.StatusOK, code, string(data))
	require.NoError(t, json.Unmarshal(data, &d))
	assert.False(t, d.Active)

	p = getPower(t, alice)
	assert.Equal(t, 0, (*big.Int)(p.Effective).Cmp(big.NewInt(100)))
}

func TestDelegationRejects(t *testing.T) {
	initVotingServer(t)

	code, _ := httpPost(t, "/voting/delegate", map[string]any{
		"caller":    bob,
		"org":       "alpha",
		"delegator": alice,
		"delegatee": bob,
		"amount":    "40",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, 0, (*big.Int)(getPower(t, bob).Effective).Sign())

	code, data := httpPost(t, "/voting/delegate", map[string]any{
		"org":       "alpha",
		"caller":    alice,
		"delegator": alice,
		"delegatee": alice,
		"amount":    "1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(data), "SelfDelegation")

	code, data = httpPost(t, "/voting/delegate", map[string]any{
		"org":       "alpha",
		"caller":    alice,
		"delegator": alice,
		"delegatee": bob,
		"amount":    "101",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(data), "InsufficientVotingPower")

	code, data = httpPost(t, "/voting/undelegate", map[string]any{
		"org":       "alpha",
		"caller":    alice,
		"delegator": alice,
		"delegatee": bob,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(data), "DelegationNotFound")
}

func TestVotingWeight(t *testing.T) {
	initVotingServer(t)

	res, err := http.Get(ts.URL + "/voting/alpha/" + bob.String() + "/weight?base=100")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var w voting.Weight
	require.NoError(t, json.NewDecoder(res.Body).Decode(&w))
	assert.Equal(t, 0, (*big.Int)(w.Weight).Cmp(big.NewInt(100)))

	res2, err := http.Get(ts.URL + "/voting/alpha/" + bob.String() + "/weight?base=-1")
	require.NoError(t, err)
	res2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res2.StatusCode)
}
