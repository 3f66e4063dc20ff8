// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

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

	apievents "github.com/dao-ledger/stakerep/api/events"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/eventdb"
	"github.com/dao-ledger/stakerep/events"
)

const limit = 5

var (
	alice = dao.BytesToAddress([]byte("alice"))
	bob   = dao.BytesToAddress([]byte("bob"))
)

var ts *httptest.Server

func initEventServer(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)

	var recs []*events.Record
	for seq := uint64(1); seq <= 8; seq++ {
		owner := alice
		if seq%2 == 0 {
			owner = bob
		}
		recs = append(recs, events.NewRecord(seq, 1000+seq, &events.Staked{
			Owner:    owner,
			Purpose:  dao.Governance,
			Amount:   big.NewInt(int64(seq)),
			Strategy: dao.Standard,
		}))
	}
	recs = append(recs, events.NewRecord(9, 1009, &events.RewardsDistributed{
		Purpose:     dao.Governance,
		Amount:      big.NewInt(50),
		Distributor: bob,
	}))
	require.NoError(t, db.Insert(recs))

	router := mux.NewRouter()
	apievents.New(db, limit).Mount(router, "/events")
	ts = httptest.NewServer(router)

	t.Cleanup(func() {
		ts.Close()
		db.Close()
	})
}

func filter(t *testing.T, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+"/events", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, out
}

func TestEvents(t *testing.T) {
	initEventServer(t)

	t.Run("byAccount", func(t *testing.T) {
		code, data := filter(t, &eventdb.Filter{Account: &alice})
		require.Equal(t, http.StatusOK, code, string(data))
		var recs []*events.Record
		require.NoError(t, json.Unmarshal(data, &recs))
		assert.Len(t, recs, 4)
		for _, r := range recs {
			assert.Equal(t, alice, r.Account)
			assert.IsType(t, &events.Staked{}, r.Event)
		}
	})

	t.Run("byNameDesc", func(t *testing.T) {
		code, data := filter(t, &eventdb.Filter{
			Names:   []string{"RewardsDistributed", "Staked"},
			Order:   eventdb.DESC,
			Range:   &eventdb.Range{Unit: eventdb.Seq, From: 7, To: 9},
			Options: &eventdb.Options{Limit: limit},
		})
		require.Equal(t, http.StatusOK, code, string(data))
		var recs []*events.Record
		require.NoError(t, json.Unmarshal(data, &recs))
		require.Len(t, recs, 3)
		assert.Equal(t, uint64(9), recs[0].Seq)
		assert.Equal(t, "RewardsDistributed", recs[0].Name)
	})

	t.Run("tooManyResults", func(t *testing.T) {
		code, _ := filter(t, &eventdb.Filter{})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("limitAboveMaximum", func(t *testing.T) {
		code, _ := filter(t, &eventdb.Filter{Options: &eventdb.Options{Limit: limit + 1}})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("invalidRange", func(t *testing.T) {
		code, _ := filter(t, &eventdb.Filter{Range: &eventdb.Range{From: 5, To: 2}})
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = filter(t, map[string]any{"order": "sideways"})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
