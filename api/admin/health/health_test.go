// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct{ seq, clock uint64 }

func (l *fakeLedger) Seq() uint64   { return l.seq }
func (l *fakeLedger) Clock() uint64 { return l.clock }

type fakeIndex uint64

func (i fakeIndex) LatestSeq(context.Context) (uint64, error) { return uint64(i), nil }

func getHealth(t *testing.T, api *API, query string) (int, *Status) {
	router := mux.NewRouter()
	api.Mount(router, "/admin/health")

	req, err := http.NewRequest(http.MethodGet, "/admin/health"+query, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var st Status
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&st))
	return rr.Code, &st
}

func TestHealth(t *testing.T) {
	ledger := &fakeLedger{seq: 150, clock: 42}

	code, st := getHealth(t, NewAPI(ledger, nil), "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, st.Healthy)
	assert.Nil(t, st.IndexedSeq)
	assert.Equal(t, uint64(42), st.Clock)

	code, st = getHealth(t, NewAPI(ledger, fakeIndex(100)), "")
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, st.IndexedSeq)
	assert.Equal(t, uint64(100), *st.IndexedSeq)

	code, st = getHealth(t, NewAPI(ledger, fakeIndex(100)), "?maxIndexLag=10")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, st.Healthy)
}
