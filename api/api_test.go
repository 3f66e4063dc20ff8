// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dao-ledger/stakerep/eventdb"
	"github.com/dao-ledger/stakerep/metrics"
	"github.com/dao-ledger/stakerep/test/testledger"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func initAPIServer(t *testing.T, opts Options) *httptest.Server {
	chain, err := testledger.New()
	require.NoError(t, err)
	db, err := eventdb.NewMem()
	require.NoError(t, err)

	handler, closeSubs := New(chain.Ledger, db, opts)
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		db.Close()
		chain.Close()
	})
	return ts
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func TestMetricsMiddleware(t *testing.T) {
	ts := initAPIServer(t, Options{EnableMetrics: true, EventsLimit: 10, AllowedOrigins: "*"})

	res, _ := httpGet(t, ts.URL+"/staking/pools")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = httpGet(t, ts.URL+"/staking/pools/unknown")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res, _ = httpGet(t, ts.URL+"/no/such/route")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	metricsServer := httptest.NewServer(metrics.HTTPHandler())
	defer metricsServer.Close()
	_, data := httpGet(t, metricsServer.URL)
	body := string(data)

	assert.Contains(t, body, `stakerep_api_request_count{code="200",method="GET",name="GET /staking/pools"} 1`)
	assert.Contains(t, body, `stakerep_api_request_count{code="400",method="GET",name="GET /staking/pools/{purpose}"} 1`)
	assert.Contains(t, body, `stakerep_api_duration_ms_count{code="200",method="GET",name="GET /staking/pools"} 1`)
	assert.NotContains(t, body, "/no/such/route")
}

func TestRoutesMounted(t *testing.T) {
	ts := initAPIServer(t, Options{EventsLimit: 10})

	for _, path := range []string{
		"/staking/pools",
		"/reputation/alpha/" + testledger.Operator.String(),
		"/voting/alpha/" + testledger.Operator.String() + "/power",
	} {
		res, data := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, res.StatusCode, "%s: %s", path, data)
	}

	res, err := http.Post(ts.URL+"/events", "application/json", bytes.NewBufferString(`{"options":{"limit":5}}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(log.NewTerminalHandler(&buf, false))

	var seenBody []byte
	handler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}), logger)

	request := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString("test body"))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusAccepted, recorder.Code)
	assert.Equal(t, "test body", string(seenBody))
	id := recorder.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "API Request")
	assert.Contains(t, buf.String(), id)

	// a well formed id supplied by the client is kept
	given := uuid.NewString()
	request = httptest.NewRequest(http.MethodGet, "/test", nil)
	request.Header.Set(RequestIDHeader, given)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, given, recorder.Header().Get(RequestIDHeader))
}
