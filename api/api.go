// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/dao-ledger/stakerep/api/events"
	"github.com/dao-ledger/stakerep/api/reputation"
	"github.com/dao-ledger/stakerep/api/staking"
	"github.com/dao-ledger/stakerep/api/subscriptions"
	"github.com/dao-ledger/stakerep/api/utils"
	"github.com/dao-ledger/stakerep/api/voting"
	"github.com/dao-ledger/stakerep/eventdb"
	"github.com/dao-ledger/stakerep/ledger"
)

var logger = log.New("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
	// Clock stamps operations, the wall clock when nil.
	Clock utils.Clock
}

// New return api router. eventDB may be nil, which disables the events endpoint.
func New(
	l *ledger.Ledger,
	eventDB *eventdb.EventDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	clock := opts.Clock
	if clock == nil {
		clock = utils.SystemClock
	}

	router := mux.NewRouter()

	staking.New(l, clock).
		Mount(router, "/staking")
	reputation.New(l, clock).
		Mount(router, "/reputation")
	voting.New(l, clock).
		Mount(router, "/voting")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(l, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
