// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

var logger = log.New("pkg", "httpserver")

const shutdownTimeout = 5 * time.Second

// StartAPIServer serves handler on addr. The returned func first runs
// closeStreams, which ends the hijacked websocket streams, then shuts the
// server down.
func StartAPIServer(addr string, handler http.Handler, closeStreams func()) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes sync.WaitGroup
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("API server stopped", "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/", func() {
		if closeStreams != nil {
			closeStreams()
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("API server shutdown", "err", err)
			srv.Close()
		}
		goes.Wait()
	}, nil
}
