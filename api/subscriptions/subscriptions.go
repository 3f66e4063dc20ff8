// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/api/utils"
	"github.com/dao-ledger/stakerep/events"
)

var logger = log.New("pkg", "subscriptions")

const (
	backfillPageSize = 256
	writeWait        = 10 * time.Second
)

// Source serves committed records.
type Source interface {
	Records(from uint64, limit int) ([]*events.Record, error)
	SubscribeRecords(ch chan<- *events.Record) event.Subscription
}

type Subscriptions struct {
	source   Source
	upgrader *websocket.Upgrader

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func New(source Source, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		source: source,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// enter registers a connection, failing once Close was called.
func (s *Subscriptions) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

type stream struct {
	conn   *websocket.Conn
	source Source
	next   uint64
	replay bool
}

func (st *stream) write(rec *events.Record) error {
	if err := st.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := st.conn.WriteJSON(rec); err != nil {
		return err
	}
	st.next = rec.Seq + 1
	return nil
}

// backfill writes the stored records from st.next up to, excluding, until. Zero until means all.
func (st *stream) backfill(until uint64) error {
	for until == 0 || st.next < until {
		limit := backfillPageSize
		if until != 0 && until-st.next < uint64(limit) {
			limit = int(until - st.next)
		}
		recs, err := st.source.Records(st.next, limit)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if err := st.write(rec); err != nil {
				return err
			}
		}
		if len(recs) < limit {
			return nil
		}
	}
	return nil
}

func (s *Subscriptions) handleSubscribeRecords(w http.ResponseWriter, req *http.Request) error {
	st := &stream{source: s.source}
	if pos := req.URL.Query().Get("pos"); pos != "" {
		from, err := strconv.ParseUint(pos, 10, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "pos"))
		}
		st.next = from
		if st.next == 0 {
			st.next = 1
		}
		st.replay = true
	}

	if !s.enter() {
		return utils.HTTPError(errors.New("server is shutting down"), http.StatusServiceUnavailable)
	}
	defer s.wg.Done()

	// subscribe before replaying so no record falls in between
	ch := make(chan *events.Record, backfillPageSize)
	sub := s.source.SubscribeRecords(ch)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has responded already
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()
	st.conn = conn

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if st.replay {
		if err := st.backfill(0); err != nil {
			logger.Debug("backfill aborted", "err", err)
			return nil
		}
	}

	for {
		select {
		case <-s.done:
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return nil
		case <-gone:
			return nil
		case err := <-sub.Err():
			if err != nil {
				logger.Debug("subscription ended", "err", err)
			}
			return nil
		case rec := <-ch:
			if st.replay {
				if rec.Seq < st.next {
					continue
				}
				if rec.Seq > st.next {
					if err := st.backfill(rec.Seq); err != nil {
						logger.Debug("backfill aborted", "err", err)
						return nil
					}
				}
			}
			if err := st.write(rec); err != nil {
				logger.Debug("write failed", "err", err)
				return nil
			}
			st.replay = true
		}
	}
}

// Close ends every open stream and waits for their handlers to return.
func (s *Subscriptions) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/records").
		Methods(http.MethodGet).
		Name("WS /subscriptions/records").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeRecords))
}
