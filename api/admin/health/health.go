// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dao-ledger/stakerep/api/utils"
)

const defaultMaxIndexLag = 100

// Ledger reports the progress of the ledger.
type Ledger interface {
	Seq() uint64
	Clock() uint64
}

// Index reports the progress of the event store.
type Index interface {
	LatestSeq(ctx context.Context) (uint64, error)
}

type Status struct {
	Healthy    bool    `json:"healthy"`
	Seq        uint64  `json:"seq"`
	Clock      uint64  `json:"clock"`
	IndexedSeq *uint64 `json:"indexedSeq"`
}

type API struct {
	ledger Ledger
	index  Index
}

// NewAPI creates the health API. index may be nil when records are not indexed.
func NewAPI(ledger Ledger, index Index) *API {
	return &API{
		ledger: ledger,
		index:  index,
	}
}

// Status reports unhealthy when the index trails the ledger by more than maxLag records.
func (h *API) Status(ctx context.Context, maxLag uint64) (*Status, error) {
	st := &Status{
		Healthy: true,
		Seq:     h.ledger.Seq(),
		Clock:   h.ledger.Clock(),
	}
	if h.index != nil {
		indexed, err := h.index.LatestSeq(ctx)
		if err != nil {
			return nil, err
		}
		st.IndexedSeq = &indexed
		st.Healthy = indexed+maxLag >= st.Seq
	}
	return st, nil
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxLag := uint64(defaultMaxIndexLag)
	if q := r.URL.Query().Get("maxIndexLag"); q != "" {
		if parsed, err := strconv.ParseUint(q, 10, 64); err == nil {
			maxLag = parsed
		}
	}

	st, err := h.Status(r.Context(), maxLag)
	if err != nil {
		return err
	}
	if !st.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, st)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
