// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reputation

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reputation"
)

// UpdateRequest applies a signed delta to reputation or experience.
type UpdateRequest struct {
	Caller dao.Address     `json:"caller"`
	Org    string          `json:"org"`
	Member dao.Address     `json:"member"`
	Kind   reputation.Kind `json:"kind"`
	Delta  int64           `json:"delta"`
	Reason string          `json:"reason"`
}

type ExperienceRequest struct {
	Caller dao.Address `json:"caller"`
	Org    string      `json:"org"`
	Member dao.Address `json:"member"`
	Amount uint64      `json:"amount"`
	Reason string      `json:"reason"`
}

type InteractionRequest struct {
	Caller   dao.Address `json:"caller"`
	Org      string      `json:"org"`
	Member   dao.Address `json:"member"`
	Positive bool        `json:"positive"`
	Reason   string      `json:"reason"`
}

// TriggerRequest applies one of the predefined changes: creation, contribution or completion.
// Amount is only read for contributions.
type TriggerRequest struct {
	Caller  dao.Address           `json:"caller"`
	Org     string                `json:"org"`
	Member  dao.Address           `json:"member"`
	Trigger string                `json:"trigger"`
	Amount  *math.HexOrDecimal256 `json:"amount,omitempty"`
}

type Record struct {
	Org                  dao.OrgID   `json:"org"`
	Member               dao.Address `json:"member"`
	Exists               bool        `json:"exists"`
	Reputation           uint64      `json:"reputation"`
	Experience           uint64      `json:"experience"`
	TrustScore           uint64      `json:"trustScore"`
	PositiveInteractions uint64      `json:"positiveInteractions"`
	TotalInteractions    uint64      `json:"totalInteractions"`
	HistoryLength        uint64      `json:"historyLength"`
}

func convertRecord(r *reputation.Record) *Record {
	return &Record{
		Org:                  r.Org,
		Member:               r.Member,
		Exists:               r.Exists,
		Reputation:           r.Reputation,
		Experience:           r.Experience,
		TrustScore:           r.TrustScore,
		PositiveInteractions: r.PositiveInteractions,
		TotalInteractions:    r.TotalInteractions,
		HistoryLength:        r.HistoryLength,
	}
}

type Entry struct {
	Index      uint64          `json:"index"`
	Kind       reputation.Kind `json:"kind"`
	Delta      int64           `json:"delta"`
	ReasonCode string          `json:"reasonCode"`
	Timestamp  uint64          `json:"timestamp"`
}

func convertEntry(e *reputation.Entry) *Entry {
	return &Entry{
		Index:      e.Index,
		Kind:       e.Kind,
		Delta:      e.Delta(),
		ReasonCode: e.ReasonCode,
		Timestamp:  e.Timestamp,
	}
}
