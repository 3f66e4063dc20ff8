// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
)

// Record is the self-describing envelope of an emitted event.
type Record struct {
	Seq     uint64      `json:"seq"`
	Name    string      `json:"name"`
	Time    uint64      `json:"time"`
	Account dao.Address `json:"account"`
	Org     dao.OrgID   `json:"org"`
	Event   Event       `json:"payload"`
}

// NewRecord wraps ev, copying its topics into the envelope.
func NewRecord(seq, time uint64, ev Event) *Record {
	topics := ev.Topics()
	return &Record{
		Seq:     seq,
		Name:    ev.Name(),
		Time:    time,
		Account: topics.Account,
		Org:     topics.Org,
		Event:   ev,
	}
}

type rawRecord struct {
	Seq     uint64          `json:"seq"`
	Name    string          `json:"name"`
	Time    uint64          `json:"time"`
	Account dao.Address     `json:"account"`
	Org     dao.OrgID       `json:"org"`
	Payload json.RawMessage `json:"payload"`
}

// UnmarshalJSON restores the concrete payload type by the record name.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ev, err := DecodePayload(raw.Name, raw.Payload)
	if err != nil {
		return err
	}
	*r = Record{
		Seq:     raw.Seq,
		Name:    raw.Name,
		Time:    raw.Time,
		Account: raw.Account,
		Org:     raw.Org,
		Event:   ev,
	}
	return nil
}

// DecodePayload decodes a JSON payload of the named event.
func DecodePayload(name string, payload []byte) (Event, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown event %q", name)
	}
	ev := factory()
	if err := json.Unmarshal(payload, ev); err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return ev, nil
}
