// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reputation keeps organization scoped reputation, experience and trust.
//
// Reputation saturates within [0, MaxReputation] and experience saturates at the
// uint64 ceiling. History records the delta actually applied after saturation.
package reputation

import (
	"encoding/binary"
	"math"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
	"github.com/dao-ledger/stakerep/storage"
)

var logger = log.New("pkg", "reputation")

type memberKey struct {
	org    dao.OrgID
	member dao.Address
}

func (k memberKey) Bytes() []byte {
	return append(k.org.Bytes(), k.member.Bytes()...)
}

type entryKey struct {
	memberKey
	index uint64
}

func (k entryKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.memberKey.Bytes(), k.index)
}

var (
	slotRecords = dao.Blake2b([]byte("reputation-records"))
	slotHistory = dao.Blake2b([]byte("reputation-history"))
)

// Ledger is the reputation ledger.
type Ledger struct {
	records *storage.Mapping[memberKey, *Record]
	history *storage.Mapping[entryKey, *Entry]
}

func New(sctx *storage.Context) *Ledger {
	return &Ledger{
		records: storage.NewMapping[memberKey, *Record](sctx, slotRecords),
		history: storage.NewMapping[entryKey, *Entry](sctx, slotHistory),
	}
}

// Get returns the record of member in org, the baseline record if none exists yet.
func (l *Ledger) Get(org dao.OrgID, member dao.Address) (*Record, error) {
	rec, err := l.records.Get(memberKey{org, member})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reputation record")
	}
	if !rec.Exists {
		return newRecord(org, member), nil
	}
	return rec, nil
}

// History returns every entry of member in org, oldest first.
func (l *Ledger) History(org dao.OrgID, member dao.Address) ([]*Entry, error) {
	rec, err := l.Get(org, member)
	if err != nil {
		return nil, err
	}
	key := memberKey{org, member}
	entries := make([]*Entry, 0, rec.HistoryLength)
	for i := uint64(0); i < rec.HistoryLength; i++ {
		e, err := l.history.Get(entryKey{key, i})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get reputation entry")
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Update applies a signed delta to the reputation counter, or a non-negative one to experience.
// It returns the delta actually applied.
func (l *Ledger) Update(org dao.OrgID, member dao.Address, kind Kind, delta int64, reason string, now uint64) (int64, *Record, error) {
	logger.Debug("update reputation", "org", org, "member", member, "kind", kind, "delta", delta, "reason", reason)

	switch kind {
	case KindReputation:
		rec, err := l.Get(org, member)
		if err != nil {
			return 0, nil, err
		}
		before := rec.Reputation
		rec.Reputation = applyReputation(before, delta)
		applied := int64(rec.Reputation) - int64(before)
		if applied < 0 {
			return applied, rec, l.save(rec, kind, uint64(-applied), true, reason, now)
		}
		return applied, rec, l.save(rec, kind, uint64(applied), false, reason, now)
	case KindExperience:
		if delta < 0 {
			return 0, nil, reverts.Newf(reverts.InvalidAmount, "experience cannot decrease by %d", delta)
		}
		applied, rec, err := l.AwardExperience(org, member, uint64(delta), reason, now)
		if err != nil {
			return 0, nil, err
		}
		return int64(applied), rec, nil
	default:
		return 0, nil, reverts.Newf(reverts.InvalidAmount, "%v cannot be updated directly", kind)
	}
}

// AwardExperience adds amount to experience and returns the amount applied.
func (l *Ledger) AwardExperience(org dao.OrgID, member dao.Address, amount uint64, reason string, now uint64) (uint64, *Record, error) {
	rec, err := l.Get(org, member)
	if err != nil {
		return 0, nil, err
	}
	applied := amount
	if rec.Experience > math.MaxUint64-amount {
		applied = math.MaxUint64 - rec.Experience
	}
	rec.Experience += applied
	return applied, rec, l.save(rec, KindExperience, applied, false, reason, now)
}

// RecordInteraction counts an interaction and refreshes the trust score.
func (l *Ledger) RecordInteraction(org dao.OrgID, member dao.Address, positive bool, reason string, now uint64) (*Record, error) {
	rec, err := l.Get(org, member)
	if err != nil {
		return nil, err
	}
	if rec.TotalInteractions == math.MaxUint64 {
		return nil, reverts.New(reverts.InvalidAmount, "interaction counter exhausted")
	}
	rec.TotalInteractions++
	var delta uint64
	if positive {
		rec.PositiveInteractions++
		delta = 1
	}
	rec.TrustScore = TrustScore(rec.PositiveInteractions, rec.TotalInteractions)
	return rec, l.save(rec, KindInteraction, delta, false, reason, now)
}

func (l *Ledger) save(rec *Record, kind Kind, magnitude uint64, negative bool, reason string, now uint64) error {
	key := memberKey{rec.Org, rec.Member}
	entry := &Entry{
		Org:        rec.Org,
		Member:     rec.Member,
		Index:      rec.HistoryLength,
		Kind:       kind,
		Magnitude:  magnitude,
		Negative:   negative,
		ReasonCode: reason,
		Timestamp:  now,
	}
	if err := l.history.Set(entryKey{key, entry.Index}, entry); err != nil {
		return errors.Wrap(err, "failed to append reputation entry")
	}
	rec.Exists = true
	rec.HistoryLength++
	return l.records.Set(key, rec)
}

func applyReputation(current uint64, delta int64) uint64 {
	if delta < 0 {
		dec := uint64(-(delta + 1)) + 1 // safe for MinInt64
		if dec >= current {
			return 0
		}
		return current - dec
	}
	inc := uint64(delta)
	if inc >= dao.MaxReputation-current {
		return dao.MaxReputation
	}
	return current + inc
}
