// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math"
	"math/big"

	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/reputation"
)

// UpdateReputation applies delta to the reputation or experience of member in org.
// Requires ReputationManager.
func (l *Ledger) UpdateReputation(tok authority.Token, org dao.OrgID, member dao.Address, kind reputation.Kind, delta int64, reason string, now uint64) (rec *reputation.Record, err error) {
	err = l.exec("update_reputation", now, func(tx *txn) error {
		if err := l.authority.Check(tok, authority.ReputationManager); err != nil {
			return err
		}
		var applied int64
		if applied, rec, err = l.reputation.Update(org, member, kind, delta, reason, tx.now); err != nil {
			return err
		}
		tx.emit(&events.ReputationChanged{
			Org:        org,
			Member:     member,
			Kind:       kind.String(),
			Delta:      applied,
			ReasonCode: reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// AwardExperience adds amount to the experience of member in org. Requires ReputationManager.
func (l *Ledger) AwardExperience(tok authority.Token, org dao.OrgID, member dao.Address, amount uint64, reason string, now uint64) (rec *reputation.Record, err error) {
	err = l.exec("award_experience", now, func(tx *txn) error {
		if err := l.authority.Check(tok, authority.ReputationManager); err != nil {
			return err
		}
		var applied uint64
		if applied, rec, err = l.reputation.AwardExperience(org, member, amount, reason, tx.now); err != nil {
			return err
		}
		delta := int64(math.MaxInt64)
		if applied < math.MaxInt64 {
			delta = int64(applied)
		}
		tx.emit(&events.ReputationChanged{
			Org:        org,
			Member:     member,
			Kind:       reputation.KindExperience.String(),
			Delta:      delta,
			ReasonCode: reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordInteraction counts an interaction of member in org. The emitted delta is the
// change of the trust score. Requires ReputationManager.
func (l *Ledger) RecordInteraction(tok authority.Token, org dao.OrgID, member dao.Address, positive bool, reason string, now uint64) (rec *reputation.Record, err error) {
	err = l.exec("record_interaction", now, func(tx *txn) error {
		if err := l.authority.Check(tok, authority.ReputationManager); err != nil {
			return err
		}
		before, err := l.reputation.Get(org, member)
		if err != nil {
			return err
		}
		oldScore := before.TrustScore
		if rec, err = l.reputation.RecordInteraction(org, member, positive, reason, tx.now); err != nil {
			return err
		}
		tx.emit(&events.ReputationChanged{
			Org:        org,
			Member:     member,
			Kind:       reputation.KindInteraction.String(),
			Delta:      int64(rec.TrustScore) - int64(oldScore),
			ReasonCode: reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ApplyTrigger applies a reputation change requested by a collaborating subsystem.
func (l *Ledger) ApplyTrigger(tok authority.Token, org dao.OrgID, member dao.Address, trigger reputation.Trigger, now uint64) (*reputation.Record, error) {
	return l.UpdateReputation(tok, org, member, reputation.KindReputation, trigger.Delta, trigger.Reason, now)
}

// RecordContribution rewards a contribution of amount, with the bonus above the
// configured large contribution threshold.
func (l *Ledger) RecordContribution(tok authority.Token, org dao.OrgID, member dao.Address, amount *big.Int, now uint64) (*reputation.Record, error) {
	return l.ApplyTrigger(tok, org, member, reputation.OnContribution(amount, l.largeContribution), now)
}

// Reputation returns the record of member in org.
func (l *Ledger) Reputation(org dao.OrgID, member dao.Address) (rec *reputation.Record, err error) {
	err = l.view(func() error {
		rec, err = l.reputation.Get(org, member)
		return err
	})
	return
}

// ReputationHistory returns the history of member in org, oldest first.
func (l *Ledger) ReputationHistory(org dao.OrgID, member dao.Address) (entries []*reputation.Entry, err error) {
	err = l.view(func() error {
		entries, err = l.reputation.History(org, member)
		return err
	})
	return
}
