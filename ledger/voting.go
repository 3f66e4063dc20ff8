// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/voting"
)

// DelegateVotingPower lends amount of the delegator's voting power in org to delegatee.
func (l *Ledger) DelegateVotingPower(org dao.OrgID, delegator, delegatee dao.Address, amount *big.Int, now uint64) (d *voting.Delegation, err error) {
	err = l.exec("delegate", now, func(tx *txn) error {
		if d, err = l.voting.Delegate(org, delegator, delegatee, amount, tx.now); err != nil {
			return err
		}
		tx.emit(&events.VotingDelegated{
			Org:          org,
			DelegationID: d.ID,
			Delegator:    delegator,
			Delegatee:    delegatee,
			Amount:       new(big.Int).Set(amount),
			Timestamp:    tx.now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UndelegateVotingPower returns the power lent by delegator to delegatee in org.
func (l *Ledger) UndelegateVotingPower(org dao.OrgID, delegator, delegatee dao.Address, now uint64) (d *voting.Delegation, err error) {
	err = l.exec("undelegate", now, func(tx *txn) error {
		if d, err = l.voting.Undelegate(org, delegator, delegatee, tx.now); err != nil {
			return err
		}
		tx.emit(undelegated(d, tx.now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UndelegateByID returns the power of delegation id, which caller must have created in org.
func (l *Ledger) UndelegateByID(org dao.OrgID, caller dao.Address, id uint64, now uint64) (d *voting.Delegation, err error) {
	err = l.exec("undelegate", now, func(tx *txn) error {
		if d, err = l.voting.UndelegateByID(org, caller, id, tx.now); err != nil {
			return err
		}
		tx.emit(undelegated(d, tx.now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func undelegated(d *voting.Delegation, now uint64) *events.VotingUndelegated {
	return &events.VotingUndelegated{
		Org:          d.Org,
		DelegationID: d.ID,
		Delegator:    d.Delegator,
		Delegatee:    d.Delegatee,
		Amount:       new(big.Int).Set(d.Amount),
		Timestamp:    now,
	}
}

// VotingWeight scales baseWeight by the reputation of member in org.
func (l *Ledger) VotingWeight(org dao.OrgID, member dao.Address, baseWeight *big.Int) (w *big.Int, err error) {
	err = l.view(func() error {
		w, err = l.voting.CalculateVotingWeight(org, member, baseWeight)
		return err
	})
	return
}

// VotingPower returns own, lent, received and effective voting power of member in org.
func (l *Ledger) VotingPower(org dao.OrgID, member dao.Address) (p *voting.Power, err error) {
	err = l.view(func() error {
		p, err = l.voting.Power(org, member)
		return err
	})
	return
}

// Delegations returns the edges created by and pointed at member in org.
func (l *Ledger) Delegations(org dao.OrgID, member dao.Address) (outgoing, incoming []*voting.Delegation, err error) {
	err = l.view(func() error {
		if outgoing, err = l.graph.Outgoing(org, member); err != nil {
			return err
		}
		incoming, err = l.graph.Incoming(org, member)
		return err
	})
	return
}
