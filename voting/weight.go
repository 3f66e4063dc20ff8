// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package voting derives governance voting power from stake, reputation and delegation.
package voting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reputation"
	"github.com/dao-ledger/stakerep/reverts"
)

var logger = log.New("pkg", "voting")

// ReputationReader reads reputation records.
type ReputationReader interface {
	Get(org dao.OrgID, member dao.Address) (*reputation.Record, error)
}

// StakeReader reads the stake backing a member's base voting weight.
type StakeReader interface {
	GovernanceStake(member dao.Address) (*big.Int, error)
}

// Power breaks down the voting power of a member in an organization.
type Power struct {
	Own           *big.Int `json:"own"`
	DelegatedAway *big.Int `json:"delegatedAway"`
	Received      *big.Int `json:"received"`
	Effective     *big.Int `json:"effective"`
}

// Calculator computes voting weights and validates delegations.
type Calculator struct {
	reputation ReputationReader
	stakes     StakeReader
	graph      *Graph
}

func NewCalculator(rep ReputationReader, stakes StakeReader, graph *Graph) *Calculator {
	return &Calculator{reputation: rep, stakes: stakes, graph: graph}
}

// CalculateVotingWeight scales baseWeight by reputation, 1000 being neutral.
func (c *Calculator) CalculateVotingWeight(org dao.OrgID, member dao.Address, baseWeight *big.Int) (*big.Int, error) {
	rec, err := c.reputation.Get(org, member)
	if err != nil {
		return nil, err
	}
	w := new(big.Int).Mul(baseWeight, new(big.Int).SetUint64(rec.Reputation))
	return w.Quo(w, new(big.Int).SetUint64(dao.ReputationMultiplierBase)), nil
}

// OwnPower is the weight of the member's governance stake counted in whole tokens.
func (c *Calculator) OwnPower(org dao.OrgID, member dao.Address) (*big.Int, error) {
	stake, err := c.stakes.GovernanceStake(member)
	if err != nil {
		return nil, err
	}
	return c.CalculateVotingWeight(org, member, new(big.Int).Quo(stake, dao.TokenUnit))
}

// Power returns own power minus what was lent out, floored at zero, plus what was received.
// Chains are not collapsed: power received is never lent further.
func (c *Calculator) Power(org dao.OrgID, member dao.Address) (*Power, error) {
	own, err := c.OwnPower(org, member)
	if err != nil {
		return nil, err
	}
	away, err := c.graph.DelegatedAway(org, member)
	if err != nil {
		return nil, err
	}
	received, err := c.graph.Received(org, member)
	if err != nil {
		return nil, err
	}
	effective := new(big.Int).Sub(own, away)
	if effective.Sign() < 0 {
		effective.SetInt64(0)
	}
	effective.Add(effective, received)
	return &Power{Own: own, DelegatedAway: away, Received: received, Effective: effective}, nil
}

// Delegate lends amount of the delegator's undelegated own power to delegatee.
func (c *Calculator) Delegate(org dao.OrgID, delegator, delegatee dao.Address, amount *big.Int, now uint64) (*Delegation, error) {
	logger.Debug("delegate", "org", org, "delegator", delegator, "delegatee", delegatee, "amount", amount)

	if delegator == delegatee {
		return nil, reverts.New(reverts.SelfDelegation, "cannot delegate to self")
	}
	if amount.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidAmount, "delegation must be positive")
	}
	own, err := c.OwnPower(org, delegator)
	if err != nil {
		return nil, err
	}
	away, err := c.graph.DelegatedAway(org, delegator)
	if err != nil {
		return nil, err
	}
	available := new(big.Int).Sub(own, away)
	if amount.Cmp(available) > 0 {
		return nil, reverts.Newf(reverts.InsufficientVotingPower, "delegating %v with %v available", amount, available)
	}
	return c.graph.Add(org, delegator, delegatee, amount, now)
}

// Undelegate deactivates the active edge between the pair.
func (c *Calculator) Undelegate(org dao.OrgID, delegator, delegatee dao.Address, now uint64) (*Delegation, error) {
	logger.Debug("undelegate", "org", org, "delegator", delegator, "delegatee", delegatee)

	d, err := c.graph.ActiveEdge(org, delegator, delegatee)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, reverts.Newf(reverts.DelegationNotFound, "no active delegation from %v to %v", delegator, delegatee)
	}
	return d, c.graph.Deactivate(d, now)
}

// UndelegateByID deactivates edge id on behalf of caller, which must be its delegator in org.
func (c *Calculator) UndelegateByID(org dao.OrgID, caller dao.Address, id uint64, now uint64) (*Delegation, error) {
	d, err := c.graph.Get(id)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.Active {
		return nil, reverts.Newf(reverts.DelegationNotFound, "no active delegation %d", id)
	}
	if d.Org != org {
		return nil, reverts.Newf(reverts.OrganizationScopeMismatch, "delegation %d belongs to %v", id, d.Org)
	}
	if d.Delegator != caller {
		return nil, reverts.Newf(reverts.Unauthorized, "%v is not the delegator of %d", caller, id)
	}
	return d, c.graph.Deactivate(d, now)
}
