// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the records the ledger emits, one per committed transition.
package events

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
)

// Event is the payload of a record.
type Event interface {
	Name() string
	// Topics returns the account and organization the event is about.
	Topics() Topics
}

// Topics are the indexed attributes of an event. Zero values mean not applicable.
type Topics struct {
	Account dao.Address
	Org     dao.OrgID
}

type PoolCreated struct {
	Purpose       dao.Purpose `json:"purpose"`
	RewardRateBps uint64      `json:"rewardRateBps"`
}

type PoolUpdated struct {
	Purpose dao.Purpose `json:"purpose"`
	OldRate uint64      `json:"oldRate"`
	NewRate uint64      `json:"newRate"`
	Active  bool        `json:"active"`
	Admin   dao.Address `json:"admin"`
}

type Staked struct {
	Owner    dao.Address  `json:"owner"`
	Purpose  dao.Purpose  `json:"purpose"`
	Amount   *big.Int     `json:"amount"`
	Strategy dao.Strategy `json:"strategy"`
}

type UnstakeRequested struct {
	Owner        dao.Address  `json:"owner"`
	Purpose      dao.Purpose  `json:"purpose"`
	Amount       *big.Int     `json:"amount"`
	Strategy     dao.Strategy `json:"strategy"`
	RequestIndex uint64       `json:"requestIndex"`
	UnlockTime   uint64       `json:"unlockTime"`
}

type Unstaked struct {
	Owner        dao.Address `json:"owner"`
	Purpose      dao.Purpose `json:"purpose"`
	RequestIndex uint64      `json:"requestIndex"`
	Amount       *big.Int    `json:"amount"`
	Penalty      *big.Int    `json:"penalty"`
	Timestamp    uint64      `json:"timestamp"`
}

type RewardsClaimed struct {
	Owner   dao.Address `json:"owner"`
	Purpose dao.Purpose `json:"purpose"`
	Amount  *big.Int    `json:"amount"`
	Bonus   *big.Int    `json:"bonus"`
}

type RewardsDistributed struct {
	Purpose     dao.Purpose `json:"purpose"`
	Amount      *big.Int    `json:"amount"`
	Distributor dao.Address `json:"distributor"`
}

type Slashed struct {
	Owner   dao.Address `json:"owner"`
	Purpose dao.Purpose `json:"purpose"`
	Amount  *big.Int    `json:"amount"`
	Slasher dao.Address `json:"slasher"`
	Reason  string      `json:"reason"`
}

type ReputationChanged struct {
	Org        dao.OrgID   `json:"org"`
	Member     dao.Address `json:"member"`
	Kind       string      `json:"kind"`
	Delta      int64       `json:"delta"`
	ReasonCode string      `json:"reasonCode"`
}

type VotingDelegated struct {
	Org          dao.OrgID   `json:"org"`
	DelegationID uint64      `json:"delegationId"`
	Delegator    dao.Address `json:"delegator"`
	Delegatee    dao.Address `json:"delegatee"`
	Amount       *big.Int    `json:"amount"`
	Timestamp    uint64      `json:"timestamp"`
}

type VotingUndelegated struct {
	Org          dao.OrgID   `json:"org"`
	DelegationID uint64      `json:"delegationId"`
	Delegator    dao.Address `json:"delegator"`
	Delegatee    dao.Address `json:"delegatee"`
	Amount       *big.Int    `json:"amount"`
	Timestamp    uint64      `json:"timestamp"`
}

type CapabilityChanged struct {
	Holder     dao.Address `json:"holder"`
	Capability string      `json:"capability"`
	Granted    bool        `json:"granted"`
	By         dao.Address `json:"by"`
}

func (PoolCreated) Name() string        { return "PoolCreated" }
func (PoolUpdated) Name() string        { return "PoolUpdated" }
func (Staked) Name() string             { return "Staked" }
func (UnstakeRequested) Name() string   { return "UnstakeRequested" }
func (Unstaked) Name() string           { return "Unstaked" }
func (RewardsClaimed) Name() string     { return "RewardsClaimed" }
func (RewardsDistributed) Name() string { return "RewardsDistributed" }
func (Slashed) Name() string            { return "Slashed" }
func (ReputationChanged) Name() string  { return "ReputationChanged" }
func (VotingDelegated) Name() string    { return "VotingDelegated" }
func (VotingUndelegated) Name() string  { return "VotingUndelegated" }
func (CapabilityChanged) Name() string  { return "CapabilityChanged" }

func (PoolCreated) Topics() Topics         { return Topics{} }
func (PoolUpdated) Topics() Topics         { return Topics{} }
func (e Staked) Topics() Topics            { return Topics{Account: e.Owner} }
func (e UnstakeRequested) Topics() Topics  { return Topics{Account: e.Owner} }
func (e Unstaked) Topics() Topics          { return Topics{Account: e.Owner} }
func (e RewardsClaimed) Topics() Topics    { return Topics{Account: e.Owner} }
func (RewardsDistributed) Topics() Topics  { return Topics{} }
func (e Slashed) Topics() Topics           { return Topics{Account: e.Owner} }
func (e ReputationChanged) Topics() Topics { return Topics{Account: e.Member, Org: e.Org} }
func (e VotingDelegated) Topics() Topics   { return Topics{Account: e.Delegator, Org: e.Org} }
func (e VotingUndelegated) Topics() Topics { return Topics{Account: e.Delegator, Org: e.Org} }
func (e CapabilityChanged) Topics() Topics { return Topics{Account: e.Holder} }

var factories = map[string]func() Event{
	PoolCreated{}.Name():        func() Event { return &PoolCreated{} },
	PoolUpdated{}.Name():        func() Event { return &PoolUpdated{} },
	Staked{}.Name():             func() Event { return &Staked{} },
	UnstakeRequested{}.Name():   func() Event { return &UnstakeRequested{} },
	Unstaked{}.Name():           func() Event { return &Unstaked{} },
	RewardsClaimed{}.Name():     func() Event { return &RewardsClaimed{} },
	RewardsDistributed{}.Name(): func() Event { return &RewardsDistributed{} },
	Slashed{}.Name():            func() Event { return &Slashed{} },
	ReputationChanged{}.Name():  func() Event { return &ReputationChanged{} },
	VotingDelegated{}.Name():    func() Event { return &VotingDelegated{} },
	VotingUndelegated{}.Name():  func() Event { return &VotingUndelegated{} },
	CapabilityChanged{}.Name():  func() Event { return &CapabilityChanged{} },
}
