// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/staker/reward"
)

// Pool aggregates all stakes of one purpose.
type Pool struct {
	Purpose       dao.Purpose
	Created       bool
	Active        bool
	RewardRateBps uint64

	TotalStaked        *big.Int
	StakersCount       uint64
	AverageStakeAmount *big.Int

	TotalRewardsDistributed *big.Int
	TotalRewardsClaimed     *big.Int
	RewardReserve           *big.Int // distributed but not yet claimed

	// RewardIndex accumulates rate*seconds, see package reward.
	RewardIndex    *big.Int
	IndexUpdatedAt uint64

	TotalPenalties *big.Int
	TotalSlashed   *big.Int
}

func newPool(purpose dao.Purpose, rateBps uint64, now uint64) *Pool {
	return &Pool{
		Purpose:                 purpose,
		Created:                 true,
		Active:                  true,
		RewardRateBps:           rateBps,
		TotalStaked:             new(big.Int),
		AverageStakeAmount:      new(big.Int),
		TotalRewardsDistributed: new(big.Int),
		TotalRewardsClaimed:     new(big.Int),
		RewardReserve:           new(big.Int),
		RewardIndex:             new(big.Int),
		IndexUpdatedAt:          now,
		TotalPenalties:          new(big.Int),
		TotalSlashed:            new(big.Int),
	}
}

// Accrue advances the reward index to now at the current rate.
// A now earlier than the last update leaves the index untouched.
func (p *Pool) Accrue(now uint64) {
	if now <= p.IndexUpdatedAt {
		return
	}
	p.RewardIndex = reward.Advance(p.RewardIndex, p.RewardRateBps, now-p.IndexUpdatedAt)
	p.IndexUpdatedAt = now
}

// AddStake records amount joining the pool. first marks the owner's first nonzero stake.
func (p *Pool) AddStake(amount *big.Int, first bool) {
	p.TotalStaked = new(big.Int).Add(p.TotalStaked, amount)
	if first {
		p.StakersCount++
	}
	p.recomputeAverage()
}

// RemoveStake records amount leaving the pool. emptied marks the owner's stake reaching zero.
func (p *Pool) RemoveStake(amount *big.Int, emptied bool) {
	p.TotalStaked = new(big.Int).Sub(p.TotalStaked, amount)
	if emptied && p.StakersCount > 0 {
		p.StakersCount--
	}
	p.recomputeAverage()
}

// Fund adds distributed rewards to the reserve.
func (p *Pool) Fund(amount *big.Int) {
	p.TotalRewardsDistributed = new(big.Int).Add(p.TotalRewardsDistributed, amount)
	p.RewardReserve = new(big.Int).Add(p.RewardReserve, amount)
}

// Pay takes a claim out of the reserve. The caller checks the reserve covers it.
func (p *Pool) Pay(amount *big.Int) {
	p.TotalRewardsClaimed = new(big.Int).Add(p.TotalRewardsClaimed, amount)
	p.RewardReserve = new(big.Int).Sub(p.RewardReserve, amount)
}

func (p *Pool) recomputeAverage() {
	if p.StakersCount == 0 {
		p.AverageStakeAmount = new(big.Int)
		return
	}
	p.AverageStakeAmount = new(big.Int).Div(p.TotalStaked, new(big.Int).SetUint64(p.StakersCount))
}
