// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/dao-ledger/stakerep/api/utils"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/staker/pool"
	"github.com/dao-ledger/stakerep/staker/reward"
	"github.com/dao-ledger/stakerep/staker/slashing"
	"github.com/dao-ledger/stakerep/staker/stakes"
	"github.com/dao-ledger/stakerep/staker/unstake"
)

type StakeRequest struct {
	Caller   dao.Address           `json:"caller"`
	Owner    dao.Address           `json:"owner"`
	Purpose  dao.Purpose           `json:"purpose"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	Strategy dao.Strategy          `json:"strategy"`
}

type ProcessRequest struct {
	Caller  dao.Address `json:"caller"`
	Owner   dao.Address `json:"owner"`
	Purpose dao.Purpose `json:"purpose"`
	Index   uint64      `json:"index"`
}

type ClaimRequest struct {
	Caller  dao.Address `json:"caller"`
	Owner   dao.Address `json:"owner"`
	Purpose dao.Purpose `json:"purpose"`
}

type DistributeRequest struct {
	Caller  dao.Address           `json:"caller"`
	Purpose dao.Purpose           `json:"purpose"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type SlashRequest struct {
	Caller  dao.Address           `json:"caller"`
	Owner   dao.Address           `json:"owner"`
	Purpose dao.Purpose           `json:"purpose"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
	Reason  string                `json:"reason"`
}

type UpdatePoolRequest struct {
	Caller        dao.Address `json:"caller"`
	RewardRateBps uint64      `json:"rewardRateBps"`
	Active        bool        `json:"active"`
}

type Pool struct {
	Purpose                 dao.Purpose           `json:"purpose"`
	Active                  bool                  `json:"active"`
	RewardRateBps           uint64                `json:"rewardRateBps"`
	TotalStaked             *math.HexOrDecimal256 `json:"totalStaked"`
	StakersCount            uint64                `json:"stakersCount"`
	AverageStakeAmount      *math.HexOrDecimal256 `json:"averageStakeAmount"`
	TotalRewardsDistributed *math.HexOrDecimal256 `json:"totalRewardsDistributed"`
	TotalRewardsClaimed     *math.HexOrDecimal256 `json:"totalRewardsClaimed"`
	RewardReserve           *math.HexOrDecimal256 `json:"rewardReserve"`
	TotalPenalties          *math.HexOrDecimal256 `json:"totalPenalties"`
	TotalSlashed            *math.HexOrDecimal256 `json:"totalSlashed"`
}

func convertPool(p *pool.Pool) *Pool {
	return &Pool{
		Purpose:                 p.Purpose,
		Active:                  p.Active,
		RewardRateBps:           p.RewardRateBps,
		TotalStaked:             utils.JSONAmount(p.TotalStaked),
		StakersCount:            p.StakersCount,
		AverageStakeAmount:      utils.JSONAmount(p.AverageStakeAmount),
		TotalRewardsDistributed: utils.JSONAmount(p.TotalRewardsDistributed),
		TotalRewardsClaimed:     utils.JSONAmount(p.TotalRewardsClaimed),
		RewardReserve:           utils.JSONAmount(p.RewardReserve),
		TotalPenalties:          utils.JSONAmount(p.TotalPenalties),
		TotalSlashed:            utils.JSONAmount(p.TotalSlashed),
	}
}

type Account struct {
	Owner          dao.Address           `json:"owner"`
	Purpose        dao.Purpose           `json:"purpose"`
	Amount         *math.HexOrDecimal256 `json:"amount"`
	Strategy       dao.Strategy          `json:"strategy"`
	StakedAt       uint64                `json:"stakedAt"`
	LastClaimAt    uint64                `json:"lastClaimAt"`
	TotalClaimed   *math.HexOrDecimal256 `json:"totalClaimed"`
	PendingRewards *math.HexOrDecimal256 `json:"pendingRewards"`
	StrategyBonus  *math.HexOrDecimal256 `json:"strategyBonus"`
	Slashed        bool                  `json:"slashed"`
}

type UnstakeRequest struct {
	Owner       dao.Address           `json:"owner"`
	Purpose     dao.Purpose           `json:"purpose"`
	Index       uint64                `json:"index"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	Strategy    dao.Strategy          `json:"strategy"`
	RequestTime uint64                `json:"requestTime"`
	UnlockTime  uint64                `json:"unlockTime"`
	Processed   bool                  `json:"processed"`
	ProcessedAt uint64                `json:"processedAt"`
	Penalty     *math.HexOrDecimal256 `json:"penalty"`
	FinalAmount *math.HexOrDecimal256 `json:"finalAmount"`
}

func convertRequest(r *unstake.Request) *UnstakeRequest {
	return &UnstakeRequest{
		Owner:       r.Owner,
		Purpose:     r.Purpose,
		Index:       r.Index,
		Amount:      utils.JSONAmount(r.Amount),
		Strategy:    r.Strategy,
		RequestTime: r.RequestTime,
		UnlockTime:  r.UnlockTime,
		Processed:   r.Processed,
		ProcessedAt: r.ProcessedAt,
		Penalty:     utils.JSONAmount(r.Penalty),
		FinalAmount: utils.JSONAmount(r.FinalAmount),
	}
}

type Claim struct {
	Owner         dao.Address           `json:"owner"`
	Purpose       dao.Purpose           `json:"purpose"`
	Index         uint64                `json:"index"`
	Amount        *math.HexOrDecimal256 `json:"amount"`
	StrategyBonus *math.HexOrDecimal256 `json:"strategyBonus"`
	Timestamp     uint64                `json:"timestamp"`
}

func convertClaim(c *reward.Claim) *Claim {
	return &Claim{
		Owner:         c.Owner,
		Purpose:       c.Purpose,
		Index:         c.Index,
		Amount:        utils.JSONAmount(c.Amount),
		StrategyBonus: utils.JSONAmount(c.StrategyBonus),
		Timestamp:     c.Timestamp,
	}
}

type SlashRecord struct {
	Owner     dao.Address           `json:"owner"`
	Purpose   dao.Purpose           `json:"purpose"`
	Index     uint64                `json:"index"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Slasher   dao.Address           `json:"slasher"`
	Reason    string                `json:"reason"`
	Timestamp uint64                `json:"timestamp"`
}

func convertSlash(r *slashing.Record) *SlashRecord {
	return &SlashRecord{
		Owner:     r.Owner,
		Purpose:   r.Purpose,
		Index:     r.Index,
		Amount:    utils.JSONAmount(r.Amount),
		Slasher:   r.Slasher,
		Reason:    r.Reason,
		Timestamp: r.Timestamp,
	}
}

func convertAccount(a *stakes.Account, pending, bonus *math.HexOrDecimal256, slashed bool) *Account {
	return &Account{
		Owner:          a.Owner,
		Purpose:        a.Purpose,
		Amount:         utils.JSONAmount(a.Amount),
		Strategy:       a.Strategy,
		StakedAt:       a.StakedAt,
		LastClaimAt:    a.LastClaimAt,
		TotalClaimed:   utils.JSONAmount(a.TotalClaimed),
		PendingRewards: pending,
		StrategyBonus:  bonus,
		Slashed:        slashed,
	}
}
