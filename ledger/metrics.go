// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/metrics"
)

var (
	metricOperations     = metrics.LazyLoadCounterVec("ledger_operations_count", []string{"op", "result"})
	metricPoolStaked     = metrics.LazyLoadGaugeVec("pool_total_staked_tokens", []string{"purpose"})
	metricPoolStakers    = metrics.LazyLoadGaugeVec("pool_stakers_count", []string{"purpose"})
	metricPoolReserve    = metrics.LazyLoadGaugeVec("pool_reward_reserve_tokens", []string{"purpose"})
	metricPoolRewardRate = metrics.LazyLoadGaugeVec("pool_reward_rate_bps", []string{"purpose"})
)

// refreshPoolGauges publishes pool aggregates. Caller holds the lock or owns the ledger exclusively.
func (l *Ledger) refreshPoolGauges() {
	if metrics.NoOp() {
		return
	}
	pools, err := l.staker.Pools()
	if err != nil {
		logger.Warn("failed to read pools for metrics", "err", err)
		return
	}
	for _, p := range pools {
		labels := map[string]string{"purpose": p.Purpose.String()}
		metricPoolStaked().SetWithLabel(wholeTokens(p.TotalStaked), labels)
		metricPoolStakers().SetWithLabel(int64(p.StakersCount), labels)
		metricPoolReserve().SetWithLabel(wholeTokens(p.RewardReserve), labels)
		metricPoolRewardRate().SetWithLabel(int64(p.RewardRateBps), labels)
	}
}

func wholeTokens(amount *big.Int) int64 {
	return new(big.Int).Quo(amount, dao.TokenUnit).Int64()
}
