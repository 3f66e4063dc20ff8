// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/staker/pool"
	"github.com/dao-ledger/stakerep/staker/reward"
	"github.com/dao-ledger/stakerep/staker/slashing"
	"github.com/dao-ledger/stakerep/staker/stakes"
	"github.com/dao-ledger/stakerep/staker/unstake"
)

// UpdatePool changes the reward rate and active flag of a pool. Requires Admin.
func (l *Ledger) UpdatePool(tok authority.Token, purpose dao.Purpose, rateBps uint64, active bool, now uint64) error {
	return l.exec("update_pool", now, func(tx *txn) error {
		if err := l.authority.Check(tok, authority.Admin); err != nil {
			return err
		}
		old, err := l.staker.UpdatePool(purpose, rateBps, active, tx.now)
		if err != nil {
			return err
		}
		tx.emit(&events.PoolUpdated{
			Purpose: purpose,
			OldRate: old,
			NewRate: rateBps,
			Active:  active,
			Admin:   tok.Holder,
		})
		return nil
	})
}

// Stake locks amount of owner's tokens in the pool of purpose.
func (l *Ledger) Stake(owner dao.Address, purpose dao.Purpose, amount *big.Int, strategy dao.Strategy, now uint64) error {
	return l.exec("stake", now, func(tx *txn) error {
		if err := l.staker.Stake(owner, purpose, amount, strategy, tx.now); err != nil {
			return err
		}
		tx.pull(owner, amount)
		tx.emit(&events.Staked{
			Owner:    owner,
			Purpose:  purpose,
			Amount:   new(big.Int).Set(amount),
			Strategy: strategy,
		})
		return nil
	})
}

// RequestUnstake queues a withdrawal of amount under strategy.
func (l *Ledger) RequestUnstake(owner dao.Address, purpose dao.Purpose, amount *big.Int, strategy dao.Strategy, now uint64) (req *unstake.Request, err error) {
	err = l.exec("request_unstake", now, func(tx *txn) error {
		if req, err = l.staker.RequestUnstake(owner, purpose, amount, strategy, tx.now); err != nil {
			return err
		}
		tx.emit(&events.UnstakeRequested{
			Owner:        owner,
			Purpose:      purpose,
			Amount:       new(big.Int).Set(req.Amount),
			Strategy:     strategy,
			RequestIndex: req.Index,
			UnlockTime:   req.UnlockTime,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ProcessUnstake completes a ready request, paying the owner and sending any penalty to the treasury.
func (l *Ledger) ProcessUnstake(owner dao.Address, purpose dao.Purpose, index uint64, now uint64) (req *unstake.Request, err error) {
	err = l.exec("process_unstake", now, func(tx *txn) error {
		if req, err = l.staker.ProcessUnstake(owner, purpose, index, tx.now); err != nil {
			return err
		}
		tx.pay(owner, req.FinalAmount)
		tx.pay(l.treasury, req.Penalty)
		tx.emit(&events.Unstaked{
			Owner:        owner,
			Purpose:      purpose,
			RequestIndex: req.Index,
			Amount:       new(big.Int).Set(req.FinalAmount),
			Penalty:      new(big.Int).Set(req.Penalty),
			Timestamp:    tx.now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ClaimRewards pays owner the rewards accrued in the pool of purpose.
func (l *Ledger) ClaimRewards(owner dao.Address, purpose dao.Purpose, now uint64) (claim *reward.Claim, err error) {
	err = l.exec("claim_rewards", now, func(tx *txn) error {
		if claim, err = l.staker.ClaimRewards(owner, purpose, tx.now); err != nil {
			return err
		}
		tx.pay(owner, claim.Amount)
		tx.emit(&events.RewardsClaimed{
			Owner:   owner,
			Purpose: purpose,
			Amount:  new(big.Int).Set(claim.Amount),
			Bonus:   new(big.Int).Set(claim.StrategyBonus),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// DistributeRewards funds the reward reserve of a pool from the distributor's tokens.
// Requires RewardDistributor.
func (l *Ledger) DistributeRewards(tok authority.Token, purpose dao.Purpose, amount *big.Int, now uint64) error {
	return l.exec("distribute_rewards", now, func(tx *txn) error {
		if err := l.authority.Check(tok, authority.RewardDistributor); err != nil {
			return err
		}
		if err := l.staker.DistributeRewards(purpose, amount, tx.now); err != nil {
			return err
		}
		tx.pull(tok.Holder, amount)
		tx.emit(&events.RewardsDistributed{
			Purpose:     purpose,
			Amount:      new(big.Int).Set(amount),
			Distributor: tok.Holder,
		})
		return nil
	})
}

// Slash confiscates amount of owner's stake to the treasury and bars owner from staking.
// Requires Slasher.
func (l *Ledger) Slash(tok authority.Token, owner dao.Address, purpose dao.Purpose, amount *big.Int, reason string, now uint64) (rec *slashing.Record, err error) {
	err = l.exec("slash", now, func(tx *txn) error {
		if err := l.authority.Check(tok, authority.Slasher); err != nil {
			return err
		}
		if rec, err = l.staker.Slash(owner, purpose, amount, tok.Holder, reason, tx.now); err != nil {
			return err
		}
		tx.pay(l.treasury, rec.Amount)
		tx.emit(&events.Slashed{
			Owner:   owner,
			Purpose: purpose,
			Amount:  new(big.Int).Set(rec.Amount),
			Slasher: tok.Holder,
			Reason:  reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

//
// Queries
//

// Pool returns the pool of purpose with rewards accrued to the ledger clock.
func (l *Ledger) Pool(purpose dao.Purpose) (p *pool.Pool, err error) {
	err = l.view(func() error {
		p, err = l.staker.Pool(purpose, l.clock)
		return err
	})
	return
}

// Pools returns every pool.
func (l *Ledger) Pools() (pools []*pool.Pool, err error) {
	err = l.view(func() error {
		all, err := l.staker.Pools()
		if err != nil {
			return err
		}
		for _, p := range all {
			accrued, err := l.staker.Pool(p.Purpose, l.clock)
			if err != nil {
				return err
			}
			pools = append(pools, accrued)
		}
		return nil
	})
	return
}

// Account returns the stake account of owner in purpose.
func (l *Ledger) Account(owner dao.Address, purpose dao.Purpose) (acc *stakes.Account, err error) {
	err = l.view(func() error {
		acc, err = l.staker.Account(owner, purpose)
		return err
	})
	return
}

// PendingRewards returns what a claim would pay at now, and the part of it that is strategy bonus.
func (l *Ledger) PendingRewards(owner dao.Address, purpose dao.Purpose, now uint64) (pending, bonus *big.Int, err error) {
	err = l.view(func() error {
		pending, bonus, err = l.staker.PendingRewards(owner, purpose, l.at(now))
		return err
	})
	return
}

// IsSlashed reports whether owner was ever slashed.
func (l *Ledger) IsSlashed(owner dao.Address) (slashed bool, err error) {
	err = l.view(func() error {
		slashed, err = l.staker.IsSlashed(owner)
		return err
	})
	return
}

// UnstakeRequests lists the withdrawal requests of owner in purpose.
func (l *Ledger) UnstakeRequests(owner dao.Address, purpose dao.Purpose) (reqs []*unstake.Request, err error) {
	err = l.view(func() error {
		reqs, err = l.staker.UnstakeRequests(owner, purpose)
		return err
	})
	return
}

// Claims lists the reward claims of owner in purpose.
func (l *Ledger) Claims(owner dao.Address, purpose dao.Purpose) (claims []*reward.Claim, err error) {
	err = l.view(func() error {
		claims, err = l.staker.Claims(owner, purpose)
		return err
	})
	return
}

// SlashRecords lists the slashes of owner.
func (l *Ledger) SlashRecords(owner dao.Address) (recs []*slashing.Record, err error) {
	err = l.view(func() error {
		recs, err = l.staker.SlashRecords(owner)
		return err
	})
	return
}
