// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
	"github.com/dao-ledger/stakerep/staker/pool"
	"github.com/dao-ledger/stakerep/staker/reward"
	"github.com/dao-ledger/stakerep/staker/slashing"
	"github.com/dao-ledger/stakerep/staker/stakes"
	"github.com/dao-ledger/stakerep/staker/unstake"
	"github.com/dao-ledger/stakerep/storage"
)

var logger = log.New("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker is the staking ledger: pools, stake accounts, the unstake queue,
// reward accrual and slashing. It only mutates state; moving tokens is
// left to the caller, guided by the returned values.
type Staker struct {
	poolService     *pool.Service
	stakeService    *stakes.Service
	unstakeService  *unstake.Service
	rewardService   *reward.Service
	slashingService *slashing.Service
}

// New create a new instance.
func New(sctx *storage.Context) *Staker {
	return &Staker{
		poolService:     pool.New(sctx),
		stakeService:    stakes.New(sctx),
		unstakeService:  unstake.New(sctx),
		rewardService:   reward.New(sctx),
		slashingService: slashing.New(sctx),
	}
}

//
// Getters - no state change
//

// Pool returns the pool of purpose with its reward index advanced to now.
func (s *Staker) Pool(purpose dao.Purpose, now uint64) (*pool.Pool, error) {
	return s.poolService.GetAccrued(purpose, now)
}

// Pools returns every pool.
func (s *Staker) Pools() ([]*pool.Pool, error) {
	return s.poolService.All()
}

// Account returns the stake account of owner in purpose.
func (s *Staker) Account(owner dao.Address, purpose dao.Purpose) (*stakes.Account, error) {
	return s.stakeService.Get(owner, purpose)
}

// IsSlashed reports whether owner was ever slashed.
func (s *Staker) IsSlashed(owner dao.Address) (bool, error) {
	return s.stakeService.IsSlashed(owner)
}

// PendingRewards returns what claimRewards would pay at now, split into
// the accrued amount and the strategy bonus.
func (s *Staker) PendingRewards(owner dao.Address, purpose dao.Purpose, now uint64) (*big.Int, *big.Int, error) {
	p, err := s.poolService.GetAccrued(purpose, now)
	if err != nil {
		return nil, nil, err
	}
	acc, err := s.stakeService.Get(owner, purpose)
	if err != nil {
		return nil, nil, err
	}
	terms, err := unstake.TermsOf(acc.Strategy)
	if err != nil {
		return nil, nil, err
	}
	pending := acc.PendingAt(p.RewardIndex)
	return pending, reward.Bonus(pending, terms.BonusBps), nil
}

// UnstakeRequests lists the withdrawal requests of the account.
func (s *Staker) UnstakeRequests(owner dao.Address, purpose dao.Purpose) ([]*unstake.Request, error) {
	return s.unstakeService.List(owner, purpose)
}

// UnstakeRequest returns one withdrawal request.
func (s *Staker) UnstakeRequest(owner dao.Address, purpose dao.Purpose, index uint64) (*unstake.Request, error) {
	return s.unstakeService.Get(owner, purpose, index)
}

// Claims lists the reward claims of the account.
func (s *Staker) Claims(owner dao.Address, purpose dao.Purpose) ([]*reward.Claim, error) {
	return s.rewardService.List(owner, purpose)
}

// SlashRecords lists every slash of owner.
func (s *Staker) SlashRecords(owner dao.Address) ([]*slashing.Record, error) {
	return s.slashingService.List(owner)
}

//
// Setters - state change
//

// CreatePool creates the pool of purpose if absent.
func (s *Staker) CreatePool(purpose dao.Purpose, rateBps uint64, now uint64) (bool, error) {
	created, err := s.poolService.Create(purpose, rateBps, now)
	if err != nil {
		return false, err
	}
	if created {
		logger.Debug("created pool", "purpose", purpose, "rate", rateBps)
	}
	return created, nil
}

// UpdatePool changes rate and active flag, returning the old rate.
func (s *Staker) UpdatePool(purpose dao.Purpose, rateBps uint64, active bool, now uint64) (uint64, error) {
	old, err := s.poolService.Update(purpose, rateBps, active, now)
	if err != nil {
		return 0, err
	}
	logger.Debug("updated pool", "purpose", purpose, "old", old, "new", rateBps, "active", active)
	return old, nil
}

// Stake adds amount to the account of owner. The caller moves amount into custody.
func (s *Staker) Stake(owner dao.Address, purpose dao.Purpose, amount *big.Int, strategy dao.Strategy, now uint64) error {
	logger.Debug("stake", "owner", owner, "purpose", purpose, "amount", amount, "strategy", strategy)

	if _, err := unstake.TermsOf(strategy); err != nil {
		return err
	}
	p, err := s.poolService.GetAccrued(purpose, now)
	if err != nil {
		return err
	}
	if !p.Active {
		return reverts.Newf(reverts.PoolInactive, "pool %v is not active", purpose)
	}
	if amount.Cmp(dao.MinStake) < 0 {
		return reverts.Newf(reverts.AmountTooSmall, "stake %v below minimum %v", amount, dao.MinStake)
	}
	slashed, err := s.stakeService.IsSlashed(owner)
	if err != nil {
		return errors.Wrap(err, "failed to get slashed flag")
	}
	if slashed {
		return reverts.Newf(reverts.UserSlashed, "%v was slashed", owner)
	}

	acc, err := s.stakeService.Get(owner, purpose)
	if err != nil {
		return err
	}
	acc.Settle(p.RewardIndex)
	first := acc.IsEmpty()
	acc.Amount = new(big.Int).Add(acc.Amount, amount)
	acc.Strategy = strategy
	acc.StakedAt = now
	p.AddStake(amount, first)

	if err := s.stakeService.Set(acc); err != nil {
		return errors.Wrap(err, "failed to set stake account")
	}
	return s.poolService.Set(p)
}

// RequestUnstake queues a withdrawal of amount unlocking after the strategy delay.
func (s *Staker) RequestUnstake(owner dao.Address, purpose dao.Purpose, amount *big.Int, strategy dao.Strategy, now uint64) (*unstake.Request, error) {
	logger.Debug("request unstake", "owner", owner, "purpose", purpose, "amount", amount, "strategy", strategy)

	if _, err := s.poolService.Get(purpose); err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, reverts.New(reverts.AmountTooSmall, "unstake amount must be positive")
	}
	acc, err := s.stakeService.Get(owner, purpose)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(acc.Amount) > 0 {
		return nil, reverts.Newf(reverts.InsufficientStake, "unstake %v exceeds stake %v", amount, acc.Amount)
	}
	return s.unstakeService.Append(owner, purpose, amount, strategy, now)
}

// ProcessUnstake completes a ready request. The returned request carries the
// final amount owed to owner and the penalty owed to the treasury.
func (s *Staker) ProcessUnstake(owner dao.Address, purpose dao.Purpose, index uint64, now uint64) (*unstake.Request, error) {
	logger.Debug("process unstake", "owner", owner, "purpose", purpose, "index", index)

	req, err := s.unstakeService.Get(owner, purpose, index)
	if err != nil {
		return nil, err
	}
	if req.Processed {
		return nil, reverts.Newf(reverts.RequestAlreadyProcessed, "request %d processed at %d", index, req.ProcessedAt)
	}
	if !req.Ready(now) {
		return nil, reverts.Newf(reverts.RequestNotReady, "request %d unlocks at %d", index, req.UnlockTime)
	}
	terms, err := unstake.TermsOf(req.Strategy)
	if err != nil {
		return nil, err
	}

	p, err := s.poolService.GetAccrued(purpose, now)
	if err != nil {
		return nil, err
	}
	acc, err := s.stakeService.Get(owner, purpose)
	if err != nil {
		return nil, err
	}
	// a slash after the request may have left less than was requested
	if req.Amount.Cmp(acc.Amount) > 0 {
		logger.Debug("unstake capped", "owner", owner, "purpose", purpose, "index", index, "requested", req.Amount, "remaining", acc.Amount)
		req.Amount = new(big.Int).Set(acc.Amount)
	}

	penalty := new(big.Int).Mul(req.Amount, new(big.Int).SetUint64(terms.PenaltyBps))
	penalty.Quo(penalty, big.NewInt(dao.BpsDenominator))

	acc.Settle(p.RewardIndex)
	held := !acc.IsEmpty()
	acc.Amount = new(big.Int).Sub(acc.Amount, req.Amount)
	p.RemoveStake(req.Amount, held && acc.IsEmpty())
	p.TotalPenalties = new(big.Int).Add(p.TotalPenalties, penalty)

	req.Processed = true
	req.ProcessedAt = now
	req.Penalty = penalty
	req.FinalAmount = new(big.Int).Sub(req.Amount, penalty)

	if err := s.unstakeService.Set(req); err != nil {
		return nil, errors.Wrap(err, "failed to set request")
	}
	if err := s.stakeService.Set(acc); err != nil {
		return nil, errors.Wrap(err, "failed to set stake account")
	}
	if err := s.poolService.Set(p); err != nil {
		return nil, errors.Wrap(err, "failed to set pool")
	}
	return req, nil
}

// ClaimRewards pays out the accrued rewards of the account, plus the Patient bonus,
// from the pool reward reserve. The caller moves claim.Amount to owner.
func (s *Staker) ClaimRewards(owner dao.Address, purpose dao.Purpose, now uint64) (*reward.Claim, error) {
	logger.Debug("claim rewards", "owner", owner, "purpose", purpose)

	p, err := s.poolService.GetAccrued(purpose, now)
	if err != nil {
		return nil, err
	}
	acc, err := s.stakeService.Get(owner, purpose)
	if err != nil {
		return nil, err
	}
	acc.Settle(p.RewardIndex)
	if acc.IsEmpty() && acc.Accrued.Sign() == 0 {
		return nil, reverts.Newf(reverts.NoStake, "%v has no stake in %v", owner, purpose)
	}
	terms, err := unstake.TermsOf(acc.Strategy)
	if err != nil {
		return nil, err
	}

	bonus := reward.Bonus(acc.Accrued, terms.BonusBps)
	total := new(big.Int).Add(acc.Accrued, bonus)
	if total.Cmp(p.RewardReserve) > 0 {
		return nil, reverts.Newf(reverts.InsufficientBalance, "reward reserve %v cannot cover %v", p.RewardReserve, total)
	}

	p.Pay(total)
	acc.Accrued = new(big.Int)
	acc.TotalClaimed = new(big.Int).Add(acc.TotalClaimed, total)
	acc.LastClaimAt = now

	claim := &reward.Claim{
		Owner:         owner,
		Purpose:       purpose,
		Amount:        total,
		StrategyBonus: bonus,
		Timestamp:     now,
	}
	if err := s.rewardService.Append(claim); err != nil {
		return nil, errors.Wrap(err, "failed to append claim")
	}
	if err := s.stakeService.Set(acc); err != nil {
		return nil, errors.Wrap(err, "failed to set stake account")
	}
	if err := s.poolService.Set(p); err != nil {
		return nil, errors.Wrap(err, "failed to set pool")
	}
	return claim, nil
}

// DistributeRewards funds the reward reserve of the pool. The caller moves amount into custody.
func (s *Staker) DistributeRewards(purpose dao.Purpose, amount *big.Int, now uint64) error {
	logger.Debug("distribute rewards", "purpose", purpose, "amount", amount)

	if amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidAmount, "distribution must be positive")
	}
	p, err := s.poolService.GetAccrued(purpose, now)
	if err != nil {
		return err
	}
	p.Fund(amount)
	return s.poolService.Set(p)
}

// Slash takes amount from the stake of owner and bars owner from staking again.
// The caller moves amount to the treasury.
func (s *Staker) Slash(owner dao.Address, purpose dao.Purpose, amount *big.Int, slasher dao.Address, reason string, now uint64) (*slashing.Record, error) {
	logger.Debug("slash", "owner", owner, "purpose", purpose, "amount", amount, "slasher", slasher)

	if amount.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidAmount, "slash amount must be positive")
	}
	p, err := s.poolService.GetAccrued(purpose, now)
	if err != nil {
		return nil, err
	}
	acc, err := s.stakeService.Get(owner, purpose)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(acc.Amount) > 0 {
		return nil, reverts.Newf(reverts.InsufficientStake, "slash %v exceeds stake %v", amount, acc.Amount)
	}

	acc.Settle(p.RewardIndex)
	acc.Amount = new(big.Int).Sub(acc.Amount, amount)
	p.RemoveStake(amount, acc.IsEmpty())
	p.TotalSlashed = new(big.Int).Add(p.TotalSlashed, amount)

	record := &slashing.Record{
		Owner:     owner,
		Purpose:   purpose,
		Amount:    new(big.Int).Set(amount),
		Slasher:   slasher,
		Reason:    reason,
		Timestamp: now,
	}
	if err := s.slashingService.Append(record); err != nil {
		return nil, errors.Wrap(err, "failed to append slash record")
	}
	if err := s.stakeService.MarkSlashed(owner); err != nil {
		return nil, errors.Wrap(err, "failed to mark slashed")
	}
	if err := s.stakeService.Set(acc); err != nil {
		return nil, errors.Wrap(err, "failed to set stake account")
	}
	if err := s.poolService.Set(p); err != nil {
		return nil, errors.Wrap(err, "failed to set pool")
	}
	return record, nil
}
