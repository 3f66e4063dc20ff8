// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
	"github.com/dao-ledger/stakerep/storage"
)

var slotPools = dao.Blake2b([]byte("pools"))

// Service is the pool registry.
type Service struct {
	pools *storage.Mapping[dao.Purpose, *Pool]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		pools: storage.NewMapping[dao.Purpose, *Pool](sctx, slotPools),
	}
}

// Create creates the pool of purpose once. Later calls are no-ops and return false.
func (s *Service) Create(purpose dao.Purpose, rateBps uint64, now uint64) (bool, error) {
	if !purpose.Valid() {
		return false, reverts.Newf(reverts.UnknownPurpose, "purpose %d", uint8(purpose))
	}
	if rateBps > dao.MaxRewardRateBps {
		return false, reverts.Newf(reverts.RateTooHigh, "rate %d exceeds %d bps", rateBps, dao.MaxRewardRateBps)
	}
	existing, err := s.pools.Get(purpose)
	if err != nil {
		return false, errors.Wrap(err, "failed to get pool")
	}
	if existing.Created {
		return false, nil
	}
	return true, s.pools.Set(purpose, newPool(purpose, rateBps, now))
}

// Get returns the pool of purpose.
func (s *Service) Get(purpose dao.Purpose) (*Pool, error) {
	if !purpose.Valid() {
		return nil, reverts.Newf(reverts.UnknownPurpose, "purpose %d", uint8(purpose))
	}
	p, err := s.pools.Get(purpose)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if !p.Created {
		return nil, reverts.Newf(reverts.UnknownPurpose, "pool %v not created", purpose)
	}
	return p, nil
}

// GetAccrued returns the pool with its reward index advanced to now.
// Callers mutating the pool must Set it back.
func (s *Service) GetAccrued(purpose dao.Purpose, now uint64) (*Pool, error) {
	p, err := s.Get(purpose)
	if err != nil {
		return nil, err
	}
	p.Accrue(now)
	return p, nil
}

func (s *Service) Set(p *Pool) error {
	return s.pools.Set(p.Purpose, p)
}

// Update changes the rate and active flag. Accrual up to now is settled at the old rate.
// It returns the old rate.
func (s *Service) Update(purpose dao.Purpose, rateBps uint64, active bool, now uint64) (uint64, error) {
	if rateBps > dao.MaxRewardRateBps {
		return 0, reverts.Newf(reverts.RateTooHigh, "rate %d exceeds %d bps", rateBps, dao.MaxRewardRateBps)
	}
	p, err := s.GetAccrued(purpose, now)
	if err != nil {
		return 0, err
	}
	old := p.RewardRateBps
	p.RewardRateBps = rateBps
	p.Active = active
	return old, s.Set(p)
}

// All returns every created pool in catalogue order.
func (s *Service) All() ([]*Pool, error) {
	var pools []*Pool
	for _, purpose := range dao.Purposes {
		p, err := s.pools.Get(purpose)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get pool")
		}
		if p.Created {
			pools = append(pools, p)
		}
	}
	return pools, nil
}
