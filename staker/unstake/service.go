// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unstake

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
	"github.com/dao-ledger/stakerep/staker/stakes"
	"github.com/dao-ledger/stakerep/storage"
)

type requestKey struct {
	account stakes.Key
	index   uint64
}

func (k requestKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.account.Bytes(), k.index)
}

var (
	slotRequests     = dao.Blake2b([]byte("unstake-requests"))
	slotRequestCount = dao.Blake2b([]byte("unstake-request-count"))
)

// Service is the per account withdrawal queue.
// Indexes are assigned in creation order and never reused.
type Service struct {
	requests *storage.Mapping[requestKey, *Request]
	counts   *storage.Mapping[stakes.Key, uint64]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		requests: storage.NewMapping[requestKey, *Request](sctx, slotRequests),
		counts:   storage.NewMapping[stakes.Key, uint64](sctx, slotRequestCount),
	}
}

// Append queues a request unlocking after the strategy delay.
func (s *Service) Append(owner dao.Address, purpose dao.Purpose, amount *big.Int, strategy dao.Strategy, now uint64) (*Request, error) {
	terms, err := TermsOf(strategy)
	if err != nil {
		return nil, err
	}
	account := stakes.Key{Owner: owner, Purpose: purpose}
	n, err := s.counts.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get request count")
	}
	req := &Request{
		Owner:       owner,
		Purpose:     purpose,
		Index:       n,
		Amount:      new(big.Int).Set(amount),
		Strategy:    strategy,
		RequestTime: now,
		UnlockTime:  now + terms.Delay,
		Penalty:     new(big.Int),
		FinalAmount: new(big.Int),
	}
	if err := s.requests.Set(requestKey{account, n}, req); err != nil {
		return nil, errors.Wrap(err, "failed to set request")
	}
	if err := s.counts.Set(account, n+1); err != nil {
		return nil, errors.Wrap(err, "failed to set request count")
	}
	return req, nil
}

// Get returns the request at index, RequestNotFound if out of range.
func (s *Service) Get(owner dao.Address, purpose dao.Purpose, index uint64) (*Request, error) {
	account := stakes.Key{Owner: owner, Purpose: purpose}
	n, err := s.counts.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get request count")
	}
	if index >= n {
		return nil, reverts.Newf(reverts.RequestNotFound, "request %d of %d", index, n)
	}
	req, err := s.requests.Get(requestKey{account, index})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get request")
	}
	return req, nil
}

func (s *Service) Set(req *Request) error {
	return s.requests.Set(requestKey{stakes.Key{Owner: req.Owner, Purpose: req.Purpose}, req.Index}, req)
}

// List returns every request of the account in index order.
func (s *Service) List(owner dao.Address, purpose dao.Purpose) ([]*Request, error) {
	account := stakes.Key{Owner: owner, Purpose: purpose}
	n, err := s.counts.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get request count")
	}
	reqs := make([]*Request, 0, n)
	for i := uint64(0); i < n; i++ {
		req, err := s.requests.Get(requestKey{account, i})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get request")
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
