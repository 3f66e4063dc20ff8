// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/storage"
)

// Claim is the immutable receipt of a claimRewards call.
type Claim struct {
	Owner         dao.Address
	Purpose       dao.Purpose
	Index         uint64
	Amount        *big.Int // total paid, bonus included
	StrategyBonus *big.Int
	Timestamp     uint64
}

type ownerKey struct {
	owner   dao.Address
	purpose dao.Purpose
}

func (k ownerKey) Bytes() []byte {
	return append(k.owner.Bytes(), byte(k.purpose))
}

type claimKey struct {
	ownerKey
	index uint64
}

func (k claimKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.ownerKey.Bytes(), k.index)
}

var (
	slotClaims     = dao.Blake2b([]byte("claims"))
	slotClaimCount = dao.Blake2b([]byte("claim-count"))
)

// Service stores claim receipts per (owner, purpose).
type Service struct {
	claims *storage.Mapping[claimKey, *Claim]
	counts *storage.Mapping[ownerKey, uint64]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		claims: storage.NewMapping[claimKey, *Claim](sctx, slotClaims),
		counts: storage.NewMapping[ownerKey, uint64](sctx, slotClaimCount),
	}
}

// Append stores c, assigning its index.
func (s *Service) Append(c *Claim) error {
	key := ownerKey{c.Owner, c.Purpose}
	n, err := s.counts.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get claim count")
	}
	c.Index = n
	if err := s.claims.Set(claimKey{key, n}, c); err != nil {
		return errors.Wrap(err, "failed to set claim")
	}
	return s.counts.Set(key, n+1)
}

// List returns all claims of owner in purpose, oldest first.
func (s *Service) List(owner dao.Address, purpose dao.Purpose) ([]*Claim, error) {
	key := ownerKey{owner, purpose}
	n, err := s.counts.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get claim count")
	}
	claims := make([]*Claim, 0, n)
	for i := uint64(0); i < n; i++ {
		c, err := s.claims.Get(claimKey{key, i})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get claim")
		}
		claims = append(claims, c)
	}
	return claims, nil
}
