// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/storage"
)

// Record is the immutable trace of a slash.
type Record struct {
	Owner     dao.Address
	Purpose   dao.Purpose
	Index     uint64
	Amount    *big.Int
	Slasher   dao.Address
	Reason    string
	Timestamp uint64
}

type recordKey struct {
	owner dao.Address
	index uint64
}

func (k recordKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.owner.Bytes(), k.index)
}

var (
	slotRecords     = dao.Blake2b([]byte("slash-records"))
	slotRecordCount = dao.Blake2b([]byte("slash-record-count"))
)

// Service keeps slash records per owner, across pools.
type Service struct {
	records *storage.Mapping[recordKey, *Record]
	counts  *storage.Mapping[dao.Address, uint64]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		records: storage.NewMapping[recordKey, *Record](sctx, slotRecords),
		counts:  storage.NewMapping[dao.Address, uint64](sctx, slotRecordCount),
	}
}

// Append stores r, assigning its index.
func (s *Service) Append(r *Record) error {
	n, err := s.counts.Get(r.Owner)
	if err != nil {
		return errors.Wrap(err, "failed to get slash count")
	}
	r.Index = n
	if err := s.records.Set(recordKey{r.Owner, n}, r); err != nil {
		return errors.Wrap(err, "failed to set slash record")
	}
	return s.counts.Set(r.Owner, n+1)
}

// List returns the slash records of owner, oldest first.
func (s *Service) List(owner dao.Address) ([]*Record, error) {
	n, err := s.counts.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get slash count")
	}
	records := make([]*Record, 0, n)
	for i := uint64(0); i < n; i++ {
		r, err := s.records.Get(recordKey{owner, i})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get slash record")
		}
		records = append(records, r)
	}
	return records, nil
}
