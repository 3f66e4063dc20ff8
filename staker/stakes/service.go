// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/storage"
)

var (
	slotAccounts = dao.Blake2b([]byte("accounts"))
	slotSlashed  = dao.Blake2b([]byte("slashed"))
)

// Service stores stake accounts and the global slashed flags.
type Service struct {
	accounts *storage.Mapping[Key, *Account]
	slashed  *storage.Mapping[dao.Address, bool]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		accounts: storage.NewMapping[Key, *Account](sctx, slotAccounts),
		slashed:  storage.NewMapping[dao.Address, bool](sctx, slotSlashed),
	}
}

// Get returns the account, an empty one if owner never staked in purpose.
func (s *Service) Get(owner dao.Address, purpose dao.Purpose) (*Account, error) {
	key := Key{owner, purpose}
	acc, err := s.accounts.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake account")
	}
	acc.normalize(key)
	return acc, nil
}

func (s *Service) Set(acc *Account) error {
	return s.accounts.Set(Key{acc.Owner, acc.Purpose}, acc)
}

// IsSlashed reports the permanent slashed flag of owner.
func (s *Service) IsSlashed(owner dao.Address) (bool, error) {
	return s.slashed.Get(owner)
}

// MarkSlashed sets the permanent slashed flag of owner.
func (s *Service) MarkSlashed(owner dao.Address) error {
	return s.slashed.Set(owner, true)
}
