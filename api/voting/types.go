// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voting

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/dao-ledger/stakerep/api/utils"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/voting"
)

type DelegateRequest struct {
	Caller    dao.Address           `json:"caller"`
	Org       string                `json:"org"`
	Delegator dao.Address           `json:"delegator"`
	Delegatee dao.Address           `json:"delegatee"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

// UndelegateRequest names the edge either by ID, with the delegator as caller,
// or by the (delegator, delegatee) pair when ID is absent.
type UndelegateRequest struct {
	Caller    dao.Address `json:"caller"`
	Org       string      `json:"org"`
	Delegator dao.Address `json:"delegator"`
	Delegatee dao.Address `json:"delegatee"`
	ID        *uint64     `json:"id,omitempty"`
}

type Delegation struct {
	ID            uint64                `json:"id"`
	Org           dao.OrgID             `json:"org"`
	Delegator     dao.Address           `json:"delegator"`
	Delegatee     dao.Address           `json:"delegatee"`
	Amount        *math.HexOrDecimal256 `json:"amount"`
	Timestamp     uint64                `json:"timestamp"`
	Active        bool                  `json:"active"`
	UndelegatedAt uint64                `json:"undelegatedAt"`
}

func convertDelegation(d *voting.Delegation) *Delegation {
	return &Delegation{
		ID:            d.ID,
		Org:           d.Org,
		Delegator:     d.Delegator,
		Delegatee:     d.Delegatee,
		Amount:        utils.JSONAmount(d.Amount),
		Timestamp:     d.Timestamp,
		Active:        d.Active,
		UndelegatedAt: d.UndelegatedAt,
	}
}

func convertDelegations(ds []*voting.Delegation) []*Delegation {
	out := make([]*Delegation, 0, len(ds))
	for _, d := range ds {
		out = append(out, convertDelegation(d))
	}
	return out
}

type Power struct {
	Own           *math.HexOrDecimal256 `json:"own"`
	DelegatedAway *math.HexOrDecimal256 `json:"delegatedAway"`
	Received      *math.HexOrDecimal256 `json:"received"`
	Effective     *math.HexOrDecimal256 `json:"effective"`
}

func convertPower(p *voting.Power) *Power {
	return &Power{
		Own:           utils.JSONAmount(p.Own),
		DelegatedAway: utils.JSONAmount(p.DelegatedAway),
		Received:      utils.JSONAmount(p.Received),
		Effective:     utils.JSONAmount(p.Effective),
	}
}

type Delegations struct {
	Outgoing []*Delegation `json:"outgoing"`
	Incoming []*Delegation `json:"incoming"`
}

type Weight struct {
	Base   *math.HexOrDecimal256 `json:"base"`
	Weight *math.HexOrDecimal256 `json:"weight"`
}
