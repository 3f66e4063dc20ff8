// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
)

// Clock returns the current time in unix seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// ParseAddress parses the named path variable as an address.
func ParseAddress(req *http.Request, name string) (dao.Address, error) {
	addr, err := dao.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return dao.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// ParsePurpose parses the named path variable as a pool purpose.
func ParsePurpose(req *http.Request, name string) (dao.Purpose, error) {
	purpose, err := dao.ParsePurpose(mux.Vars(req)[name])
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return purpose, nil
}

// ParseOrg parses the named path variable as an organization.
// A 0x prefixed value is taken as the raw id, anything else as the organization name.
func ParseOrg(req *http.Request, name string) (dao.OrgID, error) {
	s := mux.Vars(req)[name]
	if s == "" {
		return dao.OrgID{}, BadRequest(errors.Errorf("%s: empty", name))
	}
	return OrgOf(s)
}

// OrgOf converts an organization id or name into an OrgID.
func OrgOf(s string) (dao.OrgID, error) {
	if strings.HasPrefix(s, "0x") {
		id, err := dao.ParseBytes32(s)
		if err != nil {
			return dao.OrgID{}, BadRequest(errors.WithMessage(err, "org"))
		}
		return id, nil
	}
	return dao.OrgIDFromName(s), nil
}

// Amount converts a required JSON amount into a big integer.
func Amount(v *math.HexOrDecimal256) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.New("amount: missing"))
	}
	return new(big.Int).Set((*big.Int)(v)), nil
}

// JSONAmount converts a big integer into its JSON form.
func JSONAmount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

// RequireCaller rejects a request made by caller on behalf of another account.
// The caller is taken from the request body and is not authenticated, so the
// API must only be reachable by trusted clients.
func RequireCaller(caller, account dao.Address) error {
	if caller != account {
		return Forbidden(errors.Errorf("caller %v may not act for %v", caller, account))
	}
	return nil
}
