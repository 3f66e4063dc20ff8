// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dao

import (
	"fmt"
	"strings"
)

// Purpose names a staking pool.
type Purpose uint8

const (
	Governance Purpose = iota
	DAOCreation
	TreasuryBond
	LiquidityMining
)

// Purposes is the fixed pool catalogue, in creation order.
var Purposes = []Purpose{Governance, DAOCreation, TreasuryBond, LiquidityMining}

// Valid reports whether p is one of the catalogue purposes.
func (p Purpose) Valid() bool {
	switch p {
	case Governance, DAOCreation, TreasuryBond, LiquidityMining:
		return true
	default:
		return false
	}
}

func (p Purpose) String() string {
	switch p {
	case Governance:
		return "governance"
	case DAOCreation:
		return "dao_creation"
	case TreasuryBond:
		return "treasury_bond"
	case LiquidityMining:
		return "liquidity_mining"
	default:
		return fmt.Sprintf("purpose(%d)", uint8(p))
	}
}

// Bytes returns the storage key form.
func (p Purpose) Bytes() []byte {
	return []byte{byte(p)}
}

// MarshalText encodes the purpose by name.
func (p Purpose) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown purpose %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a purpose name.
func (p *Purpose) UnmarshalText(input []byte) error {
	parsed, err := ParsePurpose(string(input))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePurpose parses a purpose by name, case insensitive.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range Purposes {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown purpose %q", s)
}
