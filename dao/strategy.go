// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dao

import (
	"fmt"
	"strings"
)

// Strategy is the unstaking behaviour chosen by a staker.
type Strategy uint8

const (
	RageQuit Strategy = iota
	Standard
	Patient
)

// Strategies lists every strategy.
var Strategies = []Strategy{RageQuit, Standard, Patient}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case RageQuit, Standard, Patient:
		return true
	default:
		return false
	}
}

func (s Strategy) String() string {
	switch s {
	case RageQuit:
		return "rage_quit"
	case Standard:
		return "standard"
	case Patient:
		return "patient"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown strategy %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a strategy name.
func (s *Strategy) UnmarshalText(input []byte) error {
	parsed, err := ParseStrategy(string(input))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy parses a strategy by name, case insensitive.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}
