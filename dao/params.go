// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dao

import "math/big"

// Ledger wide constants.
const (
	BpsDenominator   = 10_000
	MaxRewardRateBps = 1_000

	SecondsPerDay  = uint64(24 * 60 * 60)
	SecondsPerYear = 365 * SecondsPerDay

	StandardUnlockDelay = 7 * SecondsPerDay
	PatientUnlockDelay  = 30 * SecondsPerDay
	RageQuitPenaltyBps  = 2_000
	PatientBonusBps     = 500

	BaselineReputation = uint64(1_000)
	MaxReputation      = uint64(1_000_000)
	// ReputationMultiplierBase is the reputation at which voting weight is unscaled.
	ReputationMultiplierBase = BaselineReputation
)

var (
	// TokenUnit is one whole token in base units, also the minimum stake.
	TokenUnit = big.NewInt(1e18)
	// MinStake the smallest amount accepted by stake.
	MinStake = new(big.Int).Set(TokenUnit)
)

// Tokens returns n whole tokens in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), TokenUnit)
}
