// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unstake

import (
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
)

// Terms are the withdrawal rules a strategy implies.
type Terms struct {
	Delay      uint64 // seconds between request and unlock
	PenaltyBps uint64 // taken from the principal on processing
	BonusBps   uint64 // added to claimed rewards
}

// TermsOf returns the terms of s.
func TermsOf(s dao.Strategy) (Terms, error) {
	switch s {
	case dao.RageQuit:
		return Terms{Delay: 0, PenaltyBps: dao.RageQuitPenaltyBps}, nil
	case dao.Standard:
		return Terms{Delay: dao.StandardUnlockDelay}, nil
	case dao.Patient:
		return Terms{Delay: dao.PatientUnlockDelay, BonusBps: dao.PatientBonusBps}, nil
	default:
		return Terms{}, reverts.Newf(reverts.UnknownStrategy, "strategy %d", uint8(s))
	}
}
