// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reputation

import "math/big"

// Deltas collaborating subsystems feed into Update.
const (
	CreationReward            int64 = 100
	ContributionReward        int64 = 50
	LargeContributionBonus    int64 = 100
	SuccessfulCompletionBonus int64 = 500
)

// Reason codes used with the trigger deltas.
const (
	ReasonCreation     = "creation"
	ReasonContribution = "contribution"
	ReasonCompletion   = "completion"
)

// Trigger is a reputation change requested by another subsystem.
type Trigger struct {
	Delta  int64
	Reason string
}

// OnCreation is the change for creating an organization or proposal.
func OnCreation() Trigger {
	return Trigger{CreationReward, ReasonCreation}
}

// OnContribution is the change for a contribution of amount, with the
// bonus applied when amount exceeds largeThreshold.
func OnContribution(amount, largeThreshold *big.Int) Trigger {
	delta := ContributionReward
	if largeThreshold != nil && amount.Cmp(largeThreshold) > 0 {
		delta += LargeContributionBonus
	}
	return Trigger{delta, ReasonContribution}
}

// OnCompletion is the change for a successfully completed effort.
func OnCompletion() Trigger {
	return Trigger{SuccessfulCompletionBonus, ReasonCompletion}
}
