// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(PoolInactive, "pool is not active")
	assert.Equal(t, "pool is not active", revert.Message())
	assert.Equal(t, "PoolInactive: pool is not active", revert.Error())
	assert.Equal(t, PoolInactive, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_KindOf(t *testing.T) {
	wrapped := errors.WithMessage(Newf(RequestNotReady, "unlocks at %d", 42), "process unstake")

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, RequestNotReady, kind)
	assert.True(t, Is(wrapped, RequestNotReady))
	assert.False(t, Is(wrapped, RequestNotFound))

	_, ok = KindOf(errors.New("io"))
	assert.False(t, ok)

	assert.Equal(t, "Kind(200)", Kind(200).String())
	for k := AmountTooSmall; k <= InsufficientVotingPower; k++ {
		assert.NotContains(t, k.String(), "Kind(")
	}
}
