// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
)

// DevAccount account for development.
type DevAccount struct {
	Address    dao.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{dao.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet create genesis for solo mode. The first dev account holds every
// capability, the last two act as custody and treasury.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	operator := accs[0].Address

	gen := &Genesis{
		LaunchTime:        1735689600, // 2025-01-01 00:00:00 UTC
		Custody:           accs[len(accs)-2].Address,
		Treasury:          accs[len(accs)-1].Address,
		LargeContribution: 1000,
		Authority: []Authority{{
			Holder:       operator,
			Capabilities: authority.Capabilities,
		}},
	}
	for _, acc := range accs[:len(accs)-2] {
		gen.Accounts = append(gen.Accounts, Account{acc.Address, 1_000_000})
	}
	if err := gen.Validate(); err != nil {
		panic(err)
	}
	return gen
}
