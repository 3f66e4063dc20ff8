// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package authority keeps the capability registry privileged operations are checked against.
package authority

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/reverts"
	"github.com/dao-ledger/stakerep/storage"
)

var logger = log.New("pkg", "authority")

// Capability is a privilege that can be granted to an account.
type Capability uint8

const (
	Admin Capability = iota + 1
	Slasher
	RewardDistributor
	ReputationManager
)

// Capabilities lists every capability.
var Capabilities = []Capability{Admin, Slasher, RewardDistributor, ReputationManager}

func (c Capability) String() string {
	switch c {
	case Admin:
		return "admin"
	case Slasher:
		return "slasher"
	case RewardDistributor:
		return "reward_distributor"
	case ReputationManager:
		return "reputation_manager"
	default:
		return fmt.Sprintf("capability(%d)", uint8(c))
	}
}

func (c Capability) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Capability) UnmarshalText(input []byte) error {
	parsed, err := ParseCapability(string(input))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCapability parses a capability by name.
func ParseCapability(s string) (Capability, error) {
	for _, c := range Capabilities {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}

// Token is presented by a caller to exercise a capability.
type Token struct {
	Holder     dao.Address
	Capability Capability
}

type grantKey struct {
	holder     dao.Address
	capability Capability
}

func (k grantKey) Bytes() []byte {
	return append(k.holder.Bytes(), byte(k.capability))
}

var slotGrants = dao.Blake2b([]byte("grants"))

// Registry stores which holder owns which capabilities.
type Registry struct {
	grants *storage.Mapping[grantKey, bool]
}

func New(sctx *storage.Context) *Registry {
	return &Registry{
		grants: storage.NewMapping[grantKey, bool](sctx, slotGrants),
	}
}

func (r *Registry) Has(holder dao.Address, c Capability) (bool, error) {
	return r.grants.Get(grantKey{holder, c})
}

// Check validates tok against the registry for an operation requiring want.
func (r *Registry) Check(tok Token, want Capability) error {
	if tok.Capability != want {
		return reverts.Newf(reverts.Unauthorized, "%v capability required, %v presented", want, tok.Capability)
	}
	ok, err := r.Has(tok.Holder, want)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Newf(reverts.Unauthorized, "%v does not hold %v", tok.Holder, want)
	}
	return nil
}

// Seed grants without a check, only for genesis.
func (r *Registry) Seed(holder dao.Address, c Capability) error {
	return r.grants.Set(grantKey{holder, c}, true)
}

// Grant gives holder the capability. Requires an Admin token.
func (r *Registry) Grant(by Token, holder dao.Address, c Capability) error {
	if err := r.Check(by, Admin); err != nil {
		return err
	}
	if err := validCapability(c); err != nil {
		return err
	}
	logger.Info("capability granted", "holder", holder, "capability", c, "by", by.Holder)
	return r.grants.Set(grantKey{holder, c}, true)
}

// Revoke removes the capability from holder. Requires an Admin token.
// An admin may not revoke its own Admin capability, so the registry never ends up without one.
func (r *Registry) Revoke(by Token, holder dao.Address, c Capability) error {
	if err := r.Check(by, Admin); err != nil {
		return err
	}
	if err := validCapability(c); err != nil {
		return err
	}
	if c == Admin && holder == by.Holder {
		return reverts.New(reverts.Unauthorized, "admin cannot revoke itself")
	}
	logger.Info("capability revoked", "holder", holder, "capability", c, "by", by.Holder)
	r.grants.Delete(grantKey{holder, c})
	return nil
}

func validCapability(c Capability) error {
	for _, known := range Capabilities {
		if c == known {
			return nil
		}
	}
	return reverts.Newf(reverts.Unauthorized, "unknown capability %d", uint8(c))
}
