// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial ledger: pools, capability holders and the
// custody and treasury accounts.
package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
)

// Genesis is the initial configuration of a ledger.
type Genesis struct {
	LaunchTime uint64      `yaml:"launchTime"`
	Custody    dao.Address `yaml:"custody"`
	Treasury   dao.Address `yaml:"treasury"`
	Pools      []Pool      `yaml:"pools"`
	Authority  []Authority `yaml:"authority"`
	// Accounts are only funded when the ledger runs against the in-memory token.
	Accounts []Account `yaml:"accounts"`
	// LargeContribution is the contribution size in whole tokens above which
	// the contribution reputation bonus applies. Zero disables the bonus.
	LargeContribution uint64 `yaml:"largeContribution"`
}

// Pool is the initial configuration of one purpose pool.
type Pool struct {
	Purpose       dao.Purpose `yaml:"purpose"`
	RewardRateBps uint64      `yaml:"rewardRateBps"`
}

// Authority lists the capabilities granted to a holder.
type Authority struct {
	Holder       dao.Address            `yaml:"holder"`
	Capabilities []authority.Capability `yaml:"capabilities"`
}

// Account is a solo mode balance, in whole tokens.
type Account struct {
	Address dao.Address `yaml:"address"`
	Balance uint64      `yaml:"balance"`
}

// DefaultRates are the reward rates used for pools a genesis leaves out.
var DefaultRates = map[dao.Purpose]uint64{
	dao.Governance:      500,
	dao.DAOCreation:     300,
	dao.TreasuryBond:    800,
	dao.LiquidityMining: 1000,
}

// Load reads a YAML genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks the genesis and fills in a pool for every purpose left out.
func (g *Genesis) Validate() error {
	if g.Treasury.IsZero() {
		return errors.New("treasury must be set")
	}
	if g.Custody.IsZero() {
		return errors.New("custody must be set")
	}
	if g.Custody == g.Treasury {
		return errors.New("custody and treasury must differ")
	}

	seen := make(map[dao.Purpose]bool)
	for _, p := range g.Pools {
		if !p.Purpose.Valid() {
			return fmt.Errorf("unknown purpose %v", p.Purpose)
		}
		if seen[p.Purpose] {
			return fmt.Errorf("duplicate pool %v", p.Purpose)
		}
		if p.RewardRateBps > dao.MaxRewardRateBps {
			return fmt.Errorf("%v: reward rate %d above %d", p.Purpose, p.RewardRateBps, dao.MaxRewardRateBps)
		}
		seen[p.Purpose] = true
	}
	for _, purpose := range dao.Purposes {
		if !seen[purpose] {
			g.Pools = append(g.Pools, Pool{purpose, DefaultRates[purpose]})
		}
	}

	hasAdmin := false
	for _, a := range g.Authority {
		if a.Holder.IsZero() {
			return errors.New("authority holder must be set")
		}
		for _, c := range a.Capabilities {
			if c == authority.Admin {
				hasAdmin = true
			}
		}
	}
	if !hasAdmin {
		return errors.New("at least one admin is required")
	}
	return nil
}

// LargeContributionThreshold returns the threshold in base units, nil when disabled.
func (g *Genesis) LargeContributionThreshold() *big.Int {
	if g.LargeContribution == 0 {
		return nil
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(g.LargeContribution), dao.TokenUnit)
}
