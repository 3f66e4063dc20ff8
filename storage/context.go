// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/state"
)

// Context binds typed storage to one namespace of the ledger state.
type Context struct {
	address dao.Address
	state   *state.State
}

func NewContext(address dao.Address, state *state.State) *Context {
	return &Context{address: address, state: state}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() dao.Address {
	return c.address
}
