// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
)

// GrantCapability gives holder the capability. Requires Admin.
func (l *Ledger) GrantCapability(tok authority.Token, holder dao.Address, c authority.Capability, now uint64) error {
	return l.exec("grant", now, func(tx *txn) error {
		if err := l.authority.Grant(tok, holder, c); err != nil {
			return err
		}
		tx.emit(&events.CapabilityChanged{Holder: holder, Capability: c.String(), Granted: true, By: tok.Holder})
		return nil
	})
}

// RevokeCapability takes the capability from holder. Requires Admin.
func (l *Ledger) RevokeCapability(tok authority.Token, holder dao.Address, c authority.Capability, now uint64) error {
	return l.exec("revoke", now, func(tx *txn) error {
		if err := l.authority.Revoke(tok, holder, c); err != nil {
			return err
		}
		tx.emit(&events.CapabilityChanged{Holder: holder, Capability: c.String(), Granted: false, By: tok.Holder})
		return nil
	})
}

// HasCapability reports whether holder owns the capability.
func (l *Ledger) HasCapability(holder dao.Address, c authority.Capability) (ok bool, err error) {
	err = l.view(func() error {
		ok, err = l.authority.Has(holder, c)
		return err
	})
	return
}
