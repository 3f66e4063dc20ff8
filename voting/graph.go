// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voting

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/storage"
)

// Delegation is a directed, organization scoped edge lending voting power.
// Edges are deactivated, never deleted.
type Delegation struct {
	ID            uint64
	Org           dao.OrgID
	Delegator     dao.Address
	Delegatee     dao.Address
	Amount        *big.Int
	Timestamp     uint64
	Active        bool
	UndelegatedAt uint64
}

type idKey uint64

func (k idKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

type memberKey struct {
	org    dao.OrgID
	member dao.Address
}

func (k memberKey) Bytes() []byte {
	return append(k.org.Bytes(), k.member.Bytes()...)
}

type pairKey struct {
	org       dao.OrgID
	delegator dao.Address
	delegatee dao.Address
}

func (k pairKey) Bytes() []byte {
	return append(append(k.org.Bytes(), k.delegator.Bytes()...), k.delegatee.Bytes()...)
}

type listKey struct {
	memberKey
	index uint64
}

func (k listKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.memberKey.Bytes(), k.index)
}

var (
	slotEdges         = dao.Blake2b([]byte("delegation-edges"))
	slotLastID        = dao.Blake2b([]byte("delegation-last-id"))
	slotActive        = dao.Blake2b([]byte("delegation-active"))
	slotAway          = dao.Blake2b([]byte("delegated-away"))
	slotReceived      = dao.Blake2b([]byte("delegated-received"))
	slotOutgoing      = dao.Blake2b([]byte("delegation-outgoing"))
	slotOutgoingCount = dao.Blake2b([]byte("delegation-outgoing-count"))
	slotIncoming      = dao.Blake2b([]byte("delegation-incoming"))
	slotIncomingCount = dao.Blake2b([]byte("delegation-incoming-count"))
)

// Graph stores delegation edges and per member totals.
type Graph struct {
	edges    *storage.Mapping[idKey, *Delegation]
	lastID   *storage.Raw[uint64]
	active   *storage.Mapping[pairKey, uint64]
	away     *storage.Mapping[memberKey, *big.Int]
	received *storage.Mapping[memberKey, *big.Int]

	outgoing      *storage.Mapping[listKey, uint64]
	outgoingCount *storage.Mapping[memberKey, uint64]
	incoming      *storage.Mapping[listKey, uint64]
	incomingCount *storage.Mapping[memberKey, uint64]
}

func NewGraph(sctx *storage.Context) *Graph {
	return &Graph{
		edges:         storage.NewMapping[idKey, *Delegation](sctx, slotEdges),
		lastID:        storage.NewRaw[uint64](sctx, slotLastID),
		active:        storage.NewMapping[pairKey, uint64](sctx, slotActive),
		away:          storage.NewMapping[memberKey, *big.Int](sctx, slotAway),
		received:      storage.NewMapping[memberKey, *big.Int](sctx, slotReceived),
		outgoing:      storage.NewMapping[listKey, uint64](sctx, slotOutgoing),
		outgoingCount: storage.NewMapping[memberKey, uint64](sctx, slotOutgoingCount),
		incoming:      storage.NewMapping[listKey, uint64](sctx, slotIncoming),
		incomingCount: storage.NewMapping[memberKey, uint64](sctx, slotIncomingCount),
	}
}

// Get returns the edge by id, nil if it does not exist.
func (g *Graph) Get(id uint64) (*Delegation, error) {
	d, err := g.edges.Get(idKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegation")
	}
	if d.ID == 0 {
		return nil, nil
	}
	return d, nil
}

// ActiveEdge returns the active edge from delegator to delegatee in org, nil if none.
func (g *Graph) ActiveEdge(org dao.OrgID, delegator, delegatee dao.Address) (*Delegation, error) {
	id, err := g.active.Get(pairKey{org, delegator, delegatee})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active delegation")
	}
	if id == 0 {
		return nil, nil
	}
	return g.Get(id)
}

// DelegatedAway is the total lent out by member in org over active edges.
func (g *Graph) DelegatedAway(org dao.OrgID, member dao.Address) (*big.Int, error) {
	return g.away.Get(memberKey{org, member})
}

// Received is the total lent to member in org over active edges.
func (g *Graph) Received(org dao.OrgID, member dao.Address) (*big.Int, error) {
	return g.received.Get(memberKey{org, member})
}

// Add lends amount from delegator to delegatee, topping up the active edge if one exists.
func (g *Graph) Add(org dao.OrgID, delegator, delegatee dao.Address, amount *big.Int, now uint64) (*Delegation, error) {
	d, err := g.ActiveEdge(org, delegator, delegatee)
	if err != nil {
		return nil, err
	}
	if d == nil {
		id, err := g.lastID.Get()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get last delegation id")
		}
		id++
		if err := g.lastID.Set(id); err != nil {
			return nil, errors.Wrap(err, "failed to set last delegation id")
		}
		d = &Delegation{
			ID:        id,
			Org:       org,
			Delegator: delegator,
			Delegatee: delegatee,
			Amount:    new(big.Int),
			Active:    true,
		}
		if err := g.active.Set(pairKey{org, delegator, delegatee}, id); err != nil {
			return nil, errors.Wrap(err, "failed to set active delegation")
		}
		if err := g.appendList(g.outgoing, g.outgoingCount, memberKey{org, delegator}, id); err != nil {
			return nil, err
		}
		if err := g.appendList(g.incoming, g.incomingCount, memberKey{org, delegatee}, id); err != nil {
			return nil, err
		}
	}
	d.Amount = new(big.Int).Add(d.Amount, amount)
	d.Timestamp = now
	if err := g.edges.Set(idKey(d.ID), d); err != nil {
		return nil, errors.Wrap(err, "failed to set delegation")
	}
	if err := g.adjust(g.away, memberKey{org, delegator}, amount); err != nil {
		return nil, err
	}
	if err := g.adjust(g.received, memberKey{org, delegatee}, amount); err != nil {
		return nil, err
	}
	return d, nil
}

// Deactivate closes the edge and gives its amount back to the delegator.
func (g *Graph) Deactivate(d *Delegation, now uint64) error {
	d.Active = false
	d.UndelegatedAt = now
	if err := g.edges.Set(idKey(d.ID), d); err != nil {
		return errors.Wrap(err, "failed to set delegation")
	}
	g.active.Delete(pairKey{d.Org, d.Delegator, d.Delegatee})

	neg := new(big.Int).Neg(d.Amount)
	if err := g.adjust(g.away, memberKey{d.Org, d.Delegator}, neg); err != nil {
		return err
	}
	return g.adjust(g.received, memberKey{d.Org, d.Delegatee}, neg)
}

// Outgoing lists every edge ever created by member in org.
func (g *Graph) Outgoing(org dao.OrgID, member dao.Address) ([]*Delegation, error) {
	return g.list(g.outgoing, g.outgoingCount, memberKey{org, member})
}

// Incoming lists every edge ever pointed at member in org.
func (g *Graph) Incoming(org dao.OrgID, member dao.Address) ([]*Delegation, error) {
	return g.list(g.incoming, g.incomingCount, memberKey{org, member})
}

func (g *Graph) adjust(m *storage.Mapping[memberKey, *big.Int], key memberKey, delta *big.Int) error {
	v, err := m.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get delegation total")
	}
	return m.Set(key, new(big.Int).Add(v, delta))
}

func (g *Graph) appendList(list *storage.Mapping[listKey, uint64], count *storage.Mapping[memberKey, uint64], key memberKey, id uint64) error {
	n, err := count.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get delegation list length")
	}
	if err := list.Set(listKey{key, n}, id); err != nil {
		return errors.Wrap(err, "failed to append delegation")
	}
	return count.Set(key, n+1)
}

func (g *Graph) list(list *storage.Mapping[listKey, uint64], count *storage.Mapping[memberKey, uint64], key memberKey) ([]*Delegation, error) {
	n, err := count.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegation list length")
	}
	out := make([]*Delegation, 0, n)
	for i := uint64(0); i < n; i++ {
		id, err := list.Get(listKey{key, i})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get delegation id")
		}
		d, err := g.Get(id)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}
