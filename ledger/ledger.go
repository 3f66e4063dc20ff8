// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger is the command surface of the staking and reputation ledger.
//
// Every command is one atomic transition: it runs inside a state checkpoint,
// its token transfers are validated before any of them executes, and it is
// either committed in full together with its event records or reverted.
package ledger

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/asset"
	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/genesis"
	"github.com/dao-ledger/stakerep/kv"
	"github.com/dao-ledger/stakerep/reputation"
	"github.com/dao-ledger/stakerep/reverts"
	"github.com/dao-ledger/stakerep/staker"
	"github.com/dao-ledger/stakerep/state"
	"github.com/dao-ledger/stakerep/storage"
	"github.com/dao-ledger/stakerep/voting"
)

var logger = log.New("pkg", "ledger")

// Storage namespaces of the components.
var (
	StakerAddress     = dao.BytesToAddress([]byte("Staker"))
	ReputationAddress = dao.BytesToAddress([]byte("Reputation"))
	VotingAddress     = dao.BytesToAddress([]byte("Voting"))
	AuthorityAddress  = dao.BytesToAddress([]byte("Authority"))
	LedgerAddress     = dao.BytesToAddress([]byte("Ledger"))
)

var (
	slotInitialized = dao.Blake2b([]byte("initialized"))
	slotSeq         = dao.Blake2b([]byte("seq"))
	slotClock       = dao.Blake2b([]byte("clock"))
	slotRecords     = dao.Blake2b([]byte("records"))
)

// MaxRecordsLimit caps a single Records query.
const MaxRecordsLimit = 1000

type seqKey uint64

func (k seqKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Options tunes the ledger.
type Options struct {
	StateCacheSize int
}

// Ledger serialises every operation on the underlying components.
type Ledger struct {
	mu    sync.Mutex
	state *state.State
	token asset.Token

	treasury          dao.Address
	largeContribution *big.Int

	staker     *staker.Staker
	reputation *reputation.Ledger
	graph      *voting.Graph
	voting     *voting.Calculator
	authority  *authority.Registry

	initialized *storage.Raw[bool]
	seqSlot     *storage.Raw[uint64]
	clockSlot   *storage.Raw[uint64]
	records     *storage.Mapping[seqKey, []byte]

	seq   uint64
	clock uint64
	feed  events.Feed
}

// New opens the ledger stored in db, applying gen when db is empty.
func New(db kv.Store, token asset.Token, gen *genesis.Genesis, opts Options) (*Ledger, error) {
	if token.Custody() != gen.Custody {
		return nil, errors.Errorf("token custody %v does not match genesis custody %v", token.Custody(), gen.Custody)
	}
	st, err := state.New(db, opts.StateCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "open state")
	}

	meta := storage.NewContext(LedgerAddress, st)
	l := &Ledger{
		state:             st,
		token:             token,
		treasury:          gen.Treasury,
		largeContribution: gen.LargeContributionThreshold(),
		staker:            staker.New(storage.NewContext(StakerAddress, st)),
		reputation:        reputation.New(storage.NewContext(ReputationAddress, st)),
		graph:             voting.NewGraph(storage.NewContext(VotingAddress, st)),
		authority:         authority.New(storage.NewContext(AuthorityAddress, st)),
		initialized:       storage.NewRaw[bool](meta, slotInitialized),
		seqSlot:           storage.NewRaw[uint64](meta, slotSeq),
		clockSlot:         storage.NewRaw[uint64](meta, slotClock),
		records:           storage.NewMapping[seqKey, []byte](meta, slotRecords),
	}
	l.voting = voting.NewCalculator(l.reputation, governanceStake{l.staker}, l.graph)

	initialized, err := l.initialized.Get()
	if err != nil {
		return nil, errors.Wrap(err, "read ledger metadata")
	}
	if l.seq, err = l.seqSlot.Get(); err != nil {
		return nil, errors.Wrap(err, "read ledger metadata")
	}
	if l.clock, err = l.clockSlot.Get(); err != nil {
		return nil, errors.Wrap(err, "read ledger metadata")
	}

	if !initialized {
		if err := l.applyGenesis(gen); err != nil {
			return nil, errors.Wrap(err, "apply genesis")
		}
		logger.Info("ledger initialized", "pools", len(gen.Pools), "authorities", len(gen.Authority))
	} else {
		logger.Info("ledger opened", "seq", l.seq, "clock", l.clock)
	}
	l.refreshPoolGauges()
	return l, nil
}

func (l *Ledger) applyGenesis(gen *genesis.Genesis) error {
	return l.exec("genesis", gen.LaunchTime, func(tx *txn) error {
		for _, p := range gen.Pools {
			created, err := l.staker.CreatePool(p.Purpose, p.RewardRateBps, tx.now)
			if err != nil {
				return err
			}
			if created {
				tx.emit(&events.PoolCreated{Purpose: p.Purpose, RewardRateBps: p.RewardRateBps})
			}
		}
		for _, a := range gen.Authority {
			for _, c := range a.Capabilities {
				if err := l.authority.Seed(a.Holder, c); err != nil {
					return err
				}
				tx.emit(&events.CapabilityChanged{Holder: a.Holder, Capability: c.String(), Granted: true})
			}
		}
		return l.initialized.Set(true)
	})
}

// Close unsubscribes every record subscriber.
func (l *Ledger) Close() {
	l.feed.Close()
}

// Treasury is the account receiving penalties and slashed stake.
func (l *Ledger) Treasury() dao.Address {
	return l.treasury
}

// Clock is the latest time the ledger has seen.
func (l *Ledger) Clock() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clock
}

// Seq is the sequence number of the latest committed record.
func (l *Ledger) Seq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// SubscribeRecords delivers every record committed after the call to ch, in
// sequence order. Delivery is asynchronous and may include records committed
// just before the call.
func (l *Ledger) SubscribeRecords(ch chan<- *events.Record) event.Subscription {
	return l.feed.Subscribe(ch)
}

// Records returns up to limit committed records starting at sequence number from.
func (l *Ledger) Records(from uint64, limit int) ([]*events.Record, error) {
	if limit <= 0 || limit > MaxRecordsLimit {
		limit = MaxRecordsLimit
	}
	if from == 0 {
		from = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*events.Record
	for seq := from; seq <= l.seq && len(out) < limit; seq++ {
		raw, err := l.records.Get(seqKey(seq))
		if err != nil {
			return nil, errors.Wrap(err, "failed to get record")
		}
		var rec events.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode record %d", seq)
		}
		out = append(out, &rec)
	}
	return out, nil
}

// view runs a read-only query under the ledger lock.
func (l *Ledger) view(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// at returns the time a query observes.
func (l *Ledger) at(now uint64) uint64 {
	if now < l.clock {
		return l.clock
	}
	return now
}

type governanceStake struct {
	staker *staker.Staker
}

func (g governanceStake) GovernanceStake(member dao.Address) (*big.Int, error) {
	acc, err := g.staker.Account(member, dao.Governance)
	if err != nil {
		return nil, err
	}
	return acc.Amount, nil
}

func resultOf(err error) string {
	if err == nil {
		return "success"
	}
	if kind, ok := reverts.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}
