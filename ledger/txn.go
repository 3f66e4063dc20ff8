// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/reverts"
)

type transfer struct {
	addr   dao.Address
	amount *big.Int
}

// txn collects the side effects of one operation until it commits.
type txn struct {
	now    uint64
	ins    []transfer
	outs   []transfer
	events []events.Event
}

// pull moves amount from an owner into custody.
func (tx *txn) pull(from dao.Address, amount *big.Int) {
	if amount.Sign() > 0 {
		tx.ins = append(tx.ins, transfer{from, new(big.Int).Set(amount)})
	}
}

// pay moves amount out of custody.
func (tx *txn) pay(to dao.Address, amount *big.Int) {
	if amount.Sign() > 0 {
		tx.outs = append(tx.outs, transfer{to, new(big.Int).Set(amount)})
	}
}

func (tx *txn) emit(ev events.Event) {
	tx.events = append(tx.events, ev)
}

// exec runs fn as one atomic transition at now, or at the ledger clock if now is older.
func (l *Ledger) exec(op string, now uint64, fn func(tx *txn) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &txn{now: l.at(now)}
	rev := l.state.NewCheckpoint()

	records, err := l.apply(tx, fn)
	if err != nil {
		l.state.RevertTo(rev)
		metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": resultOf(err)})
		if reverts.IsRevertErr(err) {
			logger.Debug("operation rejected", "op", op, "err", err)
		} else {
			logger.Warn("operation failed", "op", op, "err", err)
		}
		return err
	}

	l.seq += uint64(len(records))
	l.clock = tx.now
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": resultOf(nil)})
	l.refreshPoolGauges()
	// queued only, consumers may read the ledger back while handling them
	l.feed.Send(records)
	return nil
}

func (l *Ledger) apply(tx *txn, fn func(tx *txn) error) ([]*events.Record, error) {
	if err := fn(tx); err != nil {
		return nil, err
	}
	if err := l.checkTransfers(tx); err != nil {
		return nil, err
	}

	records := make([]*events.Record, 0, len(tx.events))
	for i, ev := range tx.events {
		rec := events.NewRecord(l.seq+uint64(i)+1, tx.now, ev)
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", rec.Name)
		}
		if err := l.records.Set(seqKey(rec.Seq), data); err != nil {
			return nil, errors.Wrap(err, "failed to append record")
		}
		records = append(records, rec)
	}
	if err := l.seqSlot.Set(l.seq + uint64(len(records))); err != nil {
		return nil, errors.Wrap(err, "failed to set seq")
	}
	if err := l.clockSlot.Set(tx.now); err != nil {
		return nil, errors.Wrap(err, "failed to set clock")
	}

	if err := l.executeTransfers(tx); err != nil {
		return nil, err
	}
	if err := l.state.Commit(); err != nil {
		logger.Error("state commit failed after transfers", "err", err)
		return nil, errors.Wrap(err, "commit")
	}
	return records, nil
}

// checkTransfers validates every transfer of tx against the token before any executes.
func (l *Ledger) checkTransfers(tx *txn) error {
	custody := l.token.Custody()

	pulled := make(map[dao.Address]*big.Int)
	var order []dao.Address
	for _, t := range tx.ins {
		if sum, ok := pulled[t.addr]; ok {
			sum.Add(sum, t.amount)
			continue
		}
		pulled[t.addr] = new(big.Int).Set(t.amount)
		order = append(order, t.addr)
	}

	inflow := new(big.Int)
	for _, addr := range order {
		amount := pulled[addr]
		allowance, err := l.token.Allowance(addr, custody)
		if err != nil {
			return errors.Wrap(err, "read allowance")
		}
		if allowance.Cmp(amount) < 0 {
			return reverts.Newf(reverts.InsufficientAllowance, "%v allows %v, %v required", addr, allowance, amount)
		}
		balance, err := l.token.BalanceOf(addr)
		if err != nil {
			return errors.Wrap(err, "read balance")
		}
		if balance.Cmp(amount) < 0 {
			return reverts.Newf(reverts.InsufficientBalance, "%v holds %v, %v required", addr, balance, amount)
		}
		inflow.Add(inflow, amount)
	}

	if len(tx.outs) == 0 {
		return nil
	}
	outflow := new(big.Int)
	for _, t := range tx.outs {
		outflow.Add(outflow, t.amount)
	}
	balance, err := l.token.BalanceOf(custody)
	if err != nil {
		return errors.Wrap(err, "read custody balance")
	}
	if available := new(big.Int).Add(balance, inflow); available.Cmp(outflow) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "custody holds %v, %v required", available, outflow)
	}
	return nil
}

func (l *Ledger) executeTransfers(tx *txn) error {
	for i, t := range tx.ins {
		if err := l.token.TransferIn(t.addr, t.amount); err != nil {
			if i > 0 {
				logger.Error("transfer in failed after validation", "from", t.addr, "amount", t.amount, "err", err)
			}
			return err
		}
	}
	for i, t := range tx.outs {
		if err := l.token.TransferOut(t.addr, t.amount); err != nil {
			if i > 0 || len(tx.ins) > 0 {
				logger.Error("transfer out failed after validation", "to", t.addr, "amount", t.amount, "err", err)
			}
			return err
		}
	}
	return nil
}
