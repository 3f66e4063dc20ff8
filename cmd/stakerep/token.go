// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/asset"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/genesis"
	"github.com/dao-ledger/stakerep/ledger"
)

type recordSource interface {
	Records(from uint64, limit int) ([]*events.Record, error)
}

// newMemToken creates the in-process token, crediting every genesis account
// and approving custody to pull its whole balance.
func newMemToken(gen *genesis.Genesis) *asset.MemToken {
	token := asset.NewMemToken(gen.Custody)
	for _, acc := range gen.Accounts {
		balance := new(big.Int).Mul(new(big.Int).SetUint64(acc.Balance), dao.TokenUnit)
		token.Mint(acc.Address, balance)
		token.Approve(acc.Address, gen.Custody, balance)
	}
	return token
}

// replayTransfers re-executes the token movements of every committed record.
// The in-process token keeps no state of its own, so a persisted ledger is
// reopened with the balances it was closed with.
func replayTransfers(token asset.Token, treasury dao.Address, source recordSource) (uint64, error) {
	var replayed uint64
	for from := uint64(1); ; {
		recs, err := source.Records(from, ledger.MaxRecordsLimit)
		if err != nil {
			return replayed, err
		}
		if len(recs) == 0 {
			return replayed, nil
		}
		for _, rec := range recs {
			if err := replayRecord(token, treasury, rec); err != nil {
				return replayed, errors.Wrapf(err, "replay record %d", rec.Seq)
			}
			replayed++
		}
		from = recs[len(recs)-1].Seq + 1
	}
}

func replayRecord(token asset.Token, treasury dao.Address, rec *events.Record) error {
	switch ev := rec.Event.(type) {
	case *events.Staked:
		return pull(token, ev.Owner, ev.Amount)
	case *events.RewardsDistributed:
		return pull(token, ev.Distributor, ev.Amount)
	case *events.Unstaked:
		if err := pay(token, ev.Owner, ev.Amount); err != nil {
			return err
		}
		return pay(token, treasury, ev.Penalty)
	case *events.RewardsClaimed:
		return pay(token, ev.Owner, ev.Amount)
	case *events.Slashed:
		return pay(token, treasury, ev.Amount)
	}
	return nil
}

func pull(token asset.Token, from dao.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	return token.TransferIn(from, amount)
}

func pay(token asset.Token, to dao.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	return token.TransferOut(to, amount)
}
