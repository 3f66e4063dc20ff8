// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/events"
)

const catchUpPage = 500

// Source is where the indexer reads committed records from.
type Source interface {
	Records(from uint64, limit int) ([]*events.Record, error)
	SubscribeRecords(ch chan<- *events.Record) event.Subscription
}

// Indexer copies records from a source into the db, catching up on anything
// committed while it was not running.
type Indexer struct {
	db     *EventDB
	source Source
	last   uint64
}

func NewIndexer(db *EventDB, source Source) *Indexer {
	return &Indexer{db: db, source: source}
}

// Run indexes until ctx is done or the subscription fails.
func (ix *Indexer) Run(ctx context.Context) error {
	ch := make(chan *events.Record, catchUpPage)
	sub := ix.source.SubscribeRecords(ch)
	defer sub.Unsubscribe()

	last, err := ix.db.LatestSeq(ctx)
	if err != nil {
		return errors.Wrap(err, "read latest seq")
	}
	ix.last = last
	if err := ix.catchUp(); err != nil {
		return err
	}
	logger.Info("event indexer started", "seq", ix.last)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case rec := <-ch:
			if rec.Seq <= ix.last {
				continue
			}
			if rec.Seq > ix.last+1 {
				if err := ix.catchUp(); err != nil {
					return err
				}
				continue
			}
			if err := ix.db.Insert([]*events.Record{rec}); err != nil {
				return errors.Wrapf(err, "insert record %d", rec.Seq)
			}
			ix.last = rec.Seq
		}
	}
}

func (ix *Indexer) catchUp() error {
	for {
		recs, err := ix.source.Records(ix.last+1, catchUpPage)
		if err != nil {
			return errors.Wrap(err, "read records")
		}
		if len(recs) == 0 {
			return nil
		}
		if err := ix.db.Insert(recs); err != nil {
			return errors.Wrap(err, "insert records")
		}
		ix.last = recs[len(recs)-1].Seq
		logger.Debug("indexed records", "to", ix.last)
	}
}
