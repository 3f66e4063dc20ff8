// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/eventdb"
	"github.com/dao-ledger/stakerep/events"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

var (
	alice = dao.BytesToAddress([]byte("alice"))
	bob   = dao.BytesToAddress([]byte("bob"))
	org   = dao.OrgIDFromName("alpha")
)

func sampleRecords(from, n uint64) []*events.Record {
	var recs []*events.Record
	for seq := from; seq < from+n; seq++ {
		var ev events.Event
		switch seq % 3 {
		case 0:
			ev = &events.Staked{Owner: alice, Purpose: dao.Governance, Amount: big.NewInt(int64(seq)), Strategy: dao.Standard}
		case 1:
			ev = &events.Staked{Owner: bob, Purpose: dao.TreasuryBond, Amount: big.NewInt(int64(seq)), Strategy: dao.Patient}
		default:
			ev = &events.ReputationChanged{Org: org, Member: alice, Kind: "reputation", Delta: 5, ReasonCode: "test"}
		}
		recs = append(recs, events.NewRecord(seq, 1000+seq, ev))
	}
	return recs
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	latest, err := db.LatestSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), latest)

	require.NoError(t, db.Insert(sampleRecords(1, 30)))
	latest, err = db.LatestSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), latest)

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 30)

	tests := []struct {
		name   string
		filter *eventdb.Filter
		want   []uint64
	}{
		{
			name:   "seq range",
			filter: &eventdb.Filter{Range: &eventdb.Range{Unit: eventdb.Seq, From: 5, To: 7}},
			want:   []uint64{5, 6, 7},
		},
		{
			name:   "time range open ended",
			filter: &eventdb.Filter{Range: &eventdb.Range{Unit: eventdb.Time, From: 1028}},
			want:   []uint64{28, 29, 30},
		},
		{
			name:   "by account and name",
			filter: &eventdb.Filter{Account: &bob, Names: []string{"Staked"}, Range: &eventdb.Range{Unit: eventdb.Seq, From: 1, To: 10}},
			want:   []uint64{1, 4, 7, 10},
		},
		{
			name:   "by org descending with limit",
			filter: &eventdb.Filter{Org: &org, Order: eventdb.DESC, Options: &eventdb.Options{Offset: 1, Limit: 2}},
			want:   []uint64{26, 23},
		},
		{
			name:   "several names",
			filter: &eventdb.Filter{Names: []string{"Staked", "ReputationChanged"}, Options: &eventdb.Options{Limit: 3}},
			want:   []uint64{1, 2, 3},
		},
		{
			name:   "no match",
			filter: &eventdb.Filter{Names: []string{"Slashed"}},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := db.Filter(ctx, tt.filter)
			require.NoError(t, err)
			var got []uint64
			for _, r := range recs {
				got = append(got, r.Seq)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	staked, ok := all[0].Event.(*events.Staked)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1), staked.Amount)
	assert.Equal(t, dao.Patient, staked.Strategy)
}

func TestEventDBOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(sampleRecords(1, 3)))
	db.Close()

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	latest, err := db.LatestSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), latest)
}

type memSource struct {
	mu      sync.Mutex
	records []*events.Record
	feed    event.Feed
}

func (s *memSource) Records(from uint64, limit int) ([]*events.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*events.Record
	for _, r := range s.records {
		if r.Seq >= from && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memSource) SubscribeRecords(ch chan<- *events.Record) event.Subscription {
	return s.feed.Subscribe(ch)
}

func (s *memSource) commit(recs []*events.Record) {
	s.mu.Lock()
	s.records = append(s.records, recs...)
	s.mu.Unlock()
	for _, r := range recs {
		s.feed.Send(r)
	}
}

func TestIndexer(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	// committed before the indexer starts
	source := &memSource{records: sampleRecords(1, 10)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- eventdb.NewIndexer(db, source).Run(ctx)
	}()

	assert.Eventually(t, func() bool {
		latest, err := db.LatestSeq(ctx)
		return err == nil && latest == 10
	}, 5*time.Second, 10*time.Millisecond)

	source.commit(sampleRecords(11, 5))
	assert.Eventually(t, func() bool {
		latest, err := db.LatestSeq(ctx)
		return err == nil && latest == 15
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 15)
}
