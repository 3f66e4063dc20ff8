// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb keeps a queryable copy of the ledger records in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/metrics"
)

var (
	logger = log.New("pkg", "eventdb")

	metricInsertedRecords = metrics.LazyLoadCounter("eventdb_inserted_records_count")
	metricQueryLimit      = metrics.LazyLoadHistogramVec("eventdb_query_limit_bucket", []string{"order"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

// EventDB stores committed records.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open an event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would get its own database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(recordTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() {
	db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Insert stores records, replacing any with the same sequence number.
func (db *EventDB) Insert(records []*events.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "encode record %d", rec.Seq)
		}
		if _, err := tx.Exec("INSERT OR REPLACE INTO record(seq, name, time, account, org, data) VALUES (?, ?, ?, ?, ?, ?)",
			rec.Seq,
			rec.Name,
			rec.Time,
			addressValue(rec.Account),
			orgValue(rec.Org),
			string(data),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricInsertedRecords().Add(int64(len(records)))
	return nil
}

// LatestSeq returns the highest stored sequence number, 0 if empty.
func (db *EventDB) LatestSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM record").Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

// Filter returns the records matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*events.Record, error) {
	if filter == nil {
		return db.query(ctx, "SELECT data FROM record ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT data FROM record WHERE 1"
	if filter.Range != nil {
		condition := "seq"
		if filter.Range.Unit == Time {
			condition = "time"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ?"
		}
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (?" + strings.Repeat(", ?", len(filter.Names)-1) + ")"
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ?"
	}
	if filter.Org != nil {
		args = append(args, filter.Org.Bytes())
		stmt += " AND org = ?"
	}

	order := ASC
	if filter.Order == DESC {
		order = DESC
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
		metricQueryLimit().ObserveWithLabels(int64(filter.Options.Limit), map[string]string{"order": string(order)})
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*events.Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*events.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec events.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			logger.Warn("skipping undecodable record", "err", err)
			continue
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func addressValue(addr dao.Address) []byte {
	if addr.IsZero() {
		return nil
	}
	return addr.Bytes()
}

func orgValue(org dao.OrgID) []byte {
	if org.IsZero() {
		return nil
	}
	return org.Bytes()
}
