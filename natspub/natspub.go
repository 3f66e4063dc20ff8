// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package natspub forwards committed ledger records to NATS for external indexers.
package natspub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/events"
	"github.com/dao-ledger/stakerep/metrics"
)

var (
	logger = log.New("pkg", "natspub")

	metricPublished = metrics.LazyLoadCounterVec("natspub_published_count", []string{"result"})
)

// DefaultSubjectPrefix prefixes the subject of every published record.
const DefaultSubjectPrefix = "stakerep"

// Conn is the part of a NATS connection the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Source delivers committed records.
type Source interface {
	SubscribeRecords(ch chan<- *events.Record) event.Subscription
}

// Config holds the NATS connection settings.
type Config struct {
	URL            string
	ConnectionName string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	// MaxRetryTime bounds the retries of one publish.
	MaxRetryTime time.Duration
}

// Publisher publishes records to subject <prefix>.<record name>.
type Publisher struct {
	conn         Conn
	prefix       string
	maxRetryTime time.Duration
}

// Connect dials NATS and returns a publisher over the connection.
func Connect(cfg Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("disconnected from NATS", "err", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "connect to NATS")
	}
	p := New(nc, cfg.SubjectPrefix)
	if cfg.MaxRetryTime > 0 {
		p.maxRetryTime = cfg.MaxRetryTime
	}
	return p, nil
}

// New creates a publisher over conn.
func New(conn Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{conn: conn, prefix: prefix, maxRetryTime: time.Minute}
}

// Subject returns the subject a record with the given name is published to.
func (p *Publisher) Subject(name string) string {
	return p.prefix + "." + name
}

// Publish sends one record, retrying with exponential backoff.
func (p *Publisher) Publish(ctx context.Context, rec *events.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "encode record %d", rec.Seq)
	}
	subject := p.Subject(rec.Name)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = p.maxRetryTime

	attempts := 0
	operation := func() error {
		err := p.conn.Publish(subject, data)
		if errors.Is(err, nats.ErrConnectionClosed) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		attempts++
		logger.Warn("publish failed, retrying", "subject", subject, "seq", rec.Seq, "attempt", attempts, "next", next, "err", err)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		metricPublished().AddWithLabel(1, map[string]string{"result": "failed"})
		return errors.Wrapf(err, "publish record %d after %d attempts", rec.Seq, attempts+1)
	}
	metricPublished().AddWithLabel(1, map[string]string{"result": "success"})
	return nil
}

// Run publishes every record delivered by source until ctx is done.
// A record that cannot be published is logged and skipped.
func (p *Publisher) Run(ctx context.Context, source Source) error {
	ch := make(chan *events.Record, 256)
	sub := source.SubscribeRecords(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case rec := <-ch:
			if err := p.Publish(ctx, rec); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("dropping record", "seq", rec.Seq, "err", err)
			}
		}
	}
}

// Close closes the connection.
func (p *Publisher) Close() {
	p.conn.Close()
}
