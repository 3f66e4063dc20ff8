// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

var logger = log.New("pkg", "co")

// Goes runs and manages the life-cycle of long running services.
// The first service to fail stops all the others.
type Goes struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	once sync.Once
	err  error
}

// NewGoes creates a Goes whose services stop when parent is done.
func NewGoes(parent context.Context) *Goes {
	ctx, cancel := context.WithCancel(parent)
	return &Goes{ctx: ctx, cancel: cancel}
}

// Go runs f in a go routine. f should return once ctx is done.
func (g *Goes) Go(name string, f func(ctx context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		logger.Debug("service started", "name", name)
		err := f(g.ctx)
		if err != nil && g.ctx.Err() == nil {
			logger.Warn("service failed", "name", name, "err", err)
			g.once.Do(func() {
				g.err = errors.Wrap(err, name)
			})
			g.cancel()
			return
		}
		logger.Debug("service stopped", "name", name)
	}()
}

// Stop signals all services to stop.
func (g *Goes) Stop() {
	g.cancel()
}

// Wait waits for all services to return, and reports the first failure.
func (g *Goes) Wait() error {
	g.wg.Wait()
	g.cancel()
	return g.err
}

// Done returns a channel closed after every service has returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
