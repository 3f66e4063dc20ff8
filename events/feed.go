// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
)

// Feed fans committed records out to in-process consumers.
//
// Send only queues records. A dispatcher goroutine, started by the first
// Subscribe, delivers them in order. A slow consumer therefore holds back the
// other consumers but never the sender.
type Feed struct {
	feed  event.Feed
	scope event.SubscriptionScope

	mu      sync.Mutex
	queue   []*Record
	started bool
	closed  bool
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
}

// Subscribe delivers records sent after the call to ch. Records sent shortly
// before the call may be delivered too, so consumers skip sequence numbers
// they have already seen.
func (f *Feed) Subscribe(ch chan<- *Record) event.Subscription {
	f.mu.Lock()
	if !f.started && !f.closed {
		f.started = true
		f.wake = make(chan struct{}, 1)
		f.quit = make(chan struct{})
		f.done = make(chan struct{})
		go f.loop()
	}
	f.mu.Unlock()
	return f.scope.Track(f.feed.Subscribe(ch))
}

// Send queues records for delivery and returns immediately.
// Records are dropped while nobody has subscribed yet.
func (f *Feed) Send(records []*Record) {
	if len(records) == 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started || f.closed {
		return
	}
	f.queue = append(f.queue, records...)
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued records not yet delivered.
func (f *Feed) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

func (f *Feed) loop() {
	defer close(f.done)
	for {
		f.mu.Lock()
		batch := f.queue
		f.queue = nil
		f.mu.Unlock()

		for _, r := range batch {
			select {
			case <-f.quit:
				return
			default:
			}
			f.feed.Send(r)
		}

		select {
		case <-f.wake:
		case <-f.quit:
			return
		}
	}
}

// Close unsubscribes every subscriber and stops the dispatcher.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	started := f.started
	f.queue = nil
	f.mu.Unlock()

	if started {
		close(f.quit)
	}
	// unsubscribing releases a dispatcher blocked on a consumer
	f.scope.Close()
	if started {
		<-f.done
	}
}
