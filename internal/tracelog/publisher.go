// Copyright 2025 easymvp
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracelog

import (
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

// Publisher is an io.Writer that fans written log records out to
// subscribers, for the watch subcommand's live log tail.
//
// Each Write copies its input once and delivers it to every active
// Subscription via a buffered channel with ring-buffer semantics: when a
// subscriber's channel is full the oldest entry is dropped so Write never
// blocks. Safe for concurrent use.
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions. Values
// less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}
		p.bufSize = n
	}
}

// NewPublisher creates a Publisher with the given options. The default
// buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{bufSize: defaultBufferSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Write copies b and sends the copy to all active subscribers, dropping the
// oldest buffered entry for any subscriber whose channel is full. Always
// returns len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	entry := make([]byte, len(b))
	copy(entry, b)

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}
		select {
		case sub.ch <- entry:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- entry
		}
		alive = append(alive, sub)
	}
	for i := len(alive); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}
	p.subscribers = alive

	return len(b), nil
}

// Subscribe creates and registers a new Subscription. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{ch: make(chan []byte, p.bufSize)}
	if p.closed {
		close(sub.ch)
		return sub
	}
	p.subscribers = append(p.subscribers, sub)
	return sub
}

// Close marks the Publisher closed, closes all subscription channels, and
// releases the subscriber list. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}
	p.subscribers = nil
	return nil
}

// Subscription receives log entries from a Publisher.
type Subscription struct {
	ch     chan []byte
	closed atomic.Bool
}

// C returns the read-only channel that delivers log entries. Callers must
// not modify the returned byte slices.
func (s *Subscription) C() <-chan []byte { return s.ch }

// Close marks the subscription closed. The Publisher closes the underlying
// channel on its next Write or Close call. Idempotent.
func (s *Subscription) Close() { s.closed.Store(true) }
