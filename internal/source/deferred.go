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

// Package source provides reusable, channel-backed implementations of
// fluxjson's Deferred, RecordStream, and ByteStream interfaces, used by the
// CLI demo fixtures. The core package's async suspension tests use their own
// test doubles instead.
package source

import "sync"

// Deferred is a one-shot, channel-backed fluxjson.Deferred: exactly one of
// Resolve or Reject must be called, exactly once.
type Deferred struct {
	once      sync.Once
	resolveCh chan any
	rejectCh  chan error
}

// NewDeferred creates an unresolved Deferred.
func NewDeferred() *Deferred {
	return &Deferred{
		resolveCh: make(chan any, 1),
		rejectCh:  make(chan error, 1),
	}
}

// Resolve fulfills the Deferred with value. Only the first call (whether to
// Resolve or Reject) has any effect.
func (d *Deferred) Resolve(value any) {
	d.once.Do(func() { d.resolveCh <- value })
}

// Reject fails the Deferred with err. Only the first call (whether to
// Resolve or Reject) has any effect.
func (d *Deferred) Reject(err error) {
	d.once.Do(func() { d.rejectCh <- err })
}

// Subscribe implements fluxjson.Deferred: it blocks (on a background
// goroutine) until Resolve or Reject is called, then invokes exactly one of
// onResolve/onReject.
func (d *Deferred) Subscribe(onResolve func(value any), onReject func(err error)) {
	go func() {
		select {
		case v := <-d.resolveCh:
			onResolve(v)
		case err := <-d.rejectCh:
			onReject(err)
		}
	}()
}
