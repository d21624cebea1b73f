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

package fluxjson

import (
	"context"
	"io"
)

// Pull implements the Flow Controller / Pull Driver (§4.5): it runs the
// state machine until the buffer holds at least n bytes (returns that
// chunk), finishes (returns the final chunk, if any, with io.EOF), or fails.
// n is the requested chunk size; n <= 0 uses DefaultChunkSize.
//
// Pull blocks the calling goroutine while a frame is awaiting, using ctx
// (falling back to the Encoder's own WithContext value, then
// context.Background) for cancellation — the idiomatic Go replacement for
// the single-threaded "return and let an external event loop resume later"
// suspension model described in SPEC_FULL.md §4.5.
func (e *Encoder) Pull(ctx context.Context, n int) ([]byte, error) {
	if ctx == nil {
		ctx = e.ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if n <= 0 {
		n = DefaultChunkSize
	}

	e.mu.Lock()
	for {
		if e.destroyed {
			err := e.err
			out := e.buf.take()
			e.mu.Unlock()
			if err != nil {
				return nil, err
			}
			return out, io.EOF
		}

		if e.stack.empty() {
			out := e.buf.take()
			e.destroyLocked(nil)
			e.mu.Unlock()
			return out, io.EOF
		}

		top := e.stack.top()
		if top.awaiting {
			e.buf.readSize = n
			e.mu.Unlock()
			select {
			case <-e.wake:
			case <-ctx.Done():
				e.mu.Lock()
				e.destroyLocked(ctx.Err())
				e.mu.Unlock()
				return nil, ctx.Err()
			}
			e.mu.Lock()
			continue
		}

		e.buf.readSize = n
		if err := e.step(); err != nil {
			e.destroyLocked(err)
			e.mu.Unlock()
			return nil, err
		}
		if e.buf.full() {
			out := e.buf.take()
			e.mu.Unlock()
			return out, nil
		}
	}
}

// Read implements io.Reader over Pull, using the Encoder's configured
// WithChunkSize (or DefaultChunkSize). Read honors the ordinary io.Reader
// convention of returning (n>0, io.EOF) together for the final chunk.
func (e *Encoder) Read(p []byte) (int, error) {
	if len(e.pending) == 0 {
		if e.pendingErr != nil {
			err := e.pendingErr
			e.pendingErr = nil
			return 0, err
		}
		chunk, err := e.Pull(e.ctx, e.chunkSize)
		e.pending = chunk
		e.pendingErr = err
	}

	n := copy(p, e.pending)
	e.pending = e.pending[n:]

	if len(e.pending) == 0 && e.pendingErr != nil {
		err := e.pendingErr
		e.pendingErr = nil
		return n, err
	}
	return n, nil
}

var _ io.Reader = (*Encoder)(nil)
