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

package source

import (
	"sync"

	"github.com/fluxjson/fluxjson"
)

// RecordStream is a channel-backed fluxjson.RecordStream. A producer calls
// Push to make values available and Close/CloseWithError to terminate it; a
// fluxjson.Encoder drains it with ReadRecords.
type RecordStream struct {
	mu    sync.Mutex
	items []any
	ended bool
	err   error
	ready chan struct{}
}

// NewRecordStream creates an empty, unended RecordStream.
func NewRecordStream() *RecordStream {
	return &RecordStream{ready: make(chan struct{}, 1)}
}

// Push appends items for the encoder to consume and wakes a parked reader.
// Push after Close/CloseWithError is a programmer error and is ignored.
func (s *RecordStream) Push(items ...any) {
	s.mu.Lock()
	if !s.ended {
		s.items = append(s.items, items...)
	}
	s.mu.Unlock()
	s.wake()
}

// Close marks the stream as exhausted with no error.
func (s *RecordStream) Close() { s.CloseWithError(nil) }

// CloseWithError marks the stream as exhausted, optionally with a terminal
// error fluxjson will surface as ErrStreamError.
func (s *RecordStream) CloseWithError(err error) {
	s.mu.Lock()
	if !s.ended {
		s.ended = true
		s.err = err
	}
	s.mu.Unlock()
	s.wake()
}

func (s *RecordStream) wake() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// ReadRecords implements fluxjson.RecordStream.
func (s *RecordStream) ReadRecords(n int) ([]any, fluxjson.StreamStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		if s.ended {
			return nil, fluxjson.StreamEnded
		}
		return nil, fluxjson.StreamNoData
	}
	if n <= 0 || n > len(s.items) {
		n = len(s.items)
	}
	out := s.items[:n:n]
	s.items = s.items[n:]
	return out, fluxjson.StreamOK
}

// Readable implements fluxjson.RecordStream.
func (s *RecordStream) Readable() <-chan struct{} { return s.ready }

// Ended implements fluxjson.RecordStream.
func (s *RecordStream) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended && len(s.items) == 0
}

// Err implements fluxjson.RecordStream.
func (s *RecordStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
