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

// ByteStream is a channel-backed fluxjson.ByteStream. A producer calls Push
// to append raw, already-valid-JSON-in-context bytes and Close/CloseWithError
// to terminate it; a fluxjson.Encoder drains it with ReadBytes.
type ByteStream struct {
	mu    sync.Mutex
	data  []byte
	ended bool
	err   error
	ready chan struct{}
}

// NewByteStream creates an empty, unended ByteStream.
func NewByteStream() *ByteStream {
	return &ByteStream{ready: make(chan struct{}, 1)}
}

// Push appends raw bytes for the encoder to splice verbatim and wakes a
// parked reader. Push after Close/CloseWithError is a programmer error and
// is ignored.
func (s *ByteStream) Push(p []byte) {
	s.mu.Lock()
	if !s.ended {
		s.data = append(s.data, p...)
	}
	s.mu.Unlock()
	s.wake()
}

// Close marks the stream as exhausted with no error.
func (s *ByteStream) Close() { s.CloseWithError(nil) }

// CloseWithError marks the stream as exhausted, optionally with a terminal
// error fluxjson will surface as ErrStreamError.
func (s *ByteStream) CloseWithError(err error) {
	s.mu.Lock()
	if !s.ended {
		s.ended = true
		s.err = err
	}
	s.mu.Unlock()
	s.wake()
}

func (s *ByteStream) wake() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// ReadBytes implements fluxjson.ByteStream.
func (s *ByteStream) ReadBytes(n int) ([]byte, fluxjson.StreamStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) == 0 {
		if s.ended {
			return nil, fluxjson.StreamEnded
		}
		return nil, fluxjson.StreamNoData
	}
	if n <= 0 || n > len(s.data) {
		n = len(s.data)
	}
	out := s.data[:n:n]
	s.data = s.data[n:]
	return out, fluxjson.StreamOK
}

// Readable implements fluxjson.ByteStream.
func (s *ByteStream) Readable() <-chan struct{} { return s.ready }

// Ended implements fluxjson.ByteStream.
func (s *ByteStream) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended && len(s.data) == 0
}

// Err implements fluxjson.ByteStream.
func (s *ByteStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
