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

// StreamMode reports whether an input stream is paused (pull-compatible) or
// already flowing (push-mode, which the encoder refuses deterministically;
// see §9 "Stream mode detection" in SPEC_FULL.md).
type StreamMode int

const (
	// StreamModePaused means the source only emits data in response to a
	// read call, which is the only mode the encoder accepts.
	StreamModePaused StreamMode = iota
	// StreamModeFlowing means the source pushes data on its own schedule;
	// submitting such a source fails with ErrStreamStateInvalid.
	StreamModeFlowing
)

// StreamModer is implemented by RecordStream/ByteStream sources that can
// report their current mode. A source that does not implement StreamModer
// is assumed to be StreamModePaused.
type StreamModer interface {
	Mode() StreamMode
}

// StreamStatus is returned alongside a read attempt on a RecordStream or
// ByteStream to describe why no data came back.
type StreamStatus int

const (
	// StreamOK means the read returned usable data.
	StreamOK StreamStatus = iota
	// StreamNoData means no data is available right now, but the source
	// may still produce more later; the frame should park (awaiting) until
	// the next Readable notification.
	StreamNoData
	// StreamEnded means the source is fully exhausted and will never
	// produce more data, regardless of how many items (zero or more) it
	// has already produced. The frame pops on this status whether or not
	// any elements were observed (after surfacing Err(), if set); popping
	// only when no elements had been observed would leave a stream that
	// terminates after producing elements parked forever.
	StreamEnded
)

// Deferred is a single-shot asynchronous result handle: a value that will be
// fulfilled later with exactly one of a result or an error. Subscribe must
// be called at most once; the encoder calls it exactly once per Deferred it
// encounters.
type Deferred interface {
	// Subscribe registers the completion callbacks. Exactly one of
	// onResolve or onReject is invoked exactly once, synchronously or from
	// another goroutine. Implementations must not call either callback
	// before Subscribe returns on the same goroutine (that would re-enter
	// the encoder while it is still setting up the frame); deferring the
	// call via a goroutine or channel send is expected.
	Subscribe(onResolve func(value any), onReject func(err error))
}

// RecordStream is an incremental source whose items are discrete values to
// be encoded as JSON array elements.
type RecordStream interface {
	// ReadRecords attempts a non-blocking read of up to n items. When the
	// returned status is not StreamOK, the returned slice is empty.
	ReadRecords(n int) ([]any, StreamStatus)
	// Readable returns a channel that receives a value (or is closed) when
	// new data, an end, or an error becomes available.
	Readable() <-chan struct{}
	// Ended reports whether the stream is already fully exhausted, checked
	// once at submission time so the encoder can fail with ErrStreamEnded
	// deterministically instead of discovering it via a first read.
	Ended() bool
	// Err returns the terminal error, if the stream ended abnormally.
	Err() error
}

// ByteStream is an incremental source whose items are already-formed text
// fragments, spliced verbatim into the output.
type ByteStream interface {
	// ReadBytes attempts a non-blocking read of up to n bytes. When the
	// returned status is not StreamOK, the returned slice is empty.
	ReadBytes(n int) ([]byte, StreamStatus)
	// Readable returns a channel that receives a value (or is closed) when
	// new data, an end, or an error becomes available.
	Readable() <-chan struct{}
	// Ended reports whether the stream is already fully exhausted, checked
	// once at submission time.
	Ended() bool
	// Err returns the terminal error, if the stream ended abnormally.
	Err() error
}

func streamMode(v any) StreamMode {
	if m, ok := v.(StreamModer); ok {
		return m.Mode()
	}
	return StreamModePaused
}
