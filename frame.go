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

import "reflect"

// frameKind tags which of the sum-type variants a frame represents (§9
// "Dispatch shape"). Each kind has its own step behavior in encoder.go's
// (*Encoder).step.
type frameKind int

const (
	frameRoot frameKind = iota
	frameObject
	frameArray
	frameRecordStream
	frameByteStream
	frameAwaitingDeferred
	frameTrailingEmit
)

// String names the frame kind for diagnostics (slog field values, §10).
func (k frameKind) String() string {
	switch k {
	case frameRoot:
		return "root"
	case frameObject:
		return "object"
	case frameArray:
		return "array"
	case frameRecordStream:
		return "recordStream"
	case frameByteStream:
		return "byteStream"
	case frameAwaitingDeferred:
		return "deferred"
	case frameTrailingEmit:
		return "trailingEmit"
	default:
		return "unknown"
	}
}

// frame is a stack node describing an open container, stream, or async
// wait (§3). Only the fields relevant to its kind are populated; unused
// fields stay zero.
type frame struct {
	kind frameKind

	// object/array/recordStream
	value any
	index int
	first bool

	// object
	keys   []string
	lookup func(key string) (any, bool)

	// array
	items reflect.Value

	// recordStream / byteStream
	recordSrc RecordStream
	byteSrc   ByteStream
	unsub     func() // releases the Readable subscription, always called on exit

	// recordStream: items already read from the source but not yet
	// submitted one-at-a-time to the encoder (§4.4's "advance one record
	// per step" requirement — a batch read must not be drained in a tight
	// loop, since submitting a container item only opens it and returns).
	pending []any

	// awaitingDeferred
	key string

	// object / array / recordStream (cycle cleanup)
	release func()

	// shared
	awaiting bool
	closing  string // fixed text trailingEmit writes
}

// stack is the Encoder's frame stack (§3: non-empty iff encoding is in
// progress).
type stack []*frame

func (s *stack) push(f *frame) { *s = append(*s, f) }

func (s *stack) pop() {
	n := len(*s)
	if n == 0 {
		return
	}
	*s = (*s)[:n-1]
}

func (s stack) top() *frame {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (s stack) empty() bool { return len(s) == 0 }

// visitedSet tracks currently-open OBJECT/ARRAY/RECORD_STREAM values for
// cycle detection (§3). It keys on pointer identity where Go gives one
// "for free" (maps, slices, pointers) per the REDESIGN FLAGS note: a plain
// struct or array value copy can never participate in a cycle and is
// exempt.
type visitedSet map[uintptr]struct{}

// identity returns the pointer identity to key the visited set on, and
// whether value has one at all (false for plain struct/array values, which
// are exempt from cycle detection).
func identity(value any) (uintptr, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Ptr, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	case reflect.Slice:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

func (v visitedSet) enter(value any) (release func(), cyclic bool) {
	id, ok := identity(value)
	if !ok {
		return func() {}, false
	}
	if _, seen := v[id]; seen {
		return func() {}, true
	}
	v[id] = struct{}{}
	return func() { delete(v, id) }, false
}
