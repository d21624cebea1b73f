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
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Encoder converts a value graph into a single well-formed JSON byte
// stream, emitting output incrementally under consumer backpressure (§1).
// Build one with New and drive it with Read or Pull. An Encoder is used
// once: it produces exactly one JSON value and must be discarded
// afterwards.
type Encoder struct {
	mu sync.Mutex

	id      uuid.UUID
	stack   stack
	visited visitedSet
	depth   int
	buf     buffer

	replacer *replacerPipeline
	indent   string
	ctx      context.Context
	chunkSize int
	logger   *slog.Logger

	destroyed bool
	err       error
	wake      chan struct{}

	pending    []byte
	pendingErr error
}

// New constructs an Encoder for value, applying opts in order.
func New(value any, opts ...Option) *Encoder {
	e := &Encoder{
		id:        uuid.New(),
		visited:   make(visitedSet),
		ctx:       context.Background(),
		chunkSize: DefaultChunkSize,
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.stack.push(&frame{kind: frameRoot, value: value})
	return e
}

// ID returns the correlation identifier assigned to this Encoder at
// construction time. It has no bearing on encoding itself; it exists so log
// records from concurrent encoders (§10) can be told apart.
func (e *Encoder) ID() uuid.UUID {
	return e.id
}

// Awaiting reports whether the top frame is currently suspended on a
// Deferred or stream event. It exists purely for introspection (the `watch`
// TUI's spinner, §11) and takes no part in the driving loop itself.
func (e *Encoder) Awaiting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stack.empty() {
		return false
	}
	return e.stack.top().awaiting
}

// Destroy terminates encoding immediately (§5). A nil err means graceful
// finalization (any buffered text is preserved for the next Read/Pull);
// a non-nil err discards buffered text and surfaces err to the consumer.
func (e *Encoder) Destroy(err error) {
	e.mu.Lock()
	e.destroyLocked(err)
	e.mu.Unlock()
}

func (e *Encoder) destroyLocked(err error) {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if err != nil {
		e.err = err
		e.buf.data = nil
	}
	e.logDestroy(err)
	for _, f := range e.stack {
		if f.unsub != nil {
			f.unsub()
		}
	}
	e.stack = nil
	e.visited = nil
	e.signalWakeLocked()
}

func (e *Encoder) signalWakeLocked() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Encoder) logDebug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, append([]any{"id", e.id}, args...)...)
	}
}

// logDestroy records the terminal event of an encoder instance: Error when
// destroy carries a failure, Debug for a graceful finish (§10).
func (e *Encoder) logDestroy(err error) {
	if e.logger == nil {
		return
	}
	if err != nil {
		e.logger.Error("encoder destroyed", "id", e.id, "error", err)
		return
	}
	e.logger.Debug("encoder finished", "id", e.id)
}

// step performs one unit of work on the top frame. Called only while the
// stack is non-empty and the top frame is not awaiting (§4.5).
func (e *Encoder) step() error {
	f := e.stack.top()
	switch f.kind {
	case frameRoot:
		e.stack.pop()
		return e.submit("", f.value, noSeparator, false)
	case frameObject:
		return e.stepObject(f)
	case frameArray:
		return e.stepArray(f)
	case frameRecordStream:
		return e.stepRecordStream(f)
	case frameByteStream:
		return e.stepByteStream(f)
	case frameTrailingEmit:
		e.buf.emit(f.closing)
		e.depth--
		if f.release != nil {
			f.release()
		}
		e.stack.pop()
		return nil
	case frameAwaitingDeferred:
		// Never reached: this frame is always awaiting until its
		// Subscribe callback pops it directly.
		return nil
	}
	return nil
}

func noSeparator() {}

// submit is the recursive entry point (§4.4): apply the replacer pipeline,
// classify, and dispatch. elideUndefined is true in OBJECT context (where
// an undefined value drops the whole key) and false in ARRAY/root context
// (where it becomes null).
func (e *Encoder) submit(key string, value any, sep func(), elideUndefined bool) error {
	value, err := e.replacer.apply(key, value)
	if err != nil {
		return err
	}

	switch classify(value) {
	case catUndefined:
		if elideUndefined {
			return nil
		}
		sep()
		e.buf.emit("null")
		return nil

	case catPrimitive:
		if value == undefined && elideUndefined {
			return nil
		}
		sep()
		if err := encodePrimitive(&e.buf, value); err != nil {
			return newError("encode "+describeKey(key), value, err)
		}
		return nil

	case catObject:
		sep()
		return e.pushObject(key, value)

	case catArray:
		sep()
		return e.pushArray(key, value)

	case catDeferred:
		return e.pushDeferred(key, value, sep, elideUndefined)

	case catRecordStream:
		sep()
		return e.pushRecordStream(key, value)

	case catByteStream:
		sep()
		return e.pushByteStream(key, value)
	}

	return newError("encode "+describeKey(key), value, ErrUnsupportedType)
}

// ---- OBJECT ----

func (e *Encoder) pushObject(key string, value any) error {
	release, cyclic := e.visited.enter(value)
	if cyclic {
		return newError("encode "+describeKey(key), value, ErrCircularStructure)
	}

	keys, get, err := objectFields(value)
	if err != nil {
		release()
		return newError("encode "+describeKey(key), value, err)
	}
	keys = e.replacer.filterKeys(func(k string) bool { _, ok := get(k); return ok }, keys)

	e.buf.emitByte('{')
	e.depth++
	e.stack.push(&frame{kind: frameObject, value: value, keys: keys, lookup: get, release: release})
	e.logDebug("push frame", "kind", "object", "depth", e.depth, "fields", len(keys))
	return nil
}

func (e *Encoder) stepObject(f *frame) error {
	if f.index == len(f.keys) {
		if f.first && e.indent != "" {
			e.buf.emit("\n")
			e.writeIndent(e.depth - 1)
		}
		e.buf.emitByte('}')
		e.logDebug("pop frame", "kind", "object", "depth", e.depth)
		e.depth--
		f.release()
		e.stack.pop()
		return nil
	}

	key := f.keys[f.index]
	f.index++
	val, _ := f.lookup(key)
	return e.submit(key, val, e.objectSeparator(f, key), true)
}

func (e *Encoder) objectSeparator(f *frame, key string) func() {
	return func() {
		if !f.first {
			f.first = true
		} else {
			e.buf.emitByte(',')
		}
		if e.indent != "" {
			e.buf.emit("\n")
			e.writeIndent(e.depth)
		}
		encodeString(&e.buf, key)
		if e.indent != "" {
			e.buf.emit(": ")
		} else {
			e.buf.emitByte(':')
		}
	}
}

// objectFields derives the key enumeration and lookup function for an
// OBJECT-classified value (§4.4 "push OBJECT frame with key list
// snapshotted at this moment").
func objectFields(value any) ([]string, func(string) (any, bool), error) {
	if fo, ok := value.(FieldOrder); ok {
		keys, get := fo.OrderedFields()
		return keys, get, nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil, ErrUnsupportedType
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, nil, ErrUnsupportedType
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		// Go map iteration order is randomized; sorting is the only
		// deterministic order available without a FieldOrder/KeyFilter
		// override (DESIGN.md "Open-question decisions").
		sort.Strings(keys)
		get := func(k string) (any, bool) {
			mv := rv.MapIndex(reflect.ValueOf(k))
			if !mv.IsValid() {
				return nil, false
			}
			return mv.Interface(), true
		}
		return keys, get, nil

	case reflect.Struct:
		typ := rv.Type()
		keys := make([]string, 0, typ.NumField())
		byName := make(map[string]int, typ.NumField())
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if field.PkgPath != "" { // unexported
				continue
			}
			name := field.Name
			if tag := field.Tag.Get("json"); tag != "" {
				head, _, _ := strings.Cut(tag, ",")
				if head == "-" {
					continue
				}
				if head != "" {
					name = head
				}
			}
			keys = append(keys, name)
			byName[name] = i
		}
		get := func(k string) (any, bool) {
			idx, ok := byName[k]
			if !ok {
				return nil, false
			}
			return rv.Field(idx).Interface(), true
		}
		return keys, get, nil

	default:
		return nil, nil, ErrUnsupportedType
	}
}

// ---- ARRAY ----

func (e *Encoder) pushArray(key string, value any) error {
	release, cyclic := e.visited.enter(value)
	if cyclic {
		return newError("encode "+describeKey(key), value, ErrCircularStructure)
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		release()
		return newError("encode "+describeKey(key), value, ErrUnsupportedType)
	}

	e.buf.emitByte('[')
	e.depth++
	e.stack.push(&frame{kind: frameArray, value: value, items: rv, release: release})
	e.logDebug("push frame", "kind", "array", "depth", e.depth, "len", rv.Len())
	return nil
}

func (e *Encoder) stepArray(f *frame) error {
	if f.index == f.items.Len() {
		if f.first && e.indent != "" {
			e.buf.emit("\n")
			e.writeIndent(e.depth - 1)
		}
		e.buf.emitByte(']')
		e.logDebug("pop frame", "kind", "array", "depth", e.depth)
		e.depth--
		f.release()
		e.stack.pop()
		return nil
	}

	idx := f.index
	f.index++
	return e.submit("", f.items.Index(idx).Interface(), e.arraySeparator(f), false)
}

func (e *Encoder) arraySeparator(f *frame) func() {
	return func() {
		if !f.first {
			f.first = true
		} else {
			e.buf.emitByte(',')
		}
		if e.indent != "" {
			e.buf.emit("\n")
			e.writeIndent(e.depth)
		}
	}
}

func (e *Encoder) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		e.buf.emit(e.indent)
	}
}

// ---- DEFERRED ----

func (e *Encoder) pushDeferred(key string, value any, sep func(), elideUndefined bool) error {
	d := value.(Deferred)
	f := &frame{kind: frameAwaitingDeferred, awaiting: true, key: key}
	e.stack.push(f)
	e.logDebug("suspend frame", "kind", "deferred", "key", key)

	d.Subscribe(
		func(resolved any) {
			e.onDeferredResolved(f, key, resolved, sep, elideUndefined)
		},
		func(rejectErr error) {
			e.onDeferredRejected(key, value, rejectErr)
		},
	)
	return nil
}

func (e *Encoder) onDeferredResolved(f *frame, key string, resolved any, sep func(), elideUndefined bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || e.stack.top() != f {
		return
	}
	e.logDebug("resume frame", "kind", "deferred", "key", key)
	e.stack.pop()
	if err := e.submit(key, resolved, sep, elideUndefined); err != nil {
		e.destroyLocked(newError("resolve "+describeKey(key), resolved, err))
		return
	}
	e.signalWakeLocked()
}

func (e *Encoder) onDeferredRejected(key string, value any, rejectErr error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyLocked(newError("deferred "+describeKey(key), value, &wrappedRejectErr{rejectErr}))
}

type wrappedRejectErr struct{ err error }

func (w *wrappedRejectErr) Error() string {
	return ErrDeferredRejected.Error() + ": " + w.err.Error()
}
func (w *wrappedRejectErr) Unwrap() []error { return []error{ErrDeferredRejected, w.err} }

// ---- STREAMS ----

func (e *Encoder) pushRecordStream(key string, value any) error {
	src := value.(RecordStream)
	if streamMode(src) == StreamModeFlowing {
		return newError("encode "+describeKey(key), value, ErrStreamStateInvalid)
	}
	if src.Ended() {
		return newError("encode "+describeKey(key), value, ErrStreamEnded)
	}

	release, cyclic := e.visited.enter(value)
	if cyclic {
		return newError("encode "+describeKey(key), value, ErrCircularStructure)
	}

	e.buf.emitByte('[')
	e.depth++
	e.stack.push(&frame{kind: frameTrailingEmit, closing: "]", release: release})

	f := &frame{kind: frameRecordStream, recordSrc: src}
	f.unsub = e.watchStream(f, src.Readable())
	e.stack.push(f)
	e.logDebug("push frame", "kind", "recordStream", "depth", e.depth)
	return nil
}

// stepRecordStream submits exactly one record per call, never a whole
// batch in a loop: submit only pushes a frame for a container item and
// returns (it does not drain the container's contents before returning
// to the driver), so submitting a second item before the first container
// is fully encoded would interleave their output. A multi-item read is
// stashed on f.pending and drained one item per step instead.
func (e *Encoder) stepRecordStream(f *frame) error {
	if len(f.pending) > 0 {
		item := f.pending[0]
		f.pending = f.pending[1:]
		f.index++
		return e.submit("", item, e.arraySeparator(f), false)
	}

	n := e.buf.readSize
	if n <= 0 {
		n = DefaultChunkSize
	}
	items, status := f.recordSrc.ReadRecords(n)

	switch status {
	case StreamOK:
		if len(items) == 0 {
			return nil
		}
		item := items[0]
		f.pending = items[1:]
		f.index++
		return e.submit("", item, e.arraySeparator(f), false)
	case StreamEnded:
		f.unsub()
		if err := f.recordSrc.Err(); err != nil {
			return newError("record stream", f.recordSrc, &wrappedStreamErr{err})
		}
		e.logDebug("pop frame", "kind", "recordStream")
		e.stack.pop()
		return nil
	default: // StreamNoData
		if err := f.recordSrc.Err(); err != nil {
			f.unsub()
			return newError("record stream", f.recordSrc, &wrappedStreamErr{err})
		}
		f.awaiting = true
		e.logDebug("suspend frame", "kind", "recordStream")
		return nil
	}
}

func (e *Encoder) pushByteStream(key string, value any) error {
	src := value.(ByteStream)
	if streamMode(src) == StreamModeFlowing {
		return newError("encode "+describeKey(key), value, ErrStreamStateInvalid)
	}
	if src.Ended() {
		return newError("encode "+describeKey(key), value, ErrStreamEnded)
	}

	f := &frame{kind: frameByteStream, byteSrc: src}
	f.unsub = e.watchStream(f, src.Readable())
	e.stack.push(f)
	e.logDebug("push frame", "kind", "byteStream", "depth", e.depth)
	return nil
}

func (e *Encoder) stepByteStream(f *frame) error {
	n := e.buf.readSize
	if n <= 0 {
		n = DefaultChunkSize
	}
	data, status := f.byteSrc.ReadBytes(n)

	switch status {
	case StreamOK:
		e.buf.emitBytes(data)
		return nil
	case StreamEnded:
		f.unsub()
		if err := f.byteSrc.Err(); err != nil {
			return newError("byte stream", f.byteSrc, &wrappedStreamErr{err})
		}
		e.logDebug("pop frame", "kind", "byteStream")
		e.stack.pop()
		return nil
	default:
		if err := f.byteSrc.Err(); err != nil {
			f.unsub()
			return newError("byte stream", f.byteSrc, &wrappedStreamErr{err})
		}
		f.awaiting = true
		e.logDebug("suspend frame", "kind", "byteStream")
		return nil
	}
}

type wrappedStreamErr struct{ err error }

func (w *wrappedStreamErr) Error() string { return ErrStreamError.Error() + ": " + w.err.Error() }
func (w *wrappedStreamErr) Unwrap() []error { return []error{ErrStreamError, w.err} }

// watchStream starts a goroutine that clears f.awaiting and wakes the
// driver whenever the stream's Readable channel fires, and returns the
// unsubscribe func (§4.7, §9 "Global/ambient state": subscriptions are
// released on every exit path). Only the top-of-stack frame is ever
// awaiting in practice (§5: a single frame at a time suspends), but the
// check against stack.top() guards against a stale notification arriving
// after f has already popped.
func (e *Encoder) watchStream(f *frame, readable <-chan struct{}) func() {
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-readable:
				e.mu.Lock()
				if !e.destroyed && f.awaiting && e.stack.top() == f {
					f.awaiting = false
					e.logDebug("resume frame", "kind", f.kind)
					e.signalWakeLocked()
				}
				e.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
	return func() { once.Do(func() { close(stop) }) }
}
