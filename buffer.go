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

// buffer is the Output Buffer (§4.6): a mutable byte accumulator with a
// high-water mark (readSize) supplied by the consumer per pull. Handlers
// call emit/emitByte; the driver inspects full()/take() between handler
// steps.
type buffer struct {
	data     []byte
	readSize int
}

// emit appends text to the buffer.
func (b *buffer) emit(text string) {
	b.data = append(b.data, text...)
}

// emitBytes appends raw bytes verbatim (used by ByteStream handlers, which
// splice producer-supplied chunks without escaping).
func (b *buffer) emitBytes(p []byte) {
	b.data = append(b.data, p...)
}

// emitByte appends a single byte.
func (b *buffer) emitByte(c byte) {
	b.data = append(b.data, c)
}

// full reports whether the buffer has reached or exceeded readSize and
// should be flushed before the driver continues stepping.
func (b *buffer) full() bool {
	return b.readSize > 0 && len(b.data) >= b.readSize
}

// take removes and returns everything accumulated so far.
func (b *buffer) take() []byte {
	if len(b.data) == 0 {
		return nil
	}
	out := b.data
	b.data = nil
	return out
}
