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

// Package fluxjson encodes arbitrary Go value graphs to JSON incrementally,
// under consumer backpressure, without ever holding the full serialized
// output in memory at once.
//
// Values are classified into OBJECT, ARRAY, primitive, Deferred,
// RecordStream, and ByteStream shapes. A Deferred resolves to a single
// value later; a RecordStream or ByteStream produces its array elements (or
// byte-string contents) over time from an external producer. An Encoder
// walks the graph depth-first on an explicit frame stack rather than the Go
// call stack, so it can suspend mid-traversal whenever a Deferred or stream
// is not yet ready and resume exactly where it left off once the consumer
// asks for more.
//
// Construct one with New and drive it with either Read (satisfying
// io.Reader) or Pull, which additionally accepts a context.Context and an
// explicit chunk size per call. An Encoder is single-use: it produces
// exactly one JSON value and should be discarded afterward.
package fluxjson
