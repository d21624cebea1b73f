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

package main

import (
	"math"

	"github.com/fluxjson/fluxjson/internal/source"
)

// buildFixture assembles a small document exercising every value category
// the encoder classifies: a primitive map, a nested array with non-finite
// numbers, a Deferred that resolves after a short delay, a RecordStream
// that emits a few items, and a ByteStream that splices a pre-formed chunk.
// Used by both the encode and demo subcommands (SPEC_FULL.md §12).
func buildFixture() map[string]any {
	deferred := source.NewDeferred()
	go deferred.Resolve(map[string]any{"ready": true})

	records := source.NewRecordStream()
	go func() {
		records.Push(1, "two", map[string]any{"k": 3})
		records.Close()
	}()

	bytes := source.NewByteStream()
	go func() {
		bytes.Push([]byte(`"spliced-chunk"`))
		bytes.Close()
	}()

	return map[string]any{
		"title":    "fluxjson fixture",
		"count":    42,
		"ratio":    3.14159,
		"infinite": math.Inf(1),
		"nan":      math.NaN(),
		"tags":     []any{"alpha", "beta", "gamma"},
		"nested": map[string]any{
			"flag": true,
			"null": nil,
		},
		"async":  deferred,
		"stream": records,
		"raw":    bytes,
	}
}
