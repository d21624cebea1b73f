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
	"strings"
)

// maxIndentLen is the clamp §4.3 applies to both integer-space counts and
// literal indent strings.
const maxIndentLen = 10

// DefaultChunkSize is the readSize a Read call uses when no WithChunkSize
// option was supplied.
const DefaultChunkSize = 4096

// Option configures an Encoder at construction time, following this
// repository's functional-options convention (DESIGN.md: grounded on
// MacroPower-x's log.Config/Flags builder style).
type Option func(*Encoder)

// WithReplacer installs a ReplacerFunc, clearing any previously configured
// KeyFilter (§4.3: the two shapes are mutually exclusive, last write wins).
func WithReplacer(fn ReplacerFunc) Option {
	return func(e *Encoder) {
		e.replacer = &replacerPipeline{fn: fn}
	}
}

// WithKeyFilter installs an ordered allow-list of object keys, clearing any
// previously configured ReplacerFunc.
func WithKeyFilter(keys []string) Option {
	return func(e *Encoder) {
		e.replacer = &replacerPipeline{filter: append([]string(nil), keys...)}
	}
}

// WithIndent enables pretty-printing with n spaces per level, clamped to
// maxIndentLen.
func WithIndent(n int) Option {
	if n < 0 {
		n = 0
	}
	if n > maxIndentLen {
		n = maxIndentLen
	}
	return func(e *Encoder) {
		e.indent = strings.Repeat(" ", n)
	}
}

// WithIndentString enables pretty-printing using s verbatim, truncated to
// maxIndentLen bytes.
func WithIndentString(s string) Option {
	if len(s) > maxIndentLen {
		s = s[:maxIndentLen]
	}
	return func(e *Encoder) {
		e.indent = s
	}
}

// WithContext attaches a cancellation context; cancellation is treated as
// Destroy(ctx.Err()) per §5.
func WithContext(ctx context.Context) Option {
	return func(e *Encoder) {
		e.ctx = ctx
	}
}

// WithChunkSize sets the default readSize used by Read (Pull always takes
// an explicit size).
func WithChunkSize(n int) Option {
	return func(e *Encoder) {
		e.chunkSize = n
	}
}

// WithLogger attaches structured logging of frame pushes/pops, suspensions,
// resumptions, and destroy paths (§10). A nil logger (the default) means
// diagnostics are skipped entirely rather than routed to a discard handler,
// so the hot path pays only a single nil check.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encoder) {
		e.logger = logger
	}
}
