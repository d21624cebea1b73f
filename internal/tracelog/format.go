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

package tracelog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Format selects a slog.Handler's output encoding.
type Format string

const (
	// FormatJSON writes one JSON object per log record.
	FormatJSON Format = "json"
	// FormatText writes slog's human-readable key=value form.
	FormatText Format = "text"
)

var (
	// ErrUnknownLevel indicates an unrecognized log level string.
	ErrUnknownLevel = errors.New("tracelog: unknown log level")
	// ErrUnknownFormat indicates an unrecognized log format string.
	ErrUnknownFormat = errors.New("tracelog: unknown log format")
)

// allLevels are the level strings accepted by ParseLevel, in ascending
// severity order.
var allLevels = []string{"debug", "info", "warn", "error"}

// allFormats are the Format values accepted by ParseFormat.
var allFormats = []Format{FormatJSON, FormatText}

// ParseLevel parses a case-insensitive level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// ParseFormat parses a case-insensitive format name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "" {
		f = FormatText
	}
	if slices.Contains(allFormats, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// AllLevels returns the accepted level strings, for flag help text and
// shell-completion registration.
func AllLevels() []string { return allLevels }

// AllFormats returns the accepted format strings, for flag help text and
// shell-completion registration.
func AllFormats() []string {
	out := make([]string, len(allFormats))
	for i, f := range allFormats {
		out[i] = string(f)
	}
	return out
}

// NewHandler builds a slog.Handler writing to w at level using format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
