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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fluxjson/fluxjson"
)

// errDemoMismatch indicates compact and pretty-printed output diverged after
// whitespace stripping (SPEC_FULL.md §8.8).
var errDemoMismatch = errors.New("demo: compact/pretty mismatch")

// newDemoCmd builds the "demo" subcommand: encode the fixture compact and
// pretty-printed, assert they agree after stripping whitespace, and
// optionally fan out N independent encoders concurrently (--concurrent) to
// exercise the "no shared mutable state across instances" guarantee (§5)
// under real concurrency.
func newDemoCmd(opts *rootOptions) *cobra.Command {
	var concurrent int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Check compact/pretty equivalence and optional concurrent encoding",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := runEquivalenceCheck(cmd); err != nil {
				return err
			}
			if concurrent > 0 {
				return runConcurrentCheck(cmd, concurrent)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrent, "concurrent", 0, "run N independent encoders concurrently")
	return cmd
}

func runEquivalenceCheck(cmd *cobra.Command) error {
	compact, err := drain(fluxjson.New(buildFixture()))
	if err != nil {
		return fmt.Errorf("compact encode: %w", err)
	}

	pretty, err := drain(fluxjson.New(buildFixture(), fluxjson.WithIndent(2)))
	if err != nil {
		return fmt.Errorf("pretty encode: %w", err)
	}

	stripped := stripWhitespace(pretty)
	if stripped != compact {
		return fmt.Errorf("%w:\ncompact: %s\nstripped pretty: %s", errDemoMismatch, compact, stripped)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "PASS: compact and pretty output agree")
	return nil
}

func runConcurrentCheck(cmd *cobra.Command, n int) error {
	want, err := drain(fluxjson.New(buildFixture()))
	if err != nil {
		return fmt.Errorf("reference encode: %w", err)
	}

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			got, err := drain(fluxjson.New(buildFixture()))
			if err != nil {
				return err
			}
			if got != want {
				return fmt.Errorf("concurrent output differs from reference:\nwant: %s\ngot:  %s", want, got)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("concurrent encode: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PASS: %d concurrent encoders each produced correct output\n", n)
	return nil
}

func drain(enc *fluxjson.Encoder) (string, error) {
	out, err := io.ReadAll(enc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// stripWhitespace removes the structural whitespace fluxjson's pretty-printer
// inserts (spaces, newlines, tabs between tokens) so it can be compared
// against compact output, without touching whitespace inside quoted string
// content.
func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
			b.WriteRune(r)
		case ' ', '\n', '\t', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
