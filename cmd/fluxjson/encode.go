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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluxjson/fluxjson"
)

// newEncodeCmd builds the "encode" subcommand: stream the built-in fixture
// document to stdout, using --chunk-size to control the Read request size
// (demonstrating chunk invariance, SPEC_FULL.md §8.4, interactively).
func newEncodeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Stream the built-in fixture document to stdout as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := opts.log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			encOpts := []fluxjson.Option{
				fluxjson.WithChunkSize(opts.chunkSize),
				fluxjson.WithLogger(logger),
			}
			if opts.indent > 0 {
				encOpts = append(encOpts, fluxjson.WithIndent(opts.indent))
			}

			enc := fluxjson.New(buildFixture(), encOpts...)
			if _, err := io.Copy(os.Stdout, enc); err != nil {
				return fmt.Errorf("encode fixture: %w", err)
			}
			fmt.Fprintln(os.Stdout)
			return nil
		},
	}
}
