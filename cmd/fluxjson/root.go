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
	"os"

	"github.com/spf13/cobra"

	"github.com/fluxjson/fluxjson/internal/tracelog"
)

// rootOptions holds flags shared across subcommands.
type rootOptions struct {
	configPath string
	chunkSize  int
	indent     int
	log        *tracelog.Config
}

// newRootCmd builds the fluxjson command tree: root plus the encode, demo,
// and watch subcommands (SPEC_FULL.md §12).
func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: tracelog.NewConfig()}

	root := &cobra.Command{
		Use:           "fluxjson",
		Short:         "Drive the fluxjson streaming JSON encoder",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfigDefaults(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "optional YAML config file supplying flag defaults")
	flags.IntVar(&opts.chunkSize, "chunk-size", 4096, "requested Read/Pull chunk size in bytes")
	flags.IntVar(&opts.indent, "indent", 0, "pretty-print indent width (0 disables pretty-printing)")
	opts.log.RegisterFlags(flags)

	if err := opts.log.RegisterCompletions(root); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	root.AddCommand(newEncodeCmd(opts))
	root.AddCommand(newDemoCmd(opts))
	root.AddCommand(newWatchCmd(opts))

	return root
}
