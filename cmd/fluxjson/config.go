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

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// fileConfig is the shape of the optional --config YAML file: it supplies
// flag defaults, which the actual CLI flags then override (the same
// "config file supplies defaults, flags win" layering magicschema uses).
type fileConfig struct {
	ChunkSize int    `yaml:"chunkSize"`
	Indent    int    `yaml:"indent"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// loadConfigDefaults reads opts.configPath (if set) and applies its values
// as defaults for any flag the user did not explicitly pass on the command
// line. It must run before subcommand RunE, hence PersistentPreRunE.
func loadConfigDefaults(cmd *cobra.Command, opts *rootOptions) error {
	if opts.configPath == "" {
		return nil
	}

	data, err := os.ReadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("read config %s: %w", opts.configPath, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", opts.configPath, err)
	}

	flags := cmd.Flags()
	applyDefault := func(name string, value any) {
		if flags.Changed(name) {
			return
		}
		switch v := value.(type) {
		case int:
			if v != 0 {
				_ = flags.Set(name, fmt.Sprintf("%d", v))
			}
		case string:
			if v != "" {
				_ = flags.Set(name, v)
			}
		}
	}

	applyDefault("chunk-size", fc.ChunkSize)
	applyDefault("indent", fc.Indent)
	applyDefault(opts.log.Flags.Level, fc.LogLevel)
	applyDefault(opts.log.Flags.Format, fc.LogFormat)

	return nil
}
