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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxjson/fluxjson/internal/tracelog"
)

func newTestRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "")
	flags.IntVar(&opts.chunkSize, "chunk-size", 4096, "")
	flags.IntVar(&opts.indent, "indent", 0, "")
	opts.log.RegisterFlags(flags)
	return cmd
}

func TestLoadConfigDefaultsAppliesUnsetFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "chunkSize: 1024\nindent: 2\nlogLevel: debug\nlogFormat: json\n")

	opts := &rootOptions{configPath: path, log: tracelog.NewConfig()}
	cmd := newTestRootCmd(opts)

	require.NoError(t, loadConfigDefaults(cmd, opts))
	assert.Equal(t, 1024, opts.chunkSize)
	assert.Equal(t, 2, opts.indent)
	assert.Equal(t, "debug", opts.log.Level)
	assert.Equal(t, "json", opts.log.Format)
}

func TestLoadConfigDefaultsDoesNotOverrideExplicitFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "chunkSize: 1024\n")

	opts := &rootOptions{configPath: path, log: tracelog.NewConfig()}
	cmd := newTestRootCmd(opts)
	require.NoError(t, cmd.Flags().Set("chunk-size", "8192"))

	require.NoError(t, loadConfigDefaults(cmd, opts))
	assert.Equal(t, 8192, opts.chunkSize)
}

func TestLoadConfigDefaultsNoPathIsNoop(t *testing.T) {
	t.Parallel()

	opts := &rootOptions{log: tracelog.NewConfig()}
	cmd := newTestRootCmd(opts)

	assert.NoError(t, loadConfigDefaults(cmd, opts))
	assert.Equal(t, 4096, opts.chunkSize)
}

func TestLoadConfigDefaultsRejectsUnreadablePath(t *testing.T) {
	t.Parallel()

	opts := &rootOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml"), log: tracelog.NewConfig()}
	cmd := newTestRootCmd(opts)

	assert.Error(t, loadConfigDefaults(cmd, opts))
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
