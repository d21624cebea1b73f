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

// Package tracelog provides the structured logging ambient stack shared by
// the fluxjson CLI and an Encoder's WithLogger option.
//
// Build a [Config], register its flags, then construct a [log/slog.Logger]:
//
//	cfg := tracelog.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(os.Stderr)
//
// A [Publisher] fans logger output out to subscribers, used by the watch
// subcommand to show a live log tail alongside its progress view:
//
//	pub := tracelog.NewPublisher()
//	logger, _ := cfg.NewLogger(io.MultiWriter(os.Stderr, pub))
//
//	sub := pub.Subscribe()
//	go func() {
//		for entry := range sub.C() {
//			// render entry in the TUI
//		}
//	}()
package tracelog
