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
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fluxjson/fluxjson"
	"github.com/fluxjson/fluxjson/internal/tracelog"
)

// newWatchCmd builds the "watch" subcommand: a bubbletea view of one
// encoder's Pull loop (SPEC_FULL.md §11–§12). It never touches the byte
// stream a Read/Pull caller would receive; it only renders progress and a
// live log tail fed by a tracelog.Publisher subscription.
func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch one encoder's pull loop in a live terminal view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub := tracelog.NewPublisher()
			defer pub.Close()

			logger, err := opts.log.NewLogger(pub)
			if err != nil {
				return err
			}

			enc := fluxjson.New(buildFixture(),
				fluxjson.WithChunkSize(opts.chunkSize),
				fluxjson.WithLogger(logger),
			)

			m := newWatchModel(enc, pub, opts.chunkSize)
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}
}

const maxLogLines = 8

// watchModel is the bubbletea Model driving the watch view.
type watchModel struct {
	enc       *fluxjson.Encoder
	chunkSize int
	sub       *tracelog.Subscription

	prog    progress.Model
	spin    spinner.Model
	pulling bool

	totalBytes int
	logLines   []string
	done       bool
	err        error
}

func newWatchModel(enc *fluxjson.Encoder, pub *tracelog.Publisher, chunkSize int) watchModel {
	return watchModel{
		enc:       enc,
		chunkSize: chunkSize,
		sub:       pub.Subscribe(),
		prog:      progress.New(progress.WithDefaultGradient()),
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

type pullResultMsg struct {
	chunk []byte
	err   error
}

type logEntryMsg struct{ line string }

func (m watchModel) pullCmd() tea.Cmd {
	return func() tea.Msg {
		chunk, err := m.enc.Pull(context.Background(), m.chunkSize)
		return pullResultMsg{chunk: chunk, err: err}
	}
}

func (m watchModel) logTailCmd() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		entry, ok := <-sub.C()
		if !ok {
			return nil
		}
		return logEntryMsg{line: string(entry)}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.pullCmd(), m.logTailCmd())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case pullResultMsg:
		m.pulling = false
		m.totalBytes += len(msg.chunk)
		switch {
		case errors.Is(msg.err, io.EOF):
			m.done = true
			return m, nil
		case msg.err != nil:
			m.err = msg.err
			m.done = true
			return m, nil
		default:
			m.pulling = true
			return m, m.pullCmd()
		}

	case logEntryMsg:
		if msg.line != "" {
			m.logLines = append(m.logLines, msg.line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
		}
		return m, m.logTailCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true)
	watchLogStyle   = lipgloss.NewStyle().Faint(true)
	watchErrStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func (m watchModel) View() string {
	status := "encoding"
	if m.done {
		status = "done"
	}
	if m.err != nil {
		status = "error"
	}

	header := watchTitleStyle.Render(fmt.Sprintf("fluxjson watch — %s", status))
	bar := m.prog.ViewAs(progressFraction(m.totalBytes, m.chunkSize))

	spin := ""
	if !m.done && (m.enc.Awaiting() || m.pulling) {
		spin = " " + m.spin.View()
	}

	body := fmt.Sprintf("%s\n\n%d bytes emitted%s\n%s\n", header, m.totalBytes, spin, bar)

	if m.err != nil {
		body += "\n" + watchErrStyle.Render(m.err.Error()) + "\n"
	}

	if len(m.logLines) > 0 {
		body += "\n" + watchLogStyle.Render("recent log entries:") + "\n"
		for _, line := range m.logLines {
			body += watchLogStyle.Render(line) + "\n"
		}
	}

	if m.done {
		body += "\npress q to quit\n"
	}

	return body
}

// progressFraction produces a bounded, ever-advancing fraction for the
// progress bar: there is no fixed total size to measure against (the
// document is produced incrementally), so each full chunk nudges the bar
// forward and it saturates near 1 rather than claiming false precision.
func progressFraction(totalBytes, chunkSize int) float64 {
	if chunkSize <= 0 {
		chunkSize = fluxjson.DefaultChunkSize
	}
	chunks := float64(totalBytes) / float64(chunkSize)
	f := 1 - 1/(1+chunks/4)
	if f > 1 {
		f = 1
	}
	return f
}
