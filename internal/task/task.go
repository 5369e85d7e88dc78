// Copyright 2026 stone_skipper contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package task holds the configured route/command model: TaskConfig as read
// from configuration, the compiled, immutable Task built from it, and the
// ProcessCfg template each request clones and substitutes.
package task

import (
	"fmt"
	"os"
	"strings"

	"stone.skipper/responder/internal/command"
)

// TaskConfig is one task as read from configuration, before compilation.
type TaskConfig struct {
	Route      string
	Command    string
	Process    string
	WorkingDir string
}

// Validate enforces the TaskConfig invariants from the data model: the
// route must start with "/", and exactly one of Command/Process must be
// set.
func (c TaskConfig) Validate() error {
	if !strings.HasPrefix(c.Route, "/") {
		return fmt.Errorf("task %q: route must start with '/'", c.Route)
	}
	if (c.Command == "") == (c.Process == "") {
		return fmt.Errorf("task %q: exactly one of command/process must be set", c.Route)
	}
	return nil
}

// ProcessCfg is a plan for running a single child process. The template
// lives attached to a Task; each request clones it before substituting
// placeholders.
type ProcessCfg struct {
	// Command is the command string, with {{name}} placeholders before
	// substitution and fully materialized after.
	Command string
	// ShellCommand is the shell prefix to prepend, present iff the task
	// was configured with Command (absent iff Process).
	ShellCommand string
	HasShell     bool
	// WorkingDir is the directory the child process runs in, if set.
	WorkingDir string
	// CommandParams is the ordered multiset of placeholder names found in
	// Command at compile time.
	CommandParams []string
}

// Clone returns a copy of cfg safe to mutate independently.
func (cfg ProcessCfg) Clone() ProcessCfg {
	out := cfg
	out.CommandParams = append([]string(nil), cfg.CommandParams...)
	return out
}

// Task is the compiled, immutable form of a TaskConfig, built once at
// startup and shared read-only across every request handler.
type Task struct {
	Route   *command.Route
	Process ProcessCfg
}

// Compile builds a Task from a validated TaskConfig. shellPrefix is the
// configured shell (e.g. "bash -ceo pipefail") attached to the resulting
// ProcessCfg when the task was configured with Command.
func Compile(cfg TaskConfig, shellPrefix string) (*Task, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	route, err := command.CompileRoute(cfg.Route)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", cfg.Route, err)
	}

	workingDir := cfg.WorkingDir
	if workingDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("task %q: cannot determine home directory: %w", cfg.Route, err)
		}
		workingDir = home
	}

	proc := ProcessCfg{WorkingDir: workingDir}
	if cfg.Command != "" {
		proc.Command = cfg.Command
		proc.ShellCommand = shellPrefix
		proc.HasShell = true
	} else {
		proc.Command = cfg.Process
	}
	proc.CommandParams = command.Placeholders(proc.Command)

	return &Task{Route: route, Process: proc}, nil
}

// ProcessResult is produced exactly once per successful launch.
type ProcessResult struct {
	ExitCode    int
	Output      string
	ErrorOutput string
}

// LaunchMode selects how a Task Processor awaits (or doesn't) a launch.
type LaunchMode int

const (
	// WaitingForResult blocks until the process exits and returns its
	// captured output as the HTTP response.
	WaitingForResult LaunchMode = iota
	// Detached acknowledges the launch immediately; completion is only
	// logged.
	Detached
)

func (m LaunchMode) String() string {
	switch m {
	case WaitingForResult:
		return "WaitingForResult"
	case Detached:
		return "Detached"
	default:
		return "unknown"
	}
}
