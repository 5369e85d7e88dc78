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

package task

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TaskConfig
		wantErr bool
	}{
		{"command only", TaskConfig{Route: "/hi", Command: "echo hi"}, false},
		{"process only", TaskConfig{Route: "/hi", Process: "echo hi"}, false},
		{"route missing leading slash", TaskConfig{Route: "hi", Command: "echo hi"}, true},
		{"neither command nor process", TaskConfig{Route: "/hi"}, true},
		{"both command and process", TaskConfig{Route: "/hi", Command: "echo hi", Process: "echo hi"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompileDefaultsWorkingDirToHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory available in this environment: %v", err)
	}

	tk, err := Compile(TaskConfig{Route: "/hi", Command: "echo hi"}, "bash -c")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if tk.Process.WorkingDir != home {
		t.Fatalf("WorkingDir = %q, want the user's home directory %q", tk.Process.WorkingDir, home)
	}
}

func TestCompilePreservesExplicitWorkingDir(t *testing.T) {
	tk, err := Compile(TaskConfig{Route: "/hi", Command: "echo hi", WorkingDir: "/srv/app"}, "bash -c")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if tk.Process.WorkingDir != "/srv/app" {
		t.Fatalf("WorkingDir = %q, want the explicitly configured directory", tk.Process.WorkingDir)
	}
}

func TestCompileSetsShellOnlyForCommandTasks(t *testing.T) {
	withCommand, err := Compile(TaskConfig{Route: "/hi", Command: "echo hi"}, "bash -ceo pipefail")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !withCommand.Process.HasShell || withCommand.Process.ShellCommand != "bash -ceo pipefail" {
		t.Fatalf("command task HasShell/ShellCommand = %v/%q, want true/%q", withCommand.Process.HasShell, withCommand.Process.ShellCommand, "bash -ceo pipefail")
	}

	withProcess, err := Compile(TaskConfig{Route: "/hi", Process: "echo hi"}, "bash -ceo pipefail")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if withProcess.Process.HasShell {
		t.Fatalf("process task HasShell = true, want false (no shell prefix for a literal process)")
	}
}

func TestLaunchModeString(t *testing.T) {
	if got := WaitingForResult.String(); got != "WaitingForResult" {
		t.Fatalf("WaitingForResult.String() = %q", got)
	}
	if got := Detached.String(); got != "Detached" {
		t.Fatalf("Detached.String() = %q", got)
	}
	if got := LaunchMode(99).String(); got != "unknown" {
		t.Fatalf("LaunchMode(99).String() = %q, want %q", got, "unknown")
	}
}
