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

//go:build !windows
// +build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// configureProcGroup puts the child in its own process group so that a
// cancelled context can reach the whole tree the child spawns, not just the
// direct child itself.
func configureProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		pgid := -cmd.Process.Pid
		return syscall.Kill(pgid, syscall.SIGKILL)
	}
}

// DefaultShellPrefix is the shell prefix a command-style task runs under
// when neither the configuration document nor the --shell flag sets one.
const DefaultShellPrefix = "bash -ceo pipefail"
