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

//go:build windows
// +build windows

package launcher

import "os/exec"

// configureProcGroup is a no-op on Windows: os/exec's default Cancel
// (killing the direct child) is all the platform gives us without
// additional job-object plumbing, which this responder does not need.
func configureProcGroup(cmd *exec.Cmd) {}

// DefaultShellPrefix is the shell prefix a command-style task runs under
// when neither the configuration document nor the --shell flag sets one.
const DefaultShellPrefix = "cmd.exe /c"
