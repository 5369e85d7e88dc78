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

package launcher

import (
	"os/exec"
	"path/filepath"
)

// lookPath resolves executable against the platform's normal executable
// search path, augmented with workingDir: a bare name is also tried as
// workingDir/name before giving up. This is a convenience for tasks that
// ship a script alongside their working directory, not a security feature.
func lookPath(executable, workingDir string) (string, error) {
	if filepath.IsAbs(executable) || containsPathSeparator(executable) {
		return exec.LookPath(executable)
	}
	if workingDir != "" {
		candidate := filepath.Join(workingDir, executable)
		if p, err := exec.LookPath(candidate); err == nil {
			return p, nil
		}
	}
	return exec.LookPath(executable)
}

func containsPathSeparator(s string) bool {
	for _, r := range s {
		if r == filepath.Separator || r == '/' {
			return true
		}
	}
	return false
}
