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

// Package config reads the Shoal-flavored (TOML) configuration document
// described in the responder's external interfaces, validates it into a
// Config ready for the Task Catalog, and bootstraps a placeholder file when
// none exists yet at the default location.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"stone.skipper/responder/internal/task"
)

// DefaultConfigDirName is the subdirectory of the user's config directory
// stone_skipper uses by default.
const DefaultConfigDirName = "stone_skipper"

// DefaultConfigFileName is the file name used inside DefaultConfigDirName.
const DefaultConfigFileName = "stone_skipper.cfg"

// Config is the top-level parsed document.
type Config struct {
	// Shell overrides the CLI default shell prefix, if set.
	Shell string
	// Tasks is the validated list of configured tasks, ready for
	// task.NewCatalog.
	Tasks []task.TaskConfig
}

// document mirrors the on-disk TOML shape.
type document struct {
	Shell string      `toml:"shell"`
	Tasks []taskEntry `toml:"tasks"`
}

type taskEntry struct {
	Route      string `toml:"route"`
	Command    string `toml:"command"`
	Process    string `toml:"process"`
	WorkingDir string `toml:"workingDir"`
}

// DefaultPath returns "<user-config-dir>/stone_skipper/stone_skipper.cfg".
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine user config directory: %w", err)
	}
	return filepath.Join(dir, DefaultConfigDirName, DefaultConfigFileName), nil
}

// Load reads and validates the configuration document at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and validates a configuration document from r.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read document: %w", err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: invalid document: %w", err)
	}

	cfg := &Config{Shell: doc.Shell}
	for i, entry := range doc.Tasks {
		tc := task.TaskConfig{
			Route:      entry.Route,
			Command:    entry.Command,
			Process:    entry.Process,
			WorkingDir: entry.WorkingDir,
		}
		if err := tc.Validate(); err != nil {
			return nil, fmt.Errorf("config: task #%d: %w", i, err)
		}
		cfg.Tasks = append(cfg.Tasks, tc)
	}
	return cfg, nil
}

// placeholderDocument is written by Bootstrap. It mirrors the example in
// the external interfaces spec: a commented-out sample the operator can
// fill in.
const placeholderDocument = `# stone_skipper configuration
#
# shell = "bash -ceo pipefail"
#
# [[tasks]]
#   route      = "/some/{{x}}"
#   command    = "echo {{x}}"
#   workingDir = "/some/dir"
`

// Bootstrap does nothing if path already exists. Otherwise it creates path's
// parent directories and writes a placeholder document to it, reporting
// created = true.
func Bootstrap(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("config: cannot stat %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("config: cannot create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(placeholderDocument), 0o644); err != nil {
		return false, fmt.Errorf("config: cannot write placeholder %s: %w", path, err)
	}
	return true, nil
}
