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

import "fmt"

// Catalog holds the immutable set of compiled Tasks. It is built once from
// validated configuration at startup and safely shared, read-only, across
// every request handler.
type Catalog struct {
	Tasks []*Task
}

// NewCatalog compiles every TaskConfig in configs, in order, using
// shellPrefix for tasks configured with Command. It fails on the first
// invalid task, naming its route.
func NewCatalog(configs []TaskConfig, shellPrefix string) (*Catalog, error) {
	tasks := make([]*Task, 0, len(configs))
	for i, cfg := range configs {
		t, err := Compile(cfg, shellPrefix)
		if err != nil {
			return nil, fmt.Errorf("catalog: task #%d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return &Catalog{Tasks: tasks}, nil
}
