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

// Package processor implements the per-request logic: fill a Task's
// placeholders from the route captures and query string, launch the
// resulting ProcessCfg in the requested mode, and write the HTTP response.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"stone.skipper/responder/internal/command"
	"stone.skipper/responder/internal/launcher"
	"stone.skipper/responder/internal/task"
)

// Launcher is the subset of launcher.Launcher that a Processor needs. Tests
// substitute a fake satisfying this interface in place of a real,
// os/exec-backed launcher.
type Launcher interface {
	Launch(ctx context.Context, cfg task.ProcessCfg, onResult func(task.ProcessResult)) error
}

// Recorder observes completed launches for diagnostics purposes only; it
// never influences routing or the HTTP response. A nil Recorder disables
// recording.
type Recorder interface {
	Record(route, command string, result task.ProcessResult, duration time.Duration)
}

// Processor handles requests for one Task in one LaunchMode.
type Processor struct {
	Task     *task.Task
	Mode     task.LaunchMode
	Launcher Launcher
	Logger   *log.Logger
	Recorder Recorder
}

// New returns a Processor bound to t, mode, and l.
func New(t *task.Task, mode task.LaunchMode, l Launcher, logger *log.Logger) *Processor {
	return &Processor{Task: t, Mode: mode, Launcher: l, Logger: logger}
}

func (p *Processor) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// Handle materializes the task's command against routeCaptures (zipped with
// p.Task.Route.Params) and req's query string, then launches it in p.Mode,
// writing the response to w per the reply mapping in the design.
func (p *Processor) Handle(ctx context.Context, w http.ResponseWriter, req *http.Request, routeCaptures []string) {
	cfg, missing := p.materialize(routeCaptures, req)
	if missing != "" {
		p.logf("task %s: missing parameter %q", req.URL.Path, missing)
		writeStatus(w, http.StatusUnprocessableEntity, fmt.Sprintf("missing parameter: %s", missing))
		return
	}

	switch p.Mode {
	case task.Detached:
		p.handleDetached(ctx, w, cfg)
	default:
		p.handleWaiting(ctx, w, cfg)
	}
}

// materialize clones the task's ProcessCfg template and substitutes every
// placeholder named in CommandParams, preferring a route capture over a
// query-string value of the same name. It returns the name of the first
// placeholder that resolves to neither.
func (p *Processor) materialize(routeCaptures []string, req *http.Request) (task.ProcessCfg, string) {
	cfg := p.Task.Process.Clone()

	routeValues := make(map[string]string, len(p.Task.Route.Params))
	for i, name := range p.Task.Route.Params {
		if i < len(routeCaptures) {
			routeValues[name] = routeCaptures[i]
		}
	}
	query := req.URL.Query()

	lookup := func(name string) (string, bool) {
		if v, ok := routeValues[name]; ok {
			return v, true
		}
		if query.Has(name) {
			return query.Get(name), true
		}
		return "", false
	}

	result, missing := command.Substitute(cfg.Command, lookup)
	cfg.Command = result
	return cfg, missing
}

func (p *Processor) handleWaiting(ctx context.Context, w http.ResponseWriter, cfg task.ProcessCfg) {
	started := time.Now()
	done := make(chan task.ProcessResult, 1)
	err := p.Launcher.Launch(ctx, cfg, func(r task.ProcessResult) { done <- r })
	if err != nil {
		p.writeLaunchError(w, err)
		return
	}

	r := <-done
	p.record(cfg.Command, r, time.Since(started))
	if r.ExitCode == 0 {
		writeStatus(w, http.StatusOK, r.Output)
		return
	}
	writeStatus(w, http.StatusOK, r.Output+"\n"+r.ErrorOutput)
}

// handleDetached launches cfg under a context decoupled from the request:
// the FastCGI handler returns as soon as the process has started, and the
// request's context is cancelled right after, but the child must run to
// completion regardless of whether the client is still connected.
func (p *Processor) handleDetached(ctx context.Context, w http.ResponseWriter, cfg task.ProcessCfg) {
	launchCtx := context.WithoutCancel(ctx)
	started := time.Now()
	err := p.Launcher.Launch(launchCtx, cfg, func(r task.ProcessResult) {
		p.logf("detached task exited with status %d", r.ExitCode)
		p.record(cfg.Command, r, time.Since(started))
	})
	if err != nil {
		p.writeLaunchError(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "launched and detached")
}

func (p *Processor) record(materializedCommand string, r task.ProcessResult, duration time.Duration) {
	if p.Recorder == nil {
		return
	}
	p.Recorder.Record(p.Task.Route.Matcher.String(), materializedCommand, r, duration)
}

func (p *Processor) writeLaunchError(w http.ResponseWriter, err error) {
	var notFound *launcher.ErrExecutableNotFound
	var unclosed *command.ErrUnclosedQuotation
	switch {
	case errors.As(err, &notFound):
		p.logf("executable not found: %v", err)
		writeStatus(w, http.StatusFailedDependency, err.Error())
	case errors.As(err, &unclosed),
		errors.Is(err, launcher.ErrInvalidCommand),
		errors.Is(err, launcher.ErrEmptyCommand):
		p.logf("cannot materialize command: %v", err)
		writeStatus(w, http.StatusFailedDependency, err.Error())
	default:
		p.logf("launch failed: %v", err)
		writeStatus(w, http.StatusFailedDependency, err.Error())
	}
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}
