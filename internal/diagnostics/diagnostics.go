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

// Package diagnostics exposes a small, loopback-only admin page listing
// recently completed task launches. It is purely observational: it never
// shows an in-flight launch and never influences routing or responses.
package diagnostics

import (
	"context"
	_ "embed"
	"html/template"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	terminal "github.com/buildkite/terminal-to-html/v3"

	"stone.skipper/responder/internal/task"
)

// Launch is one recorded, completed task launch.
type Launch struct {
	Route       string
	Command     string
	ExitCode    int
	Duration    time.Duration
	Output      string
	ErrorOutput string
	FinishedAt  time.Time
}

// RenderedOutput returns Output rendered through the ANSI-to-HTML
// terminal renderer for display on the diagnostics page.
func (l Launch) RenderedOutput() template.HTML {
	return template.HTML(terminal.Render([]byte(l.Output)))
}

// RenderedErrorOutput is RenderedOutput's counterpart for ErrorOutput.
func (l Launch) RenderedErrorOutput() template.HTML {
	return template.HTML(terminal.Render([]byte(l.ErrorOutput)))
}

const defaultCapacity = 50

// Recorder keeps a bounded ring of the most recent completed launches.
// It is safe for concurrent use; Processors call Record from their own
// goroutines.
type Recorder struct {
	mu       sync.Mutex
	launches []Launch
	capacity int
}

// NewRecorder returns a Recorder retaining up to capacity launches (50 if
// capacity <= 0).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Recorder{capacity: capacity}
}

// Record appends a completed launch, evicting the oldest once capacity is
// exceeded. It satisfies processor.Recorder.
func (r *Recorder) Record(route, command string, result task.ProcessResult, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launches = append(r.launches, Launch{
		Route:       route,
		Command:     command,
		ExitCode:    result.ExitCode,
		Duration:    duration,
		Output:      result.Output,
		ErrorOutput: result.ErrorOutput,
		FinishedAt:  time.Now(),
	})
	if over := len(r.launches) - r.capacity; over > 0 {
		r.launches = r.launches[over:]
	}
}

// Recent returns the recorded launches, most recent last.
func (r *Recorder) Recent() []Launch {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Launch, len(r.launches))
	copy(out, r.launches)
	return out
}

//go:embed recent.tpl
var recentPageTPL string

var recentPage = template.Must(template.New("recent").Parse(recentPageTPL))

// Server renders the diagnostics page.
type Server struct {
	Recorder *Recorder
	Logger   *log.Logger
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	launches := s.Recorder.Recent()
	if err := recentPage.Execute(w, launches); err != nil {
		s.logf("diagnostics: render failed: %v", err)
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// Serve binds addr over TCP exactly as given and serves the diagnostics
// page until ctx is cancelled. Keeping it on a loopback address is up to
// whoever sets --diagnosticsAddress; nothing here restricts it. An empty
// addr disables diagnostics entirely.
func Serve(ctx context.Context, addr string, recorder *Recorder, logger *log.Logger) error {
	if addr == "" {
		return nil
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: &Server{Recorder: recorder, Logger: logger}}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if logger != nil {
		logger.Printf("diagnostics page listening on %s", l.Addr())
	}
	if err := srv.Serve(l); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
