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

// Package dispatcher owns the event loop and worker pool: it accepts
// FastCGI connections, matches each request's method and path against the
// compiled routes, and hands off to the matching Task Processor.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/fcgi"
	"strings"

	oversight "cirello.io/oversight/easy"

	"stone.skipper/responder/internal/processor"
	"stone.skipper/responder/internal/task"
)

// boundRoute pairs a compiled route and HTTP method with the Processor that
// serves it.
type boundRoute struct {
	method string
	task   *task.Task
	proc   *processor.Processor
}

// Dispatcher matches requests against a Task Catalog and serves them over
// FastCGI.
type Dispatcher struct {
	routes []boundRoute
	Logger *log.Logger
}

// New builds a Dispatcher serving every task in cat. For each task, two
// routes are registered in declaration order: GET routes to a
// WaitingForResult Processor, POST routes to a Detached one. l is shared by
// every Processor to launch processes. recorder may be nil; when set, it
// observes every completed launch for diagnostics purposes only.
func New(cat *task.Catalog, l processor.Launcher, logger *log.Logger, recorder processor.Recorder) *Dispatcher {
	d := &Dispatcher{Logger: logger}
	for _, t := range cat.Tasks {
		waiting := processor.New(t, task.WaitingForResult, l, logger)
		waiting.Recorder = recorder
		detached := processor.New(t, task.Detached, l, logger)
		detached.Recorder = recorder
		d.routes = append(d.routes,
			boundRoute{method: http.MethodGet, task: t, proc: waiting},
			boundRoute{method: http.MethodPost, task: t, proc: detached},
		)
	}
	return d
}

// ServeHTTP matches req against the compiled routes in declaration order,
// first match wins. No match replies 404 "Unknown task".
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for _, r := range d.routes {
		if r.method != req.Method {
			continue
		}
		captures, ok := r.task.Route.Match(req.URL.Path)
		if !ok {
			continue
		}
		r.proc.Handle(req.Context(), w, req, captures)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "Unknown task")
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// listen opens addr per the external interface contract: a string
// containing a colon is a TCP "host:port" endpoint; anything else is a
// Unix-domain socket path.
func listen(addr string) (net.Listener, error) {
	if strings.Contains(addr, ":") {
		return net.Listen("tcp", addr)
	}
	return net.Listen("unix", addr)
}

// Serve binds addr and serves FastCGI requests on it until ctx is
// cancelled. threads independent workers share the same listener, each
// pumping net/http/fcgi's accept loop; a worker that panics is restarted by
// the supervisor without disturbing in-flight requests on the others.
func (d *Dispatcher) Serve(ctx context.Context, addr string, threads int) error {
	if threads < 1 {
		return fmt.Errorf("dispatcher: threads must be positive, got %d", threads)
	}

	l, err := listen(addr)
	if err != nil {
		return fmt.Errorf("dispatcher: cannot bind %s: %w", addr, err)
	}
	d.logf("listening on %s", l.Addr())

	svCtx := oversight.WithContext(ctx, oversight.WithLogger(d.logger()))
	for i := 0; i < threads; i++ {
		oversight.Add(svCtx, func(context.Context) error {
			err := fcgi.Serve(l, d)
			if err != nil && !errors.Is(err, net.ErrClosed) {
				d.logf("fcgi worker stopped: %v", err)
				return err
			}
			return nil
		}, oversight.RestartWith(oversight.Transient()))
	}

	<-ctx.Done()
	l.Close()
	return nil
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}
