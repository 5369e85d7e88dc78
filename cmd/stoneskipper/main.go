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

// Command stoneskipper is a FastCGI responder that turns declared routes
// into shell commands. Point your web server's FastCGI pass-through at its
// listening socket and configure tasks in a TOML document; see
// internal/config for the document's shape.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	cli "github.com/urfave/cli/v2"

	"stone.skipper/responder/internal/config"
	"stone.skipper/responder/internal/diagnostics"
	"stone.skipper/responder/internal/dispatcher"
	"stone.skipper/responder/internal/launcher"
	"stone.skipper/responder/internal/task"
)

func main() {
	app := &cli.App{
		Name:                 "stoneskipper",
		Usage:                "declarative FastCGI task responder",
		HideVersion:          true,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Value: "",
				Usage: "append logs to `file` in addition to standard output",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: "",
				Usage: "configuration `file` to load (defaults to the platform config directory)",
			},
			&cli.StringFlag{
				Name:     "fcgiAddress",
				Required: true,
				Usage:    "FastCGI listen `address`: host:port for TCP, or a path for a Unix socket",
			},
			&cli.StringFlag{
				Name:  "shell",
				Value: "",
				Usage: "override the shell prefix declared in the configuration document",
			},
			&cli.IntFlag{
				Name:  "threads",
				Value: 1,
				Usage: "number of worker goroutines accepting FastCGI connections",
			},
			&cli.StringFlag{
				Name:  "diagnosticsAddress",
				Value: "",
				Usage: "loopback `address` for the recent-launches diagnostics page; empty disables it",
			},
		},
		Action: mainAction,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func mainAction(c *cli.Context) error {
	logger, closeLog, err := buildLogger(c.String("log"))
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer closeLog()

	cfgPath := c.String("config")
	if cfgPath == "" {
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("cannot resolve default config path: %w", err)
		}
	}
	if created, err := config.Bootstrap(cfgPath); err != nil {
		return fmt.Errorf("cannot bootstrap config: %w", err)
	} else if created {
		logger.Printf("no configuration found, wrote a placeholder to %s", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("cannot load configuration %s: %w", cfgPath, err)
	}

	shellPrefix := cfg.Shell
	if override := c.String("shell"); override != "" {
		shellPrefix = override
	}
	if shellPrefix == "" {
		shellPrefix = launcher.DefaultShellPrefix
	}

	catalog, err := task.NewCatalog(cfg.Tasks, shellPrefix)
	if err != nil {
		return fmt.Errorf("cannot compile tasks: %w", err)
	}
	logger.Printf("loaded %d task(s) from %s", len(catalog.Tasks), cfgPath)

	l := launcher.New(logger)
	recorder := diagnostics.NewRecorder(0)
	d := dispatcher.New(catalog, l, logger, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		logger.Println("shutting down")
		cancel()
	}()

	errs := make(chan error, 2)
	go func() {
		errs <- d.Serve(ctx, c.String("fcgiAddress"), c.Int("threads"))
	}()
	go func() {
		errs <- diagnostics.Serve(ctx, c.String("diagnosticsAddress"), recorder, logger)
	}()

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			cancel()
			return fmt.Errorf("stoneskipper: %w", err)
		}
	}
	return nil
}

// buildLogger returns a logger writing to standard output and, when path is
// set, appending to that file as well, along with a func to release the
// underlying file.
func buildLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(os.Stdout, "stoneskipper: ", log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(io.MultiWriter(os.Stdout, f), "stoneskipper: ", log.LstdFlags), func() { f.Close() }, nil
}
