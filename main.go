/*
Demo application that renders a lit cube and a line of text with the
engine package on the configured backend.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/testbed"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration")
	backend := flag.String("backend", "", "overrides renderer.backend from the configuration")
	frames := flag.Uint64("frames", 3, "frames to render, 0 runs until the window closes")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		core.LogWarn("using the default configuration: %s", err)
		cfg = core.DefaultConfig()
	}
	if *backend != "" {
		cfg.Renderer.Backend = *backend
		if err := cfg.Validate(); err != nil {
			core.LogFatal("%s", err)
		}
	}

	tb := testbed.NewTestGame()

	e, err := engine.New(cfg, tb.Game)
	if err != nil {
		core.LogFatal("%s", err)
	}
	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("failed to initialize: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// stop the loop on sigterm and friends, shutdown happens on the main thread
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run(*frames)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}
