/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/suparena/recordstore"
	"github.com/suparena/recordstore/config"
	"github.com/suparena/recordstore/console"
	"github.com/suparena/recordstore/logging"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configFlag  = flag.String("config", "", "Path to a YAML config file")
	envFlag     = flag.String("env", ".env", "Path to a dotenv file")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := recordstore.GetVersionInfo()
		fmt.Printf("RecordStore hbnb version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hbnb: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag, *envFlag)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := recordstore.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := reg.Reload(ctx); err != nil {
		return err
	}

	prompt := console.DefaultPrompt
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		prompt = ""
	}
	return console.New(reg, os.Stdin, os.Stdout,
		console.WithPrompt(prompt),
		console.WithLogger(logger),
	).Run(ctx)
}
