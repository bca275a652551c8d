// Package main provides the entry point for the field data simulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/internal/simulator"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/platform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg := platform.DefaultConfig()
	if *configPath != "" {
		loaded, err := platform.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	p, err := platform.New(cfg)
	if err != nil {
		return fmt.Errorf("creating platform: %w", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	err = p.Ping(pingCtx)
	pingCancel()
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	slog.Info("connected to redis", "addr", cfg.Redis.Addr())

	if err := simulator.New(p).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
