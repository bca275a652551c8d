// Package main provides the entry point for the telcom-ops API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/internal/server"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/platform"
)

// Version is the release version of the server binary.
const Version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.address, "address", "", "Server listen address (overrides config)")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

func loadConfig(opts serverOptions) (*platform.Config, error) {
	cfg := platform.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := platform.LoadConfig(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
	return cfg, nil
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("telcom-ops version %s\n", Version)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	p, err := platform.New(cfg)
	if err != nil {
		return fmt.Errorf("creating platform: %w", err)
	}
	defer p.Close()

	ctx := setupSignalHandler()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = p.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	slog.Info("connected to redis", "addr", cfg.Redis.Addr())

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.New(p).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "address", cfg.Server.Address)
		errCh <- srv.ListenAndServe()
	}()
	p.Health.SetReady()

	select {
	case <-ctx.Done():
		p.Health.SetDraining()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
