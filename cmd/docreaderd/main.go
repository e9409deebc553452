// Command docreaderd serves DOCX and PPTX to PDF conversion over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/stellarshenson/jupyterlab-doc-reader-extension/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "docreaderd:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = pflag.String("config", "", "path to YAML config file")
		listen     = pflag.String("listen", "", "listen address (overrides config)")
		rootDir    = pflag.String("root", "", "directory to serve documents from (overrides config)")
		baseURL    = pflag.String("base-url", "", "URL prefix for all routes (overrides config)")
		fontDir    = pflag.String("font-dir", "", "font directory to probe instead of /usr/share/fonts/truetype (overrides config)")
		debug      = pflag.Bool("debug", false, "enable debug logging")
	)
	pflag.Parse()

	cfg := server.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = server.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *rootDir != "" {
		cfg.RootDir = *rootDir
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *fontDir != "" {
		cfg.FontDir = *fontDir
	}
	if *debug {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if info, err := os.Stat(cfg.RootDir); err != nil || !info.IsDir() {
		return fmt.Errorf("root directory %q is not usable", cfg.RootDir)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(cfg, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen, "root", cfg.RootDir, "base_url", cfg.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}
	return nil
}
