// CLAUDE:SUMMARY Entry point for the axbridge host — native messaging, HTTP tool API, or MCP stdio over one engine.
// Command axbridge exposes a page-capture and action engine over three
// fronts: a native messaging host (stdio frames), an HTTP tool API, and
// an MCP stdio server.
//
// Usage:
//
//	axbridge -url https://example.com                 # native host on stdio
//	axbridge -mode http -url https://example.com      # HTTP tool API
//	axbridge -mode mcp -config axbridge.yaml          # MCP over stdio
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/axbridge/axtree"
	"github.com/hazyhaar/axbridge/bridge"
	"github.com/hazyhaar/axbridge/connectivity"
	"github.com/hazyhaar/axbridge/dbopen"
	"github.com/hazyhaar/axbridge/observability"
	"github.com/hazyhaar/axbridge/surface/rodpage"
)

func main() {
	configPath := flag.String("config", "", "path to axbridge.yaml config file")
	mode := flag.String("mode", "native", "front to serve: native, http, mcp")
	pageURL := flag.String("url", "", "page to drive (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// stdout carries the native messaging and MCP streams; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *mode, *pageURL); err != nil {
		logger.Error("axbridge: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, mode, pageURL string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if pageURL != "" {
		cfg.URL = pageURL
	}
	if cfg.URL == "" {
		return fmt.Errorf("no page URL: pass -url or set url in the config")
	}
	cfg.Browser.Logger = logger

	// Browser and page.
	mgr := rodpage.NewManager(cfg.Browser)
	if err := mgr.Start(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	page, err := mgr.Open(ctx, cfg.URL)
	if err != nil {
		return err
	}
	defer page.Close()

	// Engine and routing.
	engine := axtree.New(page, &cfg.Engine, logger)
	router := connectivity.New(connectivity.WithLogger(logger))
	defer router.Close()
	engine.RegisterConnectivity(router)

	if cfg.RoutesDB != "" {
		routesDB, err := connectivity.OpenDB(cfg.RoutesDB)
		if err != nil {
			return fmt.Errorf("routes db: %w", err)
		}
		defer routesDB.Close()
		if err := connectivity.Init(routesDB); err != nil {
			return fmt.Errorf("routes init: %w", err)
		}
		router.RegisterTransport("http", connectivity.HTTPFactory())
		if err := router.Reload(ctx, routesDB); err != nil {
			return fmt.Errorf("routes reload: %w", err)
		}
		go router.Watch(ctx, routesDB, 2*time.Second)
	}

	// Observability.
	var dispatcherOpts []bridge.DispatcherOption
	dispatcherOpts = append(dispatcherOpts, bridge.WithLogger(logger))
	if cfg.ObservabilityDB != "" {
		obsDB, err := dbopen.Open(cfg.ObservabilityDB, dbopen.WithMkdirAll())
		if err != nil {
			return fmt.Errorf("observability db: %w", err)
		}
		defer obsDB.Close()
		if err := observability.Init(obsDB); err != nil {
			return fmt.Errorf("observability init: %w", err)
		}
		dispatcherOpts = append(dispatcherOpts, bridge.WithCallLogger(observability.NewCallLogger(obsDB)))

		hb := observability.NewHeartbeatWriter(obsDB, "axbridge", 30*time.Second)
		hb.Start(ctx)
		defer hb.Stop()

		go runRetention(ctx, logger, obsDB, cfg.Retention)
	}

	d := bridge.NewDispatcher(router, dispatcherOpts...)

	switch mode {
	case "native":
		logger.Info("axbridge: native host starting", "url", cfg.URL)
		host := bridge.NewHost(d, os.Stdin, os.Stdout, &cfg.Bridge, logger)
		return host.Run(ctx)

	case "http":
		return serveHTTP(ctx, logger, d, cfg.Bridge)

	case "mcp":
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "axbridge",
			Version: "1.0.0",
		}, nil)
		engine.RegisterMCP(srv)
		logger.Info("axbridge: mcp stdio starting", "url", cfg.URL)
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	return fmt.Errorf("unknown mode %q", mode)
}

// runRetention prunes old observability rows once at startup, then daily.
func runRetention(ctx context.Context, logger *slog.Logger, db *sql.DB, cfg observability.RetentionConfig) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if err := observability.Cleanup(ctx, db, cfg); err != nil {
			logger.Warn("axbridge: retention cleanup", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func serveHTTP(ctx context.Context, logger *slog.Logger, d *bridge.Dispatcher, cfg bridge.Config) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           d.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("axbridge: http starting", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
