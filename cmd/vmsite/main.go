// Copyright (c) 2025-2026 Victorian Monkey
// SPDX-License-Identifier: GPL-3.0-or-later

// vmsite serves the Victorian Monkey club website API.
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
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/victorianmonkey/vmsite/internal/cache"
	"github.com/victorianmonkey/vmsite/internal/config"
	"github.com/victorianmonkey/vmsite/internal/handler/api"
	"github.com/victorianmonkey/vmsite/internal/identity"
	"github.com/victorianmonkey/vmsite/internal/mailer"
	"github.com/victorianmonkey/vmsite/internal/middleware"
	"github.com/victorianmonkey/vmsite/internal/scheduler"
	"github.com/victorianmonkey/vmsite/internal/session"
	"github.com/victorianmonkey/vmsite/internal/store"
	"github.com/victorianmonkey/vmsite/internal/translation"
	"github.com/victorianmonkey/vmsite/internal/turnstile"
)

// Version information, injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "vmsite - Victorian Monkey club website server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_DB_PATH               SQLite database path (default: ./data/vmsite.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_DB_HOST               MySQL host (switches the server to MySQL)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_LOGTO_ENDPOINT        Identity provider endpoint (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_MAILGUN_API_KEY       Mailgun API key (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_TURNSTILE_SECRET_KEY  Cloudflare Turnstile secret (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VM_REDIS_URL             Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("vmsite %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Database
	var db *sql.DB
	driver := "sqlite"
	if cfg.UseMySQL() {
		driver = "mysql"
		slog.Info("connecting to MySQL", "host", cfg.DBHost, "database", cfg.DBName)
		db, err = store.NewMySQLDB(cfg.MySQLDSN())
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		slog.Info("opening SQLite database", "path", cfg.DBPath)
		db, err = store.NewSQLiteDB(cfg.DBPath)
	}
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db, driver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	queries := store.New(db)
	resolver := translation.NewResolver(queries)

	// Menu cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	var menuCache cache.Cache
	if cfg.UseRedisCache() {
		menuCache, err = cache.NewRedis(cfg.RedisURL, cfg.CachePrefix, cacheTTL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("using Redis cache", "prefix", cfg.CachePrefix)
	} else {
		menuCache = cache.NewMemory(cacheTTL)
	}
	defer func() { _ = menuCache.Close() }()

	// Identity provider
	var gate identity.Gate
	var provider api.AuthProvider
	var sessions *scs.SessionManager
	if cfg.AuthEnabled() {
		client := identity.NewClient(cfg.LogtoEndpoint, cfg.LogtoAppID, cfg.LogtoAppSecret)
		gate = client
		provider = client
		sessions = session.New(db, !cfg.UseMySQL(), cfg.IsDevelopment())
		slog.Info("identity provider configured", "endpoint", cfg.LogtoEndpoint)
	} else {
		gate = identity.NewClient("", "", "")
		slog.Warn("identity provider not configured, mutations will be rejected")
	}

	// Turnstile
	verifier := turnstile.NewClient(cfg.TurnstileSecretKey)
	if verifier.Enabled() {
		slog.Info("turnstile verification enabled")
	}

	// Mail
	sender := mailer.New(mailer.Config{
		APIKey:   cfg.MailgunAPIKey,
		Domain:   cfg.MailgunDomain,
		From:     cfg.MailgunFrom,
		FromName: cfg.MailgunFromName,
		To:       cfg.NotifyAddress(),
	})
	if sender.Enabled() {
		slog.Info("contact notifications enabled", "to", cfg.NotifyAddress())
	}

	// Scheduled publishing
	sched := scheduler.New(queries, logger)
	if err := sched.PublishDue(context.Background()); err != nil {
		slog.Error("startup publish pass failed", "error", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	apiHandler := api.New(api.Options{
		Queries:  queries,
		Gate:     gate,
		Provider: provider,
		Resolver: resolver,
		Verifier: verifier,
		Mailer:   sender,
		Cache:    menuCache,
		Sessions: sessions,
		Config:   cfg,
		Logger:   logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Logger(logger))
	r.Mount("/api", apiHandler.Routes())
	r.Get("/rss.xml", apiHandler.RSSFeed)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
