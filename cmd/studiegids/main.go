// Package main is the entry point for the studiegids catalog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studiegids/internal/cache"
	"studiegids/internal/config"
	"studiegids/internal/database"
	"studiegids/internal/handlers"
	"studiegids/internal/ingest"
	"studiegids/internal/router"
	"studiegids/internal/scrape"
	"studiegids/internal/storage"
	"studiegids/internal/store"
	"studiegids/internal/verify"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the catalog cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	catalogCache := cache.NewCatalogCache(valkeyClient, cache.DefaultCatalogTTL)

	// Connect to S3-compatible object storage for raw-HTML snapshots
	// (optional, the app works without it).
	archive, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if archive != nil {
		slog.Info("snapshot archive connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("snapshot archive not configured, raw HTML will not be retained")
	}

	// Initialize data stores.
	courseStore := store.NewCourseStore(db)
	objectiveStore := store.NewObjectiveStore(db)
	tagStore := store.NewTagStore(db)
	profileStore := store.NewProfileStore(db)

	// The ingest pipeline needs a configured catalog source.
	var pipeline *ingest.Pipeline
	if cfg.OverviewURL != "" && cfg.SyllabusBaseURL != "" {
		fetcher := scrape.NewFetcher(scrape.FetchConfig{
			BaseURL:     cfg.SyllabusBaseURL,
			InsecureTLS: cfg.InsecureTLS,
		})
		pipeline = ingest.New(fetcher, courseStore, archive, catalogCache, ingest.Config{
			OverviewURL: cfg.OverviewURL,
			Sections:    cfg.Sections,
			Programme:   cfg.Programme,
			Language:    cfg.Language,
			Workers:     cfg.Workers,
		})
	} else {
		slog.Warn("catalog source not configured, ingest endpoint disabled")
	}

	// Verification gate for promotions and the ingest trigger.
	cred := verify.NewCredential(cfg.VerifySecret)
	gate := verify.NewGate(cred, courseStore)

	// Create handler groups with their dependencies.
	catalogHandlers := handlers.NewCatalog(courseStore, objectiveStore, tagStore, profileStore, catalogCache)
	curationHandlers := handlers.NewCuration(courseStore, gate, cred, pipeline, catalogCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(catalogHandlers, curationHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate the synchronous ingest trigger, which scrapes the whole
	// catalog before responding.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Optionally run one scrape batch at startup, in the background so the
	// API is reachable while the catalog fills.
	if cfg.ScrapeOnStart && pipeline != nil {
		go func() {
			report, err := pipeline.Run(context.Background())
			if err != nil {
				slog.Error("startup ingest batch failed", "error", err)
				return
			}
			slog.Info("startup ingest batch finished", "scraped", report.Scraped, "failed", report.Failed)
		}()
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
