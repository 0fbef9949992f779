// Package main is the entry point for the inkpress API server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/auth"
	"inkpress/internal/cache"
	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/handlers"
	"inkpress/internal/router"
	"inkpress/internal/service"
	"inkpress/internal/storage"
	"inkpress/internal/store"
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
		"storage", cfg.StorageDriver,
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

	// Connect to Valkey if configured. The response cache degrades to a
	// no-op without it.
	var postCache *cache.PostCache
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		postCache = cache.NewPostCache(valkeyClient, cache.DefaultPostTTL)
	} else {
		slog.Warn("valkey not configured — response caching disabled")
	}

	// Select the file storage driver.
	var files storage.Store
	switch cfg.StorageDriver {
	case "s3":
		files, err = storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey,
			cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize s3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	default:
		files = storage.NewLocal(cfg.UploadRoot)
		slog.Info("local storage ready", "root", cfg.UploadRoot)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	commentStore := store.NewCommentStore(db)

	// Domain services.
	limits := service.UploadLimits{
		MaxImagesPerPost: cfg.MaxImagesPerPost,
		MaxFileBytes:     cfg.MaxFileSizeBytes,
	}
	postService := service.NewPosts(postStore, categoryStore, files, limits)
	commentService := service.NewComments(commentStore, postStore)
	categoryService := service.NewCategories(categoryStore)
	searchService := service.NewSearch(postStore, categoryStore)

	// Token signing and handler groups.
	tokens := auth.NewTokens(cfg.JWTSecret)

	deps := router.Deps{
		Tokens:     tokens,
		Auth:       handlers.NewAuth(userStore, tokens),
		Posts:      handlers.NewPosts(postService, files, postCache),
		Comments:   handlers.NewComments(commentService),
		Categories: handlers.NewCategories(categoryService),
		Search:     handlers.NewSearch(searchService),
	}
	if cfg.StorageDriver == "local" {
		deps.UploadDir = cfg.UploadRoot
	}

	r := router.New(deps)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate multi-file image uploads.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
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
