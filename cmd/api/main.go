package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/renderdragon/backend/docs"
	"github.com/renderdragon/backend/internal/auth"
	"github.com/renderdragon/backend/internal/cache"
	"github.com/renderdragon/backend/internal/config"
	"github.com/renderdragon/backend/internal/handlers"
	"github.com/renderdragon/backend/internal/logger"
	"github.com/renderdragon/backend/internal/repositories"
	"github.com/renderdragon/backend/internal/scheduler"
	"github.com/renderdragon/backend/internal/services"
	"github.com/renderdragon/backend/internal/sources"
	"go.uber.org/zap"
)

// @title RenderDragon Resource Hub API
// @version 1.0
// @description Aggregated, cached catalog of creator resources with download counting and favorites

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for cache maintenance endpoints
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session access token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Resource Hub API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// JSON cache backend: Redis when configured, process memory otherwise
	backend, closeBackend := newCacheBackend(cfg)
	defer closeBackend()

	resourceCache := cache.NewStore(backend, cache.ResourcePrefix, cfg.Cache.ResourceTTL, logger.Logger)
	apiCache := cache.NewStore(backend, cache.APIPrefix, cfg.Cache.APITTL, logger.Logger)

	blobs, err := cache.NewBinaryCache(&http.Client{Timeout: 2 * time.Minute}, cfg.Cache.BinaryMaxBytes, cfg.Cache.BinaryTTL, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to create binary cache", zap.Error(err))
	}
	defer blobs.Close()

	// Upstream sources
	fetcher := sources.NewClient(&http.Client{Timeout: cfg.Sources.FetchTimeout}, logger.Logger)
	staticSource := sources.NewStaticSource(fetcher, cfg.Sources.SiteBaseURL)
	workerSource := sources.NewWorkerSource(fetcher, cfg.Sources.WorkerAPIURL)
	mciSource := sources.NewMCISource(fetcher, cfg.Sources.MCIAPIURL)

	// Initialize repositories
	resourceRepo := repositories.NewResourceRepository(db, logger.Logger)
	downloadRepo := repositories.NewDownloadRepository(db, logger.Logger)
	favoriteRepo := repositories.NewFavoriteRepository(db)

	// Initialize services
	counter := services.NewDownloadCounter(downloadRepo, logger.Logger)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	if err := counter.Load(loadCtx); err != nil {
		logger.Logger.Warn("Starting with empty download counts", zap.Error(err))
	}
	cancelLoad()

	resourceSources := services.ResourceSources{
		Static: staticSource,
		Icons:  mciSource,
		Repo:   resourceRepo,
	}
	if workerSource.Enabled() {
		resourceSources.Worker = workerSource
	}

	resourceService := services.NewResourceService(resourceSources, resourceCache, apiCache, counter, logger.Logger)
	downloadService := services.NewDownloadService(resourceService, blobs, counter, logger.Logger)
	favoriteService := services.NewFavoriteService(favoriteRepo, logger.Logger)
	accountService := services.NewAccountService(
		&http.Client{Timeout: 15 * time.Second},
		cfg.Supabase.URL,
		cfg.Supabase.ServiceRoleKey,
		favoriteRepo,
		logger.Logger,
	)
	cacheService := services.NewCacheService(resourceCache, apiCache, blobs, logger.Logger)

	// Initialize handlers
	routerOpts := handlers.RouterOptions{
		Resources:      handlers.NewResourceHandler(resourceService, favoriteService, logger.Logger),
		Downloads:      handlers.NewDownloadHandler(downloadService, counter, logger.Logger),
		Favorites:      handlers.NewFavoriteHandler(favoriteService, logger.Logger),
		Account:        handlers.NewAccountHandler(accountService, logger.Logger),
		Cache:          handlers.NewCacheHandler(cacheService, resourceService, logger.Logger),
		Health:         handlers.NewHealthHandler(db, logger.Logger),
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimit:      100,
		SwaggerURL:     fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port),
		Logger:         logger.Logger,
	}
	if cfg.Supabase.JWTSecret != "" {
		routerOpts.Verifier = auth.NewTokenVerifier(cfg.Supabase.JWTSecret)
	} else {
		logger.Logger.Warn("SUPABASE_JWT_SECRET is not set, favorites and account endpoints are disabled")
	}
	r := handlers.NewRouter(routerOpts)

	// Cache warmer
	warmer, err := scheduler.NewScheduler(resourceService, cfg.Cache.RefreshSchedule, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	warmer.Start()

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
	warmer.Stop()
	downloadService.Wait()

	logger.Logger.Info("Server exited")
}

// newCacheBackend connects to Redis when it is configured and falls back to process memory
func newCacheBackend(cfg *config.Config) (cache.Backend, func()) {
	addr := cfg.RedisAddr()
	if addr == "" {
		logger.Logger.Info("REDIS_HOST is not set, using in-memory cache")
		return cache.NewMemoryBackend(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn("Failed to connect to Redis, using in-memory cache", zap.Error(err))
		rdb.Close()
		return cache.NewMemoryBackend(), func() {}
	}

	return cache.NewRedisBackend(rdb), func() { rdb.Close() }
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "resourcehub_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directories if running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
