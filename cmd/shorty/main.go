// Package main provides the entry point for the Shorty URL shortener
// service: it validates submitted URLs, probes them for liveness, derives
// short identifiers and resolves them back with click counting.
package main

import (
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shorty/internal/cache"
	"shorty/internal/config"
	"shorty/internal/database"
	"shorty/internal/enrich"
	"shorty/internal/filter"
	httpHandler "shorty/internal/handler/http"
	"shorty/internal/probe"
	"shorty/internal/repository/postgres"
	"shorty/internal/service"
	"shorty/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting shorty service", zap.String("env", cfg.Env))

	// database
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	if cfg.Database.SeedData {
		if err := database.SeedData(db, &cfg.Owner, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	storage := postgres.New(db, log)

	// optional redis mapping cache
	var mappingCache service.MappingCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.TTL)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("failed to close redis connection", zap.Error(err))
			}
		}()
		mappingCache = redisCache
		log.Info("redis mapping cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// short code bloom filter
	codes := filter.New(cfg.Bloom.ExpectedItems, cfg.Bloom.FalsePositiveRate)

	// title enrichment worker pool
	enricher := enrich.New(storage, log, enrich.Config{
		WorkerCount:     cfg.Enrichment.WorkerCount,
		BufferSize:      cfg.Enrichment.BufferSize,
		UpdateTimeout:   cfg.Enrichment.UpdateTimeout,
		ShutdownTimeout: cfg.Enrichment.ShutdownTimeout,
	})
	if err := enricher.Start(); err != nil {
		log.Fatal("failed to start enrichment worker", zap.Error(err))
	}

	prober := probe.New(cfg.Prober.Timeout, cfg.Prober.MaxBodyBytes, log)
	shortener := service.New(storage, prober, mappingCache, codes, enricher, log)

	if err := shortener.PrimeCodeFilter(context.Background()); err != nil {
		log.Fatal("failed to prime short code filter", zap.Error(err))
	}

	// HTTP server
	apiServer := httpHandler.NewServer(storage, shortener, log, cfg.BaseURL, cfg.Owner.DefaultID)

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      apiServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down shorty service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if err := enricher.Stop(); err != nil {
		log.Error("failed to stop enrichment worker", zap.Error(err))
	}
}
