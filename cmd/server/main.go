package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/catalog"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/config"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/database"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/handlers"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/logging"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/middleware"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/repository"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/router"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/services"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.WithField("env", cfg.Env).Info("🚀 Starting agriculture AI relay")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Initialize Redis Clients ────
	var (
		exchangeLog services.ExchangeLog
		emitter     services.Emitter
		redisClient *database.RedisClients
	)
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, exchange log is disabled and notifications stay in-process")
		exchangeLog = repository.NewNopExchangeLog()
	} else {
		rc, err := database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("✗ Redis connection failed")
		}
		defer rc.Close()
		redisClient = rc
		exchangeLog = repository.NewExchangeLogRepo(rc.Store)
		emitter = services.NewRedisEmitter(rc.Store)
		logger.Info("✓ Redis connected")
	}

	// ──── Step 3: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		ctx,
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiConcurrentReqs,
		cfg.UpstreamTimeout,
		logger,
	)
	if err != nil {
		logger.WithError(err).Fatal("✗ Gemini client initialization failed")
	}
	defer geminiService.Close()
	if geminiService.Configured() {
		logger.WithField("model", cfg.GeminiModel).Info("✓ Gemini client initialized")
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI endpoints will answer SERVICE_UNCONFIGURED")
	}

	// ──── Step 4: Platform Auth ────
	var (
		auth      *middleware.PlatformAuth
		validator websocket.TokenValidator
	)
	if cfg.PlatformJWTSecret != "" {
		auth = middleware.NewPlatformAuth(cfg.PlatformJWTSecret)
		validator = auth
		logger.Info("✓ Platform token verification enabled")
	}

	// ──── Step 5: Start WebSocket Hub ────
	var hub *websocket.Hub
	if redisClient != nil {
		hub = websocket.NewHub(redisClient.PubSub, services.NotificationChannel, validator, logger)
	} else {
		hub = websocket.NewHub(nil, services.NotificationChannel, validator, logger)
		emitter = hub
	}
	go hub.Run(ctx)
	logger.Info("✓ WebSocket hub started")

	// ──── Initialize Services and Handlers ────
	relayService := services.NewRelayService(geminiService, exchangeLog, emitter, logger)
	relayHandler := handlers.NewRelayHandler(relayService)
	catalogHandler := handlers.NewCatalogHandler(catalog.NewStatic())

	// ──── Step 6: Start HTTP Server ────
	r := router.New(ctx, relayHandler, catalogHandler, hub, router.Options{
		Auth:           auth,
		CORSOrigin:     cfg.CORSOrigin,
		RoutePrefix:    cfg.RoutePrefix,
		AIRateLimit:    cfg.AIRateLimitPerMin,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RequestLogging: cfg.Env == "development",
	})

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Gemini calls can take up to UpstreamTimeout.
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	logger.Infof("✓ Relay ready on http://localhost:%s%s", cfg.Port, cfg.RoutePrefix)
	logger.Infof("  WS: ws://localhost:%s%s/ws/notifications", cfg.Port, cfg.RoutePrefix)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("Server error")
		os.Exit(1)
	}
}
