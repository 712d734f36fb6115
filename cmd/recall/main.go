package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/cache"
	"github.com/lamachat/recall/internal/config"
	dbRedis "github.com/lamachat/recall/internal/db/redis"
	"github.com/lamachat/recall/internal/domain"
	logpkg "github.com/lamachat/recall/internal/logger"
	"github.com/lamachat/recall/internal/metrics"
	messagerepo "github.com/lamachat/recall/internal/repository/message"
	configrepo "github.com/lamachat/recall/internal/repository/proposalconfig"
	subjectrepo "github.com/lamachat/recall/internal/repository/subject"
	chiTransport "github.com/lamachat/recall/internal/transport/chi"
	openaiExt "github.com/lamachat/recall/internal/transport/openai"
	healthuc "github.com/lamachat/recall/internal/usecase/health"
	ingestuc "github.com/lamachat/recall/internal/usecase/ingest"
	proposaluc "github.com/lamachat/recall/internal/usecase/proposal"
	configuc "github.com/lamachat/recall/internal/usecase/proposalconfig"
	"github.com/lamachat/recall/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recall API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	domain.KeyPrefix = cfg.Storage.KeyPrefix

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register proposal metrics explicitly (no init())
	metrics.RegisterProposalMetrics()

	// Repositories
	subjectRepo := subjectrepo.New(store)
	configRepo := configrepo.New(store)
	messageRepo := messagerepo.New(store)

	// Proposal memo cache, shared between the engine and the config service
	// (config updates invalidate it).
	memo := cache.New(
		cfg.Engine.CacheCapacity,
		time.Duration(cfg.Engine.CacheTTLSec)*time.Second,
		metrics.ProposalCacheTotal,
	)

	// Use case services
	configSvc := configuc.New(configRepo, memo, logger)
	proposalSvc := proposaluc.New(subjectRepo, configSvc, memo, logger).
		WithMessages(messageRepo).
		WithDismissalCapacity(cfg.Engine.DismissalCapacity)

	extractor := openaiExt.NewExtractor(&openaiExt.Config{
		APIKey:   cfg.Extraction.APIKey,
		BaseURL:  cfg.Extraction.BaseURL,
		Model:    cfg.Extraction.Model,
		Provider: cfg.Extraction.Provider,
		Logger:   logger,
	})
	ingestSvc := ingestuc.New(extractor, subjectRepo, messageRepo, logger)

	healthSvc := healthuc.New(store, extractor)

	// Create chi server
	server := chiTransport.NewServer(proposalSvc, configSvc, ingestSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
