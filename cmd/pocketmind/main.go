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

	"github.com/pocketmind/pocketmind/internal/config"
	dbRedis "github.com/pocketmind/pocketmind/internal/db/redis"
	"github.com/pocketmind/pocketmind/internal/db/sqlite"
	"github.com/pocketmind/pocketmind/internal/domain"
	logpkg "github.com/pocketmind/pocketmind/internal/logger"
	"github.com/pocketmind/pocketmind/internal/metrics"
	contentrepo "github.com/pocketmind/pocketmind/internal/repository/content"
	"github.com/pocketmind/pocketmind/internal/repository/embcache"
	historyrepo "github.com/pocketmind/pocketmind/internal/repository/history"
	vectorrepo "github.com/pocketmind/pocketmind/internal/repository/vector"
	chiTransport "github.com/pocketmind/pocketmind/internal/transport/chi"
	openaiEmb "github.com/pocketmind/pocketmind/internal/transport/openai"
	captureuc "github.com/pocketmind/pocketmind/internal/usecase/capture"
	healthuc "github.com/pocketmind/pocketmind/internal/usecase/health"
	searchuc "github.com/pocketmind/pocketmind/internal/usecase/search"
	taguc "github.com/pocketmind/pocketmind/internal/usecase/tag"
	"github.com/pocketmind/pocketmind/internal/version"
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

	logger.Info("Starting pocketmind API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("vector_store_addrs", cfg.Database.Addrs),
		zap.String("sqlite_path", cfg.SQLite.Path),
	)

	// Vector store (Redis)
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Metadata store (SQLite)
	metaDB, err := sqlite.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		logger.Fatal("Failed to open metadata store", zap.Error(err))
	}
	defer func() { _ = metaDB.Close() }()
	logger.Info("Metadata store ready")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterHTTPMetrics()

	// Embedder chain — composition root
	baseEmbedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	cacheTTL := time.Duration(cfg.Embedding.CacheTTLHours) * time.Hour
	cached := embcache.New(baseEmbedder, store, cacheTTL, metrics.EmbeddingCacheTotal, logger)

	// Instruction prefixes are outermost so the cache key includes them.
	docEmbedder := withInstruction(cached, cfg.Embedding.DocumentInstruction)
	queryEmbedder := withInstruction(cached, cfg.Embedding.QueryInstruction)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	vectorRepo := vectorrepo.New(store)
	if err := vectorRepo.EnsureIndex(ctx, vectorrepo.IndexParams{
		Dim:         cfg.Embedding.Dimensions,
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}
	contentRepo := contentrepo.New(metaDB.DB)
	historyRepo := historyrepo.New(metaDB.DB)

	// Use case services
	searchSvc := searchuc.New(
		queryEmbedder, vectorRepo, contentRepo, contentRepo, historyRepo,
		searchuc.Config{
			AdapterTimeout: time.Duration(cfg.Search.AdapterTimeoutSec) * time.Second,
			ScoreFloor:     cfg.Search.ScoreFloor,
			HistoryTimeout: time.Duration(cfg.Search.HistoryTimeoutSec) * time.Second,
		},
	)
	captureSvc := captureuc.New(contentRepo, vectorRepo, docEmbedder)
	tagSvc := taguc.New(contentRepo)
	healthSvc := healthuc.New(metaDB, store, baseEmbedder)

	// HTTP server
	server := chiTransport.NewServer(searchSvc, captureSvc, tagSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

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

// withInstruction wraps the embedder with an instruction prefix if configured.
func withInstruction(inner domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return inner
	}
	return domain.NewInstructionEmbedder(inner, instruction)
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
