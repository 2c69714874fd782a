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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/chunker"
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/corpus"
	dbredis "github.com/docsift/docsift/internal/db/redis"
	"github.com/docsift/docsift/internal/domain"
	logpkg "github.com/docsift/docsift/internal/logger"
	"github.com/docsift/docsift/internal/metrics"
	"github.com/docsift/docsift/internal/repository/embcache"
	"github.com/docsift/docsift/internal/transport/chihttp"
	openaitr "github.com/docsift/docsift/internal/transport/openai"
	answeruc "github.com/docsift/docsift/internal/usecase/answer"
	classifyuc "github.com/docsift/docsift/internal/usecase/classify"
	healthuc "github.com/docsift/docsift/internal/usecase/health"
	ingestuc "github.com/docsift/docsift/internal/usecase/ingest"
	planneruc "github.com/docsift/docsift/internal/usecase/planner"
	retrieveuc "github.com/docsift/docsift/internal/usecase/retrieve"
	summarizeuc "github.com/docsift/docsift/internal/usecase/summarize"
	"github.com/docsift/docsift/internal/usecase/synthesis"
	"github.com/docsift/docsift/internal/version"
)

func main() {
	// Local development reads provider keys from .env; absence is fine.
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docsift API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	// Optional Redis embedding cache. The pipeline runs without it.
	var cacheStore *dbredis.Store
	if cfg.Cache.Enabled {
		cacheStore, err = dbredis.NewStore(dbredis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := cacheStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache")
	}

	metrics.RegisterProviderMetrics()

	baseEmbedder := openaitr.NewEmbedder(&openaitr.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	// Pass the concrete pointer only when the cache exists. A typed nil
	// wrapped in the interface would dodge the nil check inside embcache.
	var embedder domain.BatchEmbedder = baseEmbedder
	if cacheStore != nil {
		cacheTTL := time.Duration(cfg.Cache.TTLHours) * time.Hour
		embedder = embcache.New(baseEmbedder, cacheStore, cacheTTL, metrics.EmbeddingCacheTotal, logger)
	}

	reasoner := openaitr.NewReasoner(&openaitr.ReasonerConfig{
		APIKey:      cfg.Reasoning.APIKey,
		BaseURL:     cfg.Reasoning.BaseURL,
		Model:       cfg.Reasoning.Model,
		Temperature: cfg.Reasoning.Temperature,
		Provider:    "openai",
		Logger:      logger,
	})

	logger.Info("Providers created",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("reasoning_model", cfg.Reasoning.Model),
	)

	ch, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		logger.Fatal("Invalid chunking config", zap.Error(err))
	}
	corpusStore := corpus.NewStore()

	ingestSvc := ingestuc.New(ch, embedder, corpusStore, logger)
	plannerSvc := planneruc.New(
		classifyuc.New(reasoner, logger),
		retrieveuc.New(corpusStore, embedder,
			cfg.Retrieval.TopK, cfg.Retrieval.MinScore, cfg.Retrieval.ExcerptChars, logger),
		answeruc.New(reasoner, logger),
		summarizeuc.New(corpusStore, reasoner,
			cfg.Summarize.BatchSize, cfg.Summarize.Concurrency, logger),
		synthesis.NewComparator(reasoner, logger),
		synthesis.NewTimelineBuilder(reasoner, logger),
		synthesis.NewAggregator(reasoner, logger),
		logger,
	)

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(cachePinger, baseEmbedder, reasoner)

	server := chihttp.NewServer(ingestSvc, plannerSvc, corpusStore, healthSvc, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
