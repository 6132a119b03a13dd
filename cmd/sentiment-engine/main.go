package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sentistack/sentiment-engine/internal/api"
	"github.com/sentistack/sentiment-engine/internal/cache"
	"github.com/sentistack/sentiment-engine/internal/classifier"
	"github.com/sentistack/sentiment-engine/internal/config"
	"github.com/sentistack/sentiment-engine/internal/enhancer"
	"github.com/sentistack/sentiment-engine/internal/llm"
	"github.com/sentistack/sentiment-engine/internal/llm/gemini"
	"github.com/sentistack/sentiment-engine/internal/llm/groq"
	"github.com/sentistack/sentiment-engine/internal/metrics"
	"github.com/sentistack/sentiment-engine/internal/services"
	"github.com/sentistack/sentiment-engine/internal/stats"
	"github.com/sentistack/sentiment-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting sentiment-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	cacheProvider := buildCache(cfg.Cache, logger)
	defer cacheProvider.Close()

	groqClient := buildGroq(cfg.LLM.Groq, logger)
	geminiClient := buildGemini(cfg.LLM.Gemini, logger)

	enh := enhancer.New(logger, groqClient, geminiClient, enhancer.Options{
		CallTimeout: cfg.LLM.CallTimeout,
		Cache:       cacheProvider,
		CacheTTL:    cfg.Cache.ResultTTL,
	})

	backend := classifier.NewHTTPBackend(
		cfg.Model.BaseURL,
		cfg.Model.PredictPath,
		cfg.Model.HealthPath,
		cfg.Model.Timeout,
	)
	cls := classifier.NewService(logger, backend, cfg.Model.Name)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Model.Timeout)
	if err := cls.Load(loadCtx); err != nil {
		cancelLoad()
		logger.Error("failed to load model", slog.Any("error", err))
		os.Exit(1)
	}
	cancelLoad()
	defer cls.Unload()

	predictionLog := utils.NewPredictionLogger(
		cfg.Logging.PredictionLogPath,
		cfg.Logging.PredictionLogMB,
		cfg.Logging.PredictionLogKeep,
	)

	service := services.NewPredictionService(logger, predictionLog, cls, enh, stats.NewCollector())

	server, err := api.NewServer(cfg.Server, api.NewHandler(service, logger), logger)
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("sentiment-engine stopped")
}

func buildCache(cfg config.CacheConfig, logger *slog.Logger) cache.Provider {
	switch cfg.Backend {
	case "redis":
		provider, err := cache.NewRedisProvider(cache.RedisConfig{
			Addr:         cfg.Addr,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			MaxRetries:   cfg.MaxRetries,
			TLS:          cfg.TLS,
		})
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without cache", slog.Any("error", err))
			return cache.NoopProvider{}
		}
		logger.Info("enhancement cache enabled", slog.String("backend", "redis"))
		return provider
	case "memory":
		logger.Info("enhancement cache enabled", slog.String("backend", "memory"))
		return cache.NewMemoryProvider()
	default:
		return cache.NoopProvider{}
	}
}

func buildGroq(cfg config.ProviderConfig, logger *slog.Logger) llm.Provider {
	if cfg.APIKey == "" {
		return nil
	}
	client, err := groq.NewClient(groq.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		logger.Warn("groq client unavailable", slog.Any("error", err))
		return nil
	}
	logger.Info("groq provider configured", slog.String("model", client.Model()))
	return client
}

func buildGemini(cfg config.ProviderConfig, logger *slog.Logger) llm.Provider {
	if cfg.APIKey == "" {
		return nil
	}
	client, err := gemini.NewClient(gemini.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		logger.Warn("gemini client unavailable", slog.Any("error", err))
		return nil
	}
	logger.Info("gemini provider configured", slog.String("model", client.Model()))
	return client
}
