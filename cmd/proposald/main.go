package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/atmosphere-labs/proposal-engine/internal/config"
	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/flows"
	"github.com/atmosphere-labs/proposal-engine/internal/health"
	"github.com/atmosphere-labs/proposal-engine/internal/httpapi"
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
	"github.com/atmosphere-labs/proposal-engine/internal/llm"
	"github.com/atmosphere-labs/proposal-engine/internal/metrics"
	"github.com/atmosphere-labs/proposal-engine/internal/proposal"
	"github.com/atmosphere-labs/proposal-engine/internal/retry"
	"github.com/atmosphere-labs/proposal-engine/internal/travel"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Str("provider", cfg.Provider).
		Str("model", cfg.Model()).
		Str("travel_estimator", cfg.TravelEstimator).
		Msg("starting proposal engine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var provider llm.Provider
	switch cfg.Provider {
	case "anthropic":
		provider = llm.NewAnthropicProvider(cfg.AnthropicAPIKey, logger,
			llm.WithAnthropicModel(cfg.AnthropicModel),
			llm.WithAnthropicMaxTokens(cfg.MaxTokens),
		)
	default:
		provider = llm.NewGeminiProvider(cfg.GeminiAPIKey, logger,
			llm.WithGeminiModel(cfg.GeminiModel),
			llm.WithGeminiMaxTokens(cfg.MaxTokens),
		)
	}

	// Startup reachability probe with backoff; the service still starts if
	// the provider stays unreachable, it just reports not ready.
	probeCtx, probeCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := retry.Do(probeCtx, retry.DefaultConfig(), func(ctx context.Context) error {
		if !provider.Available(ctx) {
			return perrors.ErrUnavailable
		}
		return nil
	}); err != nil {
		logger.Warn().Err(err).Msg("inference provider unreachable at startup")
	}
	probeCancel()

	checker := health.NewChecker(logger)
	checker.Register("inference_provider", func(ctx context.Context) health.Status {
		if !provider.Available(ctx) {
			return health.StatusDown
		}
		return health.StatusOK
	})

	metricsCollector := metrics.New()

	var flowSettings map[string]config.FlowSettings
	if cfg.FlowSettingsPath != "" {
		flowSettings, err = config.LoadFlowSettings(cfg.FlowSettingsPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.FlowSettingsPath).Msg("failed to load flow settings")
		}
		logger.Info().Int("flows", len(flowSettings)).Msg("per-flow settings loaded")
	}

	gw := inference.NewGateway(provider, logger,
		inference.WithFlowSettings(flowSettings),
		inference.WithMetrics(metricsCollector),
		inference.WithTimeout(cfg.InferenceTimeout),
	)
	svc := flows.NewService(gw)

	var estimator travel.Estimator
	if cfg.TravelEstimator == "inference" {
		estimator = travel.NewInferenceEstimator(gw)
	} else {
		estimator = travel.NewMockEstimator()
	}

	registry := proposal.NewRegistry(cfg.SessionCapacity, logger, func(n int) {
		metricsCollector.SetSessions(float64(n))
	})

	server := httpapi.NewServer(httpapi.ServerConfig{
		ListenAddr:  cfg.ListenAddr,
		RateLimit:   httpapi.RateLimitConfig{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		CORSOrigins: cfg.CORSOrigins,
	}, registry, svc, estimator, checker, metricsCollector, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
		}
	}

	cancel()
	if err := server.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("proposal engine stopped")
}
