package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/docxtranslate/internal/auth"
	"github.com/heartmarshall/docxtranslate/internal/config"
	"github.com/heartmarshall/docxtranslate/internal/progress"
	"github.com/heartmarshall/docxtranslate/internal/provider"
	"github.com/heartmarshall/docxtranslate/internal/service/translation"
	"github.com/heartmarshall/docxtranslate/internal/translate/executor"
	"github.com/heartmarshall/docxtranslate/internal/translate/planner"
	"github.com/heartmarshall/docxtranslate/internal/transport/middleware"
	"github.com/heartmarshall/docxtranslate/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// translation pipeline and its HTTP surface, starts the server, and
// waits for a shutdown signal for graceful termination.
func Run(ctx context.Context) error {
	// -----------------------------------------------------------------------
	// 1. Load and validate config
	// -----------------------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// -----------------------------------------------------------------------
	// 2. Initialize logger
	// -----------------------------------------------------------------------
	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// -----------------------------------------------------------------------
	// 3. Progress store (in-memory, no database: §1 non-goal)
	// -----------------------------------------------------------------------
	progressStore := progress.New(cfg.Translation.ProgressLinger, time.Minute)
	defer progressStore.Stop()

	// -----------------------------------------------------------------------
	// 4. Translation service
	// -----------------------------------------------------------------------
	newClient := func(apiKey, model string) provider.Client {
		return provider.NewAnthropicClient(apiKey, model)
	}

	svc := translation.New(translation.Config{
		Planner: planner.Config{
			WindowSize:                  cfg.Translation.WindowSize,
			TokenTargetSimple:           cfg.Translation.TokenTargetSimple,
			TokenTargetModerate:         cfg.Translation.TokenTargetModerate,
			TokenTargetComplex:          cfg.Translation.TokenTargetComplex,
			LegacyContentClassification: cfg.Translation.LegacyContentClassification,
		},
		Executor: executor.Config{
			MaxConcurrentBatches: cfg.Translation.MaxConcurrentBatches,
			PerAttemptTimeout:    cfg.Translation.PerAttemptTimeout,
			MaxRetries:           cfg.Translation.MaxRetries,
			RetryBackoff:         cfg.Translation.RetryBackoff,
		},
	}, newClient, progressStore, logger)

	// -----------------------------------------------------------------------
	// 5. Health-check provider client (process-wide, optional credential)
	// -----------------------------------------------------------------------
	healthPinger := healthCheckPinger(cfg.LLM)

	// -----------------------------------------------------------------------
	// 6. Auth
	// -----------------------------------------------------------------------
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	// -----------------------------------------------------------------------
	// 7. Handlers
	// -----------------------------------------------------------------------
	healthHandler := rest.NewHealthHandler(healthPinger, BuildVersion())
	translateHandler := rest.NewTranslateHandler(svc, logger)

	// -----------------------------------------------------------------------
	// 8. Rate limiter for the translate endpoint
	// -----------------------------------------------------------------------
	var translateChain middleware.Middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer rateLimiter.Stop()
		translateChain = middleware.Chain(
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.Logger(logger),
			middleware.CORS(cfg.CORS),
			middleware.Auth(tokenManager),
			rateLimiter.Limit(cfg.RateLimit.TranslatePerMin),
		)
	} else {
		translateChain = middleware.Chain(
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.Logger(logger),
			middleware.CORS(cfg.CORS),
			middleware.Auth(tokenManager),
		)
	}

	progressChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(tokenManager),
	)

	// -----------------------------------------------------------------------
	// 9. Routes
	// -----------------------------------------------------------------------
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.Handle("POST /translate", translateChain(http.HandlerFunc(translateHandler.Translate)))
	mux.Handle("OPTIONS /translate", middleware.CORS(cfg.CORS)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.Handle("GET /progress/{id}", progressChain(http.HandlerFunc(translateHandler.Progress)))

	// -----------------------------------------------------------------------
	// 10. Start HTTP server
	// -----------------------------------------------------------------------
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	// -----------------------------------------------------------------------
	// 11. Wait for signal -> graceful shutdown
	// -----------------------------------------------------------------------
	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("HTTP server stopped")
	logger.Info("shutdown complete")

	return nil
}

// noopPinger reports the provider as reachable without making a network
// call, used when no health-check credential is configured.
type noopPinger struct{}

func (noopPinger) Ping(ctx context.Context) error { return nil }

// healthCheckPinger returns a provider.Client bound to the configured
// health-check credential, or a no-op pinger when none is set: the
// engine's actual credentials are always request-scoped (spec §6), so a
// process-wide key is strictly optional operational sugar.
func healthCheckPinger(cfg config.LLMConfig) interface{ Ping(context.Context) error } {
	if cfg.HealthCheckAPIKey == "" {
		return noopPinger{}
	}
	return provider.NewAnthropicClient(cfg.HealthCheckAPIKey, cfg.DefaultModel)
}
