package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ielts-speaking/backend/internal/api"
	"github.com/ielts-speaking/backend/internal/infrastructure/config"
	"github.com/ielts-speaking/backend/internal/llm"
	"github.com/ielts-speaking/backend/internal/ratelimit"
	"github.com/ielts-speaking/backend/internal/service"
	"github.com/ielts-speaking/backend/internal/store"
	"github.com/ielts-speaking/backend/internal/telemetry"

	_ "github.com/ielts-speaking/backend/docs" // swagger docs
)

// @title           IELTS Speaking API
// @version         1.0
// @description     Generates IELTS Speaking sample answers, examiner comments and vocabulary highlights with a language model.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	// ── Dependencies ────────────────────────────────────────────────
	meterProvider, metricsHandler, err := telemetry.Setup(ctx, "ielts-speaking", logger)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	metrics, err := telemetry.NewMetrics(meterProvider)
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	provider, err := llm.New(ctx, llm.Config{
		Provider:       cfg.LLMProvider,
		APIKey:         cfg.APIKey(),
		BaseURL:        cfg.BaseURL(),
		Model:          cfg.LLMModel,
		EmbeddingModel: cfg.EmbeddingModel,
	})
	if err != nil {
		logger.Error("failed to create llm provider", "error", err, "provider", cfg.LLMProvider)
		os.Exit(1)
	}

	db, err := store.NewSQLite(cfg.QuestionsDB)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	counter := ratelimit.NewDailyCounter(cfg.DailyLimit, cfg.Location, nil)
	generationSvc := service.NewGenerationService(provider, counter, metrics, service.Settings{
		Timeout:     cfg.LLMTimeout,
		Model:       cfg.LLMModel,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	}, cfg.QueueSize, logger)
	defer generationSvc.Close()

	handler := api.NewHandler(generationSvc, db, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	api.RegisterRoutes(mux, handler)

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(cfg.CORSOrigins)(mux))

	// ── Server ──────────────────────────────────────────────────────
	// WriteTimeout leaves room for a full LLM timeout plus queueing.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
		if err := meterProvider.Shutdown(ctx); err != nil {
			logger.Error("failed to shut down meter provider", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"provider", provider.Name(),
		"daily_limit", cfg.DailyLimit,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
