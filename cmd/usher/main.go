package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/usher/internal/api"
	"github.com/MikeSquared-Agency/usher/internal/config"
	"github.com/MikeSquared-Agency/usher/internal/extractor"
	"github.com/MikeSquared-Agency/usher/internal/hermes"
	"github.com/MikeSquared-Agency/usher/internal/openai"
	"github.com/MikeSquared-Agency/usher/internal/processor"
	"github.com/MikeSquared-Agency/usher/internal/reply"
	"github.com/MikeSquared-Agency/usher/internal/sheets"
	"github.com/MikeSquared-Agency/usher/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("usher starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	if cfg.GoogleScriptURL == "" {
		slog.Error("GOOGLE_SCRIPT_URL is required")
		os.Exit(1)
	}

	llm := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	slog.Info("openai client ready", "model", cfg.OpenAIModel)

	gen := reply.NewGenerator(llm, slog.Default())
	ext := extractor.New(llm, slog.Default())
	gateway := sheets.NewGateway(cfg.GoogleScriptURL, slog.Default())

	// NATS (optional — usher runs fine without the swarm bus)
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		var err error
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — lead events will not be published")
	}

	// Lead activity journal (optional)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — lead activity will not be journaled")
	}

	proc := processor.New(gen, ext, gateway, hermesClient, db, slog.Default())

	srv := api.NewServer(cfg.Port, proc)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("usher ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("usher stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
