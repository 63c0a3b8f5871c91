package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labelscan/internal/http/handlers"
	httpapi "labelscan/internal/http/httpapi"
	"labelscan/internal/infra"
	"labelscan/internal/providers/genai"
	"labelscan/internal/providers/label"
	"labelscan/internal/queue"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.ExtractTimeout}
	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure gemini client")
	}

	store := queue.NewStore()
	controller := queue.NewController(store, label.NewGeminiExtractor(geminiClient), queue.Config{
		Concurrency: cfg.ExtractConcurrency,
		PauseAfter:  cfg.ExtractPauseAfter,
		Cooldown:    cfg.ExtractCooldown,
		Timeout:     cfg.ExtractTimeout,
	}, logger)

	controllerDone := make(chan struct{})
	go func() {
		defer close(controllerDone)
		controller.Run(ctx)
	}()

	app := handlers.NewApp(store, controller, logger, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(app, logger, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", geminiClient.Model()).Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	<-controllerDone
	logger.Info().Msg("server stopped")
}
