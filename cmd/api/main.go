package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mchlmayer/iathumb/internal/http/handlers"
	httpapi "github.com/mchlmayer/iathumb/internal/http/httpapi"
	"github.com/mchlmayer/iathumb/internal/imagegen"
	"github.com/mchlmayer/iathumb/internal/infra"
	"github.com/mchlmayer/iathumb/internal/providers/prompt"
	"github.com/mchlmayer/iathumb/internal/studio"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	generator, err := imagegen.NewClient(ctx, imagegen.Options{
		APIKey:     cfg.GeminiAPIKey,
		ImageModel: cfg.GeminiImageModel,
		EditModel:  cfg.GeminiEditModel,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image generator")
	}

	session := studio.NewSession(generator, logger)

	var enhancer prompt.Enhancer
	switch cfg.PromptProvider {
	case "gemini":
		enhancer, err = prompt.NewGeminiEnhancer(ctx, prompt.GeminiOptions{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiPromptModel,
			OnFallback: func(reason string, err error) {
				logger.Warn().Str("reason", reason).Err(err).Msg("prompt enhancer fell back to static rules")
			},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init prompt enhancer")
		}
	default:
		enhancer = prompt.NewStaticEnhancer()
	}

	app := handlers.NewApp(cfg, logger, session, enhancer)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
