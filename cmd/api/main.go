package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	harmrules "github.com/raghujhts13/sunoji-hackathon/internal/analysis/safety"
	"github.com/raghujhts13/sunoji-hackathon/internal/config"
	"github.com/raghujhts13/sunoji-hackathon/internal/handler"
	"github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
	analysissvc "github.com/raghujhts13/sunoji-hackathon/internal/service/analysis"
	companionsvc "github.com/raghujhts13/sunoji-hackathon/internal/service/companion"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/fun"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/phrases"
	safetysvc "github.com/raghujhts13/sunoji-hackathon/internal/service/safety"
	speechsvc "github.com/raghujhts13/sunoji-hackathon/internal/service/speech"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/weather"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	personaStore := persona.NewMemoryStore()

	// Safety gate: pattern matcher plus crisis resource catalog. Always
	// on, never behind a feature flag.
	safetyChecker := safetysvc.NewChecker(harmrules.NewMatcher(), safetysvc.NewCatalog(cfg.Safety.ResourcesPath))

	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("chat model unavailable, classifier and phrase selection fall back to defaults")
			chatModel = nil
		} else {
			log.Info().Msg("chat model initialized")
		}
	} else {
		log.Info().Msg("model credentials not configured, running with deterministic fallbacks")
	}

	classifier, err := analysissvc.NewClassifier(ctx, chatModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build classifier")
	}

	phraseCatalog := phrases.NewCatalog(cfg.Phrases.CatalogPath)
	selector, err := phrases.NewSelector(ctx, chatModel, phraseCatalog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build phrase selector")
	}

	speechService := speechsvc.NewService(cfg.Speech)
	turnService := companionsvc.NewService(personaStore, safetyChecker, classifier, selector, speechService, cfg.Speech.TTSFormat)

	router := handler.NewRouter(handler.Deps{
		Personas: personaStore,
		Turns:    turnService,
		Speech:   speechService,
		Safety:   safetyChecker,
		Phrases:  phraseCatalog,
		Weather:  weather.NewService(),
		Fun:      fun.NewService(),
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
