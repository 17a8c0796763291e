package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/config"
	"github.com/robalobadob/connections/internal/httpserver"
	"github.com/robalobadob/connections/internal/metrics"
	"github.com/robalobadob/connections/internal/puzzles"
	"github.com/robalobadob/connections/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	opts := puzzles.Options{
		Strict:       cfg.StrictValidation,
		VerifyOnRead: cfg.VerifyOnRead,
		Metrics:      metrics.New(),
	}
	if cfg.StrictValidation {
		bl, err := words.Load(cfg.BlocklistFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load blocklist")
		}
		log.Info().Int("entries", bl.Len()).Msg("strict validation enabled")
		opts.Blocklist = bl
	}

	srv := httpserver.New(puzzles.New(st, opts), st, httpserver.Options{
		ClientOrigins:  cfg.ClientOrigins,
		StaticDir:      cfg.StaticDir,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Metrics:        opts.Metrics,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(cfg.Addr()) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server exited")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
