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
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		log.Warn().Err(err).Msg("invalid LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	config, err := loadConfig(getEnv("RAFFLE_CONFIG", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services := setupServices(ctx, config)

	// Initial load; a failure leaves the list empty until the next reload
	list, err := services.Participants.Reload(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("initial participant load failed")
	}

	log.Info().
		Str("api_base_url", config.EventForm.BaseURL).
		Int("participants", len(list)).
		Dur("duration", config.Randomizer.Session.Duration).
		Dur("tick_interval", config.Randomizer.Session.TickInterval).
		Bool("report_winners", config.Randomizer.ReportWinners).
		Msg("starting raffle randomizer")

	gatewayDone := make(chan struct{})
	go func() {
		defer close(gatewayDone)
		services.Gateway.Start(ctx)
	}()

	server := setupServer(services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Closing the app stops any running animation before the displays go away
	if err := services.App.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close randomizer")
	}

	cancel()
	<-gatewayDone

	log.Info().Msg("raffle randomizer stopped")
}
