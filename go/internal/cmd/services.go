package main

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/raffle/go/clients/event_form_client"
	"github.com/mcdev12/raffle/go/internal/events"
	"github.com/mcdev12/raffle/go/internal/gateway"
	"github.com/mcdev12/raffle/go/internal/participants"
	"github.com/mcdev12/raffle/go/internal/randomizer"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Participants *participants.App
	App          *randomizer.App
	Randomizer   *randomizer.Service
	Gateway      *gateway.Service
	Metrics      *events.CounterMetrics
}

func setupServices(ctx context.Context, config *Config) *Services {
	// Wire up dependency injection chain
	// API client → Repository layer → App layer → Service layer

	client := event_form_client.NewEventFormClient(config.EventForm.BaseURL, config.EventForm.Endpoints)
	client.SetTimeout(config.EventForm.Timeout)

	// Participants
	participantsRepo := participants.NewRepository(client, config.location())
	participantsApp := participants.NewApp(participantsRepo, clockwork.NewRealClock())

	// Session
	opts := []randomizer.Option{}
	if config.Randomizer.ReportWinners {
		opts = append(opts, randomizer.WithResultSink(client))
	}
	session := randomizer.NewSession(config.Randomizer.Session, opts...)

	// Winner events
	metrics := events.NewCounterMetrics()
	publisher := events.NewMetricPublisher(setupPublisher(ctx, config), metrics)

	// Coordinator and HTTP surface
	raffleApp := randomizer.NewApp(session, participantsApp, publisher, config.Randomizer.App)
	raffleService := randomizer.NewService(raffleApp)

	// Display gateway
	displayGateway := gateway.NewService(config.Gateway, raffleApp)
	session.Subscribe(displayGateway)

	return &Services{
		Participants: participantsApp,
		App:          raffleApp,
		Randomizer:   raffleService,
		Gateway:      displayGateway,
		Metrics:      metrics,
	}
}

// setupPublisher connects to JetStream when NATS_URL is set and falls back to
// logging winner events otherwise
func setupPublisher(ctx context.Context, config *Config) events.Publisher {
	if config.Events.URL == "" {
		log.Info().Msg("NATS_URL not set, winner events will only be logged")
		return events.NewLogPublisher()
	}

	publisher, err := events.NewJetStreamPublisher(ctx, config.Events)
	if err != nil {
		log.Error().
			Err(err).
			Str("nats_url", config.Events.URL).
			Msg("failed to connect to JetStream, winner events will only be logged")
		return events.NewLogPublisher()
	}
	return publisher
}
