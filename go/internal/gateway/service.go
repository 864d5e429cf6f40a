package gateway

import (
	"context"
	"net/http"

	"github.com/mcdev12/raffle/go/internal/randomizer"
	"github.com/rs/zerolog/log"
)

// StateProvider supplies the snapshot sent to newly connected displays
type StateProvider interface {
	State() randomizer.Snapshot
}

// Service is the display gateway: it relays session events to every
// connected display over WebSocket
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
}

// NewService creates a new display gateway service
func NewService(config ConnectionConfig, stateProvider StateProvider) *Service {
	connectionManager := NewConnectionManager(config)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, stateProvider),
	}
}

// Start runs the broadcast loop until ctx is cancelled
func (s *Service) Start(ctx context.Context) {
	log.Info().Msg("starting display gateway")
	s.connectionManager.Start(ctx)
	log.Info().Msg("display gateway stopped")
}

// OnSessionEvent relays a session event to the displays
func (s *Service) OnSessionEvent(e randomizer.Event) {
	event, err := NewDisplayEvent(e)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(e.Type)).Msg("dropping session event")
		return
	}
	s.connectionManager.Broadcast(event)
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("display gateway routes registered")
}

// Stats returns statistics about the gateway
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.Stats()
}
