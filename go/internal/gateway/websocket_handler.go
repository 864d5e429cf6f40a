package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests from displays
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	stateProvider     StateProvider
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, stateProvider StateProvider) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		stateProvider:     stateProvider,
	}
}

// HandleRandomizerConnection upgrades a display connection and sends it the
// current session state before any live event
func (h *WebSocketHandler) HandleRandomizerConnection(w http.ResponseWriter, r *http.Request) {
	var initial []byte
	if h.stateProvider != nil {
		syncEvent, err := NewStateSyncEvent(h.stateProvider.State())
		if err != nil {
			log.Error().Err(err).Msg("failed to build state sync")
			http.Error(w, "failed to build state", http.StatusInternalServerError)
			return
		}
		if initial, err = json.Marshal(syncEvent); err != nil {
			log.Error().Err(err).Msg("failed to marshal state sync")
			http.Error(w, "failed to build state", http.StatusInternalServerError)
			return
		}
	}

	// The upgrader has already replied to the client on failure
	if err := h.connectionManager.UpgradeConnection(w, r, initial); err != nil {
		log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.connectionManager.Stats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/randomizer", h.HandleRandomizerConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
