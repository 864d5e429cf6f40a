package randomizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcdev12/raffle/go/internal/models"
	"github.com/rs/zerolog/log"
)

// RaffleApp defines what the HTTP service needs from the randomizer application
type RaffleApp interface {
	Start(ctx context.Context) (Snapshot, error)
	Reset(ctx context.Context) (Snapshot, error)
	Reload(ctx context.Context) ([]models.Participant, error)
	Participants() []models.Participant
	State() Snapshot
	ExportCSV(ctx context.Context) (string, error)
}

// ParticipantsResponse is the body of the participant list endpoints
type ParticipantsResponse struct {
	Count        int                  `json:"count"`
	Participants []models.Participant `json:"participants"`
}

// ErrorResponse is the body returned for rejected operations
type ErrorResponse struct {
	Error string   `json:"error"`
	State Snapshot `json:"state"`
}

// Service exposes the randomizer over JSON HTTP
type Service struct {
	app RaffleApp
}

// NewService creates a new randomizer HTTP service
func NewService(app RaffleApp) *Service {
	return &Service{
		app: app,
	}
}

// RegisterRoutes registers the randomizer routes with an HTTP mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/participants", s.HandleListParticipants)
	mux.HandleFunc("/api/participants/reload", s.HandleReloadParticipants)
	mux.HandleFunc("/api/participants/export", s.HandleExportParticipants)
	mux.HandleFunc("/api/randomizer/state", s.HandleGetState)
	mux.HandleFunc("/api/randomizer/start", s.HandleStart)
	mux.HandleFunc("/api/randomizer/reset", s.HandleReset)
}

// HandleListParticipants handles GET /api/participants
func (s *Service) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, participantsResponse(s.app.Participants()))
}

// HandleReloadParticipants handles POST /api/participants/reload.
// Fetch failures are only logged; the caller gets the current list either way.
func (s *Service) HandleReloadParticipants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	list, err := s.app.Reload(r.Context())
	if errors.Is(err, ErrSelectionInProgress) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), State: s.app.State()})
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("participant reload failed, serving current list")
	}

	writeJSON(w, http.StatusOK, participantsResponse(list))
}

// HandleExportParticipants handles GET /api/participants/export
func (s *Service) HandleExportParticipants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	csv, err := s.app.ExportCSV(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to export participants")
		http.Error(w, "Failed to export participants", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=participants.csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Error().Err(err).Msg("failed to write csv export")
	}
}

// HandleGetState handles GET /api/randomizer/state
func (s *Service) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.app.State())
}

// HandleStart handles POST /api/randomizer/start
func (s *Service) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.app.Start(r.Context())
	if err != nil {
		writeTransitionError(w, err, snap)
		return
	}

	writeJSON(w, http.StatusAccepted, snap)
}

// HandleReset handles POST /api/randomizer/reset
func (s *Service) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.app.Reset(r.Context())
	if err != nil {
		writeTransitionError(w, err, snap)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func participantsResponse(list []models.Participant) ParticipantsResponse {
	if list == nil {
		list = []models.Participant{}
	}
	return ParticipantsResponse{Count: len(list), Participants: list}
}

func writeTransitionError(w http.ResponseWriter, err error, snap Snapshot) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSelectionInProgress):
		status = http.StatusConflict
	case errors.Is(err, ErrSessionClosed):
		status = http.StatusServiceUnavailable
	}

	log.Debug().Err(err).Int("status", status).Msg("randomizer request rejected")
	writeJSON(w, status, ErrorResponse{Error: err.Error(), State: snap})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
