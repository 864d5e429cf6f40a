package events

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeWinnerSelected is published once per resolved draw
const EventTypeWinnerSelected = "WinnerSelected"

// WinnerSelectedPayload is the payload for a WinnerSelected event
type WinnerSelectedPayload struct {
	RunID            string    `json:"run_id"`
	ExternalID       string    `json:"external_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	ParticipantCount int       `json:"participant_count"`
	SelectedAt       time.Time `json:"selected_at"`
}

// Envelope wraps a payload for the message bus
type Envelope struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	RunID     string    `json:"runId"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewWinnerSelectedEnvelope builds the envelope for a winner. The run id
// doubles as the event id so a re-published winner is deduplicated.
func NewWinnerSelectedEnvelope(runID uuid.UUID, payload WinnerSelectedPayload) Envelope {
	return Envelope{
		EventID:   runID.String(),
		EventType: EventTypeWinnerSelected,
		RunID:     runID.String(),
		Timestamp: payload.SelectedAt.UTC(),
		Payload:   payload,
	}
}
