package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/raffle/go/internal/models"
	"github.com/mcdev12/raffle/go/internal/randomizer"
)

// DisplayEvent is the envelope sent to every connected display
type DisplayEvent struct {
	ID        string          `json:"id"`               // Event UUID
	Type      EventType       `json:"type"`             // Event type
	RunID     string          `json:"run_id,omitempty"` // Empty outside a run
	Timestamp time.Time       `json:"timestamp"`        // Event creation time
	Data      json.RawMessage `json:"data"`             // Event-specific payload
}

// EventType represents the type of display event
type EventType string

const (
	EventTypeStateSync         EventType = "StateSync"
	EventTypeSelectionStarted  EventType = "SelectionStarted"
	EventTypeNameDisplayed     EventType = "NameDisplayed"
	EventTypeSelectionResolved EventType = "SelectionResolved"
	EventTypeSessionReset      EventType = "SessionReset"
)

// SelectionStartedPayload opens the animation on the display
type SelectionStartedPayload struct {
	ParticipantCount int   `json:"participant_count"`
	DurationMs       int64 `json:"duration_ms"`
}

// NameDisplayedPayload is one animation frame
type NameDisplayedPayload struct {
	Tick int    `json:"tick"`
	Name string `json:"name"`
}

// SelectionResolvedPayload carries the final winner
type SelectionResolvedPayload struct {
	Winner           models.Participant `json:"winner"`
	ParticipantCount int                `json:"participant_count"`
	DurationMs       int64              `json:"duration_ms"`
}

// NewStateSyncEvent wraps a session snapshot for a newly connected display
func NewStateSyncEvent(snap randomizer.Snapshot) (*DisplayEvent, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return &DisplayEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeStateSync,
		RunID:     snap.RunID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// NewDisplayEvent converts a session event into its display form
func NewDisplayEvent(e randomizer.Event) (*DisplayEvent, error) {
	var (
		typ     EventType
		payload any
	)

	switch e.Type {
	case randomizer.EventTypeSelectionStarted:
		typ = EventTypeSelectionStarted
		payload = SelectionStartedPayload{
			ParticipantCount: e.ParticipantCount,
			DurationMs:       e.DurationMs,
		}
	case randomizer.EventTypeNameDisplayed:
		typ = EventTypeNameDisplayed
		payload = NameDisplayedPayload{Tick: e.Tick, Name: e.Name}
	case randomizer.EventTypeSelectionResolved:
		if e.Winner == nil {
			return nil, fmt.Errorf("resolved event for run %s has no winner", e.RunID)
		}
		typ = EventTypeSelectionResolved
		payload = SelectionResolvedPayload{
			Winner:           *e.Winner,
			ParticipantCount: e.ParticipantCount,
			DurationMs:       e.DurationMs,
		}
	case randomizer.EventTypeSessionReset:
		typ = EventTypeSessionReset
		payload = struct{}{}
	default:
		return nil, fmt.Errorf("unknown session event type %q", e.Type)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}

	ev := &DisplayEvent{
		ID:        uuid.New().String(),
		Type:      typ,
		Timestamp: e.At.UTC(),
		Data:      data,
	}
	if e.RunID != uuid.Nil {
		ev.RunID = e.RunID.String()
	}
	return ev, nil
}
