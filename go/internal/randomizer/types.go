package randomizer

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/raffle/go/internal/models"
)

// Phase is the state of a randomizer session
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnimating Phase = "animating"
	PhaseResolved  Phase = "resolved"
)

// Config holds session timing
type Config struct {
	Duration      time.Duration `yaml:"duration"`       // how long names are cycled before the final draw
	TickInterval  time.Duration `yaml:"tick_interval"`  // how often a new name is shown
	ReportTimeout time.Duration `yaml:"report_timeout"` // upper bound for a single winner report
}

// DefaultConfig returns the standard 3s animation with a 150ms tick
func DefaultConfig() Config {
	return Config{
		Duration:      3000 * time.Millisecond,
		TickInterval:  150 * time.Millisecond,
		ReportTimeout: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Duration <= 0 {
		c.Duration = d.Duration
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.ReportTimeout <= 0 {
		c.ReportTimeout = d.ReportTimeout
	}
	return c
}

// EventType represents the type of session event
type EventType string

const (
	EventTypeSelectionStarted  EventType = "SelectionStarted"
	EventTypeNameDisplayed     EventType = "NameDisplayed"
	EventTypeSelectionResolved EventType = "SelectionResolved"
	EventTypeSessionReset      EventType = "SessionReset"
)

// Event is emitted to observers on every state change, in order
type Event struct {
	Type             EventType           `json:"type"`
	RunID            uuid.UUID           `json:"run_id"`
	At               time.Time           `json:"at"`
	Tick             int                 `json:"tick,omitempty"`
	Name             string              `json:"name,omitempty"`
	Winner           *models.Participant `json:"winner,omitempty"`
	ParticipantCount int                 `json:"participant_count,omitempty"`
	DurationMs       int64               `json:"duration_ms,omitempty"`
}

// Observer receives session events
type Observer interface {
	OnSessionEvent(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

func (f ObserverFunc) OnSessionEvent(e Event) { f(e) }

// Snapshot is a point-in-time copy of the session state
type Snapshot struct {
	Phase            Phase               `json:"phase"`
	RunID            string              `json:"run_id,omitempty"`
	DisplayedName    string              `json:"displayed_name,omitempty"`
	Winner           *models.Participant `json:"winner,omitempty"`
	ParticipantCount int                 `json:"participant_count"`
	StartedAt        *time.Time          `json:"started_at,omitempty"`
	ResolvedAt       *time.Time          `json:"resolved_at,omitempty"`
	RemainingMs      int64               `json:"remaining_ms"`
}
