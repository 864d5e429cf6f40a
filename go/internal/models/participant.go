package models

import (
	"time"
)

// Participant represents one raffle entrant
type Participant struct {
	ID                  int        `json:"id"` // 1-based display position, reassigned on every load
	ExternalID          string     `json:"external_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	RegisteredAt        *time.Time `json:"registered_at,omitempty"`
	RegisteredAtRaw     string     `json:"registered_at_raw"`
	RegisteredAtDisplay string     `json:"registered_at_display"`
}
