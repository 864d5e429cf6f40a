package participants

import (
	"context"
	"fmt"
	"time"

	"github.com/mcdev12/raffle/go/clients/event_form_client"
	"github.com/mcdev12/raffle/go/internal/models"
)

// DisplayTimeLayout renders registration times the way the display table shows them
const DisplayTimeLayout = "01/02/2006, 3:04:05 PM"

// timestamp layouts accepted from the API, tried in order
var registeredAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Source defines what the repository needs from the event form API
type Source interface {
	GetParticipants(ctx context.Context) ([]event_form_client.Participant, error)
	GetAllParticipants(ctx context.Context) ([]event_form_client.Participant, error)
}

// Repository maps API participant records to domain models
type Repository struct {
	source   Source
	location *time.Location
}

// NewRepository creates a participants repository. A nil location means UTC.
func NewRepository(source Source, location *time.Location) *Repository {
	if location == nil {
		location = time.UTC
	}
	return &Repository{
		source:   source,
		location: location,
	}
}

// ListEligible returns the participants currently eligible for a draw
func (r *Repository) ListEligible(ctx context.Context) ([]models.Participant, error) {
	records, err := r.source.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible participants: %w", err)
	}
	return r.recordsToModels(records), nil
}

// ListAll returns every registered participant, drawn or not
func (r *Repository) ListAll(ctx context.Context) ([]models.Participant, error) {
	records, err := r.source.GetAllParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all participants: %w", err)
	}
	return r.recordsToModels(records), nil
}

// recordsToModels assigns 1-based display ids in source order
func (r *Repository) recordsToModels(records []event_form_client.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(records))
	for i, rec := range records {
		p := models.Participant{
			ID:                  i + 1,
			ExternalID:          string(rec.ID),
			Name:                rec.Name,
			Email:               rec.Email,
			RegisteredAtRaw:     rec.CreatedAt,
			RegisteredAtDisplay: rec.CreatedAt,
		}
		if ts, ok := parseRegisteredAt(rec.CreatedAt); ok {
			p.RegisteredAt = &ts
			p.RegisteredAtDisplay = ts.In(r.location).Format(DisplayTimeLayout)
		}
		out = append(out, p)
	}
	return out
}

// parseRegisteredAt reads an ISO-ish timestamp. Values without a zone are UTC.
func parseRegisteredAt(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range registeredAtLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
