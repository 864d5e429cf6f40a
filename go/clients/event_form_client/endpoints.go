package event_form_client

const (
	// Base URL
	DefaultBaseURL = "https://event-form-flax.vercel.app"

	// API Endpoints
	ParticipantsEndpoint       = "/api/participants"
	ExportParticipantsEndpoint = "/api/participants/export"
	ParticipantStatusEndpoint  = "/api/participants"

	// Participant status values understood by the status endpoint
	StatusDrawn = 0

	// Headers
	ContentTypeHeader = "Content-Type"
	AcceptHeader      = "Accept"
	JSONContentType   = "application/json"
)

// Endpoints holds the paths used by the client; zero fields fall back to defaults
type Endpoints struct {
	Participants string `yaml:"participants"`
	Export       string `yaml:"export"`
	Status       string `yaml:"status"`
}

// DefaultEndpoints returns the paths served by the event form API
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Participants: ParticipantsEndpoint,
		Export:       ExportParticipantsEndpoint,
		Status:       ParticipantStatusEndpoint,
	}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Participants == "" {
		e.Participants = d.Participants
	}
	if e.Export == "" {
		e.Export = d.Export
	}
	if e.Status == "" {
		e.Status = d.Status
	}
	return e
}
