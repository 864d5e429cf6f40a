package event_form_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mcdev12/raffle/go/clients"
)

// Participant is a registration record as served by the event form API
type Participant struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ID is the API's opaque participant identifier. Some deployments serve it as
// a number, so both JSON strings and numbers are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("participant id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// StatusUpdate is the body of the participant status PUT
type StatusUpdate struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
}

// GetParticipants returns the participants eligible for the draw
func (c *EventFormClient) GetParticipants(ctx context.Context) ([]Participant, error) {
	return c.listParticipants(ctx, c.endpoints.Participants)
}

// GetAllParticipants returns the unfiltered participant list used for exports
func (c *EventFormClient) GetAllParticipants(ctx context.Context) ([]Participant, error) {
	return c.listParticipants(ctx, c.endpoints.Export)
}

// MarkDrawn reports a winner back to the API. The response body is ignored.
func (c *EventFormClient) MarkDrawn(ctx context.Context, externalID string) error {
	body, err := json.Marshal(StatusUpdate{ID: externalID, Status: StatusDrawn})
	if err != nil {
		return fmt.Errorf("failed to marshal status update: %w", err)
	}

	if _, err := c.Put(ctx, c.endpoints.Status, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return nil
}

func (c *EventFormClient) listParticipants(ctx context.Context, endpoint string) ([]Participant, error) {
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	var participants []Participant
	if err := json.Unmarshal(body, &participants); err != nil {
		return nil, &clients.APIError{
			Kind:     clients.ErrorKindDecode,
			Method:   http.MethodGet,
			Endpoint: endpoint,
			Body:     string(body),
			Err:      err,
		}
	}

	return participants, nil
}
