package event_form_client

import (
	"github.com/mcdev12/raffle/go/clients"
)

type EventFormClient struct {
	*clients.BaseClient
	endpoints Endpoints
}

func NewEventFormClient(baseURL string, endpoints Endpoints) *EventFormClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := &EventFormClient{
		BaseClient: clients.NewBaseClient(baseURL),
		endpoints:  endpoints.withDefaults(),
	}

	client.SetHeader(AcceptHeader, JSONContentType)
	client.SetHeader(ContentTypeHeader, JSONContentType)

	return client
}

// Endpoints returns the resolved endpoint paths
func (c *EventFormClient) Endpoints() Endpoints {
	return c.endpoints
}
