package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestWinnerSelectedEnvelope(t *testing.T) {
	runID := uuid.MustParse("6f1c2b8e-8a55-4c3e-9d0e-2f7c1a0b9e11")
	selectedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("PHT", 8*60*60))

	env := NewWinnerSelectedEnvelope(runID, WinnerSelectedPayload{
		RunID:            runID.String(),
		ExternalID:       "ext-9",
		Name:             "Ada",
		Email:            "ada@x.com",
		ParticipantCount: 12,
		SelectedAt:       selectedAt,
	})

	if env.EventID != runID.String() {
		t.Errorf("event id %s should equal run id", env.EventID)
	}
	if !env.Timestamp.Equal(selectedAt) || env.Timestamp.Location() != time.UTC {
		t.Errorf("expected UTC timestamp of %v, got %v", selectedAt, env.Timestamp)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	payload := decoded["payload"].(map[string]any)
	want := map[string]any{
		"run_id":            runID.String(),
		"external_id":       "ext-9",
		"name":              "Ada",
		"email":             "ada@x.com",
		"participant_count": float64(12),
		"selected_at":       "2025-03-01T12:00:00+08:00",
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSubjectAndStream(t *testing.T) {
	cfg := DefaultJetStreamConfig()
	env := Envelope{EventType: EventTypeWinnerSelected}

	if got := Subject(cfg, env); got != "raffle.events.WinnerSelected" {
		t.Errorf("unexpected subject %s", got)
	}

	sc := StreamConfig(cfg)
	if diff := cmp.Diff([]string{"raffle.events.>"}, sc.Subjects); diff != "" {
		t.Errorf("stream subjects mismatch (-want +got):\n%s", diff)
	}
	if sc.Name != "RAFFLE_EVENTS" {
		t.Errorf("unexpected stream name %s", sc.Name)
	}
}
