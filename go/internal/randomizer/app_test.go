package randomizer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mcdev12/raffle/go/internal/events"
	"github.com/mcdev12/raffle/go/internal/models"
)

type fakeParticipants struct {
	mu      sync.Mutex
	list    []models.Participant
	reloads int
	err     error
	csv     string
}

func (f *fakeParticipants) Reload(ctx context.Context) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return append([]models.Participant(nil), f.list...), f.err
}

func (f *fakeParticipants) List() []models.Participant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Participant(nil), f.list...)
}

func (f *fakeParticipants) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.list)
}

func (f *fakeParticipants) ExportCSV(ctx context.Context) (string, error) {
	return f.csv, f.err
}

func (f *fakeParticipants) reloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

type fakePublisher struct {
	ch     chan events.Envelope
	closed bool
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{ch: make(chan events.Envelope, 8)}
}

func (p *fakePublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.ch <- env
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func TestAppRunPublishesWinner(t *testing.T) {
	s, clock, rec := newTestSession(t, DefaultConfig())
	participants := &fakeParticipants{list: makeParticipants(5)}
	pub := newFakePublisher()
	app := NewApp(s, participants, pub, DefaultAppConfig())
	ctx := context.Background()

	snap, err := app.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if snap.Phase != PhaseAnimating || snap.ParticipantCount != 5 {
		t.Fatalf("unexpected snapshot after start: %+v", snap)
	}

	if _, err := app.Reload(ctx); !errors.Is(err, ErrSelectionInProgress) {
		t.Errorf("reload while animating: expected ErrSelectionInProgress, got %v", err)
	}
	if participants.reloadCount() != 0 {
		t.Errorf("reload reached the source while animating")
	}

	clock.Advance(3 * time.Second)
	resolved := rec.waitFor(t, EventTypeSelectionResolved)

	select {
	case env := <-pub.ch:
		if env.EventType != events.EventTypeWinnerSelected {
			t.Errorf("unexpected event type %s", env.EventType)
		}
		if env.RunID != resolved.RunID.String() {
			t.Errorf("published run %s, resolved run %s", env.RunID, resolved.RunID)
		}
		payload := env.Payload.(events.WinnerSelectedPayload)
		if payload.ExternalID != resolved.Winner.ExternalID {
			t.Errorf("published winner %s, resolved winner %s", payload.ExternalID, resolved.Winner.ExternalID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("winner event was never published")
	}

	snap, err = app.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if snap.Phase != PhaseIdle {
		t.Errorf("expected idle after reset, got %s", snap.Phase)
	}
	if participants.reloadCount() != 1 {
		t.Errorf("expected one reload after reset, got %d", participants.reloadCount())
	}

	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Error("publisher was not closed")
	}
}

func TestAppResetWithoutReload(t *testing.T) {
	s, clock, rec := newTestSession(t, DefaultConfig())
	participants := &fakeParticipants{list: makeParticipants(2)}
	app := NewApp(s, participants, newFakePublisher(), AppConfig{ReloadOnReset: false})
	ctx := context.Background()

	if _, err := app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.Advance(3 * time.Second)
	rec.waitFor(t, EventTypeSelectionResolved)

	if _, err := app.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if participants.reloadCount() != 0 {
		t.Errorf("expected no reload, got %d", participants.reloadCount())
	}
}

func TestAppReloadFromResolvedReturnsToIdle(t *testing.T) {
	s, clock, rec := newTestSession(t, DefaultConfig())
	participants := &fakeParticipants{list: makeParticipants(3)}
	app := NewApp(s, participants, newFakePublisher(), DefaultAppConfig())
	ctx := context.Background()

	if _, err := app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.Advance(3 * time.Second)
	rec.waitFor(t, EventTypeSelectionResolved)

	list, err := app.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 participants, got %d", len(list))
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("expected idle after reload, got %s", s.Phase())
	}
	if s.Winner() != nil {
		t.Errorf("expected winner cleared after reload")
	}
}

func TestAppStartWithNoParticipants(t *testing.T) {
	s, _, rec := newTestSession(t, DefaultConfig())
	app := NewApp(s, &fakeParticipants{}, newFakePublisher(), DefaultAppConfig())

	snap, err := app.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if snap.Phase != PhaseIdle {
		t.Errorf("expected idle, got %s", snap.Phase)
	}
	rec.expectNone(t, 50*time.Millisecond)
}
