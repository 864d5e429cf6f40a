package randomizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mcdev12/raffle/go/internal/events"
	"github.com/mcdev12/raffle/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ParticipantsApp defines what the randomizer needs from the participant directory
type ParticipantsApp interface {
	Reload(ctx context.Context) ([]models.Participant, error)
	List() []models.Participant
	Count() int
	ExportCSV(ctx context.Context) (string, error)
}

// AppConfig holds coordinator behaviour
type AppConfig struct {
	ReloadOnReset  bool          `yaml:"reload_on_reset"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// DefaultAppConfig reloads the list after every reset
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ReloadOnReset:  true,
		PublishTimeout: 5 * time.Second,
	}
}

// App joins the participant directory, the session and the event publisher
type App struct {
	session      *Session
	participants ParticipantsApp
	publisher    events.Publisher
	config       AppConfig

	// mu orders Start against Reload so a run never sees a list swap
	mu   sync.Mutex
	pubs sync.WaitGroup
}

// NewApp creates a new randomizer App and subscribes it to session events
func NewApp(session *Session, participants ParticipantsApp, publisher events.Publisher, config AppConfig) *App {
	if publisher == nil {
		publisher = events.NewLogPublisher()
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultAppConfig().PublishTimeout
	}
	a := &App{
		session:      session,
		participants: participants,
		publisher:    publisher,
		config:       config,
	}
	session.Subscribe(a)
	return a
}

// Session exposes the underlying session for observers such as the display gateway
func (a *App) Session() *Session {
	return a.session
}

// Start runs a selection over the currently loaded participants
func (a *App) Start(ctx context.Context) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.session.StartSelection(a.participants.List()); err != nil {
		return a.session.Snapshot(), err
	}
	return a.session.Snapshot(), nil
}

// Reset leaves the resolved view and, when configured, reloads the list so the
// next run reflects whatever the API did with the last winner.
func (a *App) Reset(ctx context.Context) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.session.Reset(); err != nil {
		return a.session.Snapshot(), err
	}

	if a.config.ReloadOnReset {
		// Failures keep the stale list; the participants app already logged them
		_, _ = a.participants.Reload(ctx)
	}
	return a.session.Snapshot(), nil
}

// Reload refreshes the participant list. A resolved session goes back to idle.
// Reloading while animating is rejected so the running draw's list stays fixed.
func (a *App) Reload(ctx context.Context) ([]models.Participant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.session.Phase() {
	case PhaseAnimating:
		return a.participants.List(), ErrSelectionInProgress
	case PhaseResolved:
		if err := a.session.Reset(); err != nil && !errors.Is(err, ErrInvalidTransition) {
			return a.participants.List(), err
		}
	}

	return a.participants.Reload(ctx)
}

// Participants returns the loaded participant list
func (a *App) Participants() []models.Participant {
	return a.participants.List()
}

// State returns the current session snapshot
func (a *App) State() Snapshot {
	return a.session.Snapshot()
}

// ExportCSV renders the unfiltered participant list
func (a *App) ExportCSV(ctx context.Context) (string, error) {
	return a.participants.ExportCSV(ctx)
}

// OnSessionEvent publishes resolved winners
func (a *App) OnSessionEvent(e Event) {
	if e.Type != EventTypeSelectionResolved || e.Winner == nil {
		return
	}

	env := events.NewWinnerSelectedEnvelope(e.RunID, events.WinnerSelectedPayload{
		RunID:            e.RunID.String(),
		ExternalID:       e.Winner.ExternalID,
		Name:             e.Winner.Name,
		Email:            e.Winner.Email,
		ParticipantCount: e.ParticipantCount,
		SelectedAt:       e.At,
	})

	a.pubs.Add(1)
	go func() {
		defer a.pubs.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.config.PublishTimeout)
		defer cancel()

		if err := a.publisher.Publish(ctx, env); err != nil {
			log.Error().
				Err(err).
				Str("run_id", env.RunID).
				Msg("failed to publish winner event")
		}
	}()
}

// Close stops the session, waits for in-flight publishes and closes the publisher
func (a *App) Close() error {
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	a.pubs.Wait()
	if err := a.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
