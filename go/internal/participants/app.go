package participants

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/raffle/go/clients"
	"github.com/mcdev12/raffle/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ParticipantsRepository defines what the app layer needs from the repository
type ParticipantsRepository interface {
	ListEligible(ctx context.Context) ([]models.Participant, error)
	ListAll(ctx context.Context) ([]models.Participant, error)
}

// App holds the participant list loaded from the event form API.
// The API is the source of truth: the list is only ever replaced wholesale.
type App struct {
	repo  ParticipantsRepository
	clock clockwork.Clock

	mu           sync.RWMutex
	participants []models.Participant
	loadedAt     time.Time
}

// NewApp creates a new participants App
func NewApp(repo ParticipantsRepository, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// Reload fetches the eligible participants and replaces the current list.
// On failure the previous list is kept and the error is returned for logging.
func (a *App) Reload(ctx context.Context) ([]models.Participant, error) {
	loaded, err := a.repo.ListEligible(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("kind", string(clients.KindOf(err))).
			Int("stale_count", a.Count()).
			Msg("failed to reload participants, keeping current list")
		return a.List(), err
	}

	a.mu.Lock()
	a.participants = loaded
	a.loadedAt = a.clock.Now()
	a.mu.Unlock()

	log.Info().Int("count", len(loaded)).Msg("participants loaded")
	return a.List(), nil
}

// List returns a copy of the current participant list
func (a *App) List() []models.Participant {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]models.Participant, len(a.participants))
	copy(out, a.participants)
	return out
}

// Count returns the number of loaded participants
func (a *App) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.participants)
}

// LoadedAt returns when the list was last replaced, zero if never
func (a *App) LoadedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loadedAt
}

// ExportCSV fetches the unfiltered participant list and renders it as CSV.
// It never touches the draw list.
func (a *App) ExportCSV(ctx context.Context) (string, error) {
	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export participants: %w", err)
	}

	log.Debug().Int("count", len(all)).Msg("participants exported")
	return BuildCSV(all), nil
}
