package randomizer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/raffle/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// ResultSink is notified once per resolved run with the winner's external id
type ResultSink interface {
	MarkDrawn(ctx context.Context, externalID string) error
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces the real clock
func WithClock(clock Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithPicker replaces the uniform index draw. pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *Session) { s.pick = pick }
}

// WithResultSink enables winner acknowledgement
func WithResultSink(sink ResultSink) Option {
	return func(s *Session) { s.sink = sink }
}

// Session is the randomizer state machine:
//
//	idle --StartSelection(non-empty)--> animating --ticks--> resolved --Reset--> idle
//
// A session owns at most one ticker at a time. The ticker is stopped exactly
// once, either when the run resolves or when the session is closed.
type Session struct {
	config Config
	clock  Clock
	pick   func(n int) int
	sink   ResultSink

	events *dispatcher

	// ctx bounds background winner reports; cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc
	acks   sync.WaitGroup

	mu            sync.Mutex
	phase         Phase
	participants  []models.Participant
	displayedName string
	winner        *models.Participant
	runID         uuid.UUID
	startedAt     time.Time
	deadline      time.Time
	resolvedAt    time.Time
	ticks         int
	run           *animation
	closed        bool
}

// NewSession creates an idle session
func NewSession(config Config, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		config: config.withDefaults(),
		clock:  clockwork.NewRealClock(),
		pick:   rand.IntN,
		events: newDispatcher(),
		ctx:    ctx,
		cancel: cancel,
		phase:  PhaseIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective session timing
func (s *Session) Config() Config {
	return s.config
}

// Subscribe registers an observer. Observers run on the session's event
// goroutine and must not call Close.
func (s *Session) Subscribe(o Observer) {
	s.events.subscribe(o)
}

// StartSelection begins a run over a snapshot of participants.
// An empty list is a no-op. Starting while animating or resolved is rejected
// so a session never owns more than one ticker.
func (s *Session) StartSelection(participants []models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhaseIdle {
		return fmt.Errorf("cannot start selection while %s: %w", s.phase, ErrInvalidTransition)
	}
	if len(participants) == 0 {
		log.Debug().Msg("start selection ignored - no participants")
		return nil
	}

	snapshot := make([]models.Participant, len(participants))
	copy(snapshot, participants)

	now := s.clock.Now()
	s.phase = PhaseAnimating
	s.participants = snapshot
	s.winner = nil
	s.displayedName = ""
	s.runID = uuid.New()
	s.startedAt = now
	s.deadline = now.Add(s.config.Duration)
	s.resolvedAt = time.Time{}
	s.ticks = 0

	anim := &animation{
		runID:  s.runID,
		ticker: s.clock.NewTicker(s.config.TickInterval),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.run = anim

	s.events.enqueue(Event{
		Type:             EventTypeSelectionStarted,
		RunID:            s.runID,
		At:               now,
		ParticipantCount: len(snapshot),
		DurationMs:       s.config.Duration.Milliseconds(),
	})

	go s.animate(anim)

	log.Info().
		Str("run_id", s.runID.String()).
		Int("participants", len(snapshot)).
		Dur("duration", s.config.Duration).
		Dur("tick", s.config.TickInterval).
		Msg("selection started")

	return nil
}

// Reset returns a resolved session to idle and clears the winner.
// It is rejected in any other phase.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhaseResolved {
		return fmt.Errorf("cannot reset while %s: %w", s.phase, ErrInvalidTransition)
	}

	runID := s.runID
	s.phase = PhaseIdle
	s.winner = nil
	s.displayedName = ""
	s.participants = nil
	s.runID = uuid.Nil
	s.startedAt = time.Time{}
	s.deadline = time.Time{}
	s.resolvedAt = time.Time{}
	s.ticks = 0

	s.events.enqueue(Event{
		Type:  EventTypeSessionReset,
		RunID: runID,
		At:    s.clock.Now(),
	})

	log.Info().Str("run_id", runID.String()).Msg("session reset")
	return nil
}

// Phase returns the current phase
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Winner returns the winner of the resolved run, nil in any other phase
func (s *Session) Winner() *models.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner == nil {
		return nil
	}
	w := *s.winner
	return &w
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:            s.phase,
		DisplayedName:    s.displayedName,
		ParticipantCount: len(s.participants),
	}
	if s.runID != uuid.Nil {
		snap.RunID = s.runID.String()
	}
	if s.winner != nil {
		w := *s.winner
		snap.Winner = &w
	}
	if !s.startedAt.IsZero() {
		t := s.startedAt
		snap.StartedAt = &t
	}
	if !s.resolvedAt.IsZero() {
		t := s.resolvedAt
		snap.ResolvedAt = &t
	}
	if s.phase == PhaseAnimating {
		if remaining := s.deadline.Sub(s.clock.Now()); remaining > 0 {
			snap.RemainingMs = remaining.Milliseconds()
		}
	}
	return snap
}

// Close disposes the session. An animating run is cancelled and its goroutine
// joined, pending winner reports are cancelled, and queued events are flushed.
// No event is delivered after Close returns. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	anim := s.run
	s.run = nil
	if s.phase == PhaseAnimating {
		s.phase = PhaseIdle
		s.displayedName = ""
	}
	s.mu.Unlock()

	if anim != nil {
		close(anim.stop)
		<-anim.done
		log.Info().Str("run_id", anim.runID.String()).Msg("animating run cancelled on close")
	}

	s.cancel()
	s.acks.Wait()
	s.events.close()
	return nil
}

// acknowledgeWinner reports the winner to the result sink once. Failures are
// logged and never retried; the winner stands regardless.
func (s *Session) acknowledgeWinner(runID uuid.UUID, winner models.Participant) {
	defer s.acks.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.config.ReportTimeout)
	defer cancel()

	if err := s.sink.MarkDrawn(ctx, winner.ExternalID); err != nil {
		log.Error().
			Err(err).
			Str("run_id", runID.String()).
			Str("external_id", winner.ExternalID).
			Msg("failed to report winner")
		return
	}

	log.Info().
		Str("run_id", runID.String()).
		Str("external_id", winner.ExternalID).
		Msg("winner reported")
}
