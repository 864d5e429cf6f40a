package randomizer

import (
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// animation is one run's ticker and the channels used to stop and join it
type animation struct {
	runID  uuid.UUID
	ticker clockwork.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// animate owns the run's ticker until the run resolves or the session is closed.
func (s *Session) animate(anim *animation) {
	defer close(anim.done)
	defer anim.ticker.Stop()

	for {
		select {
		case <-anim.stop:
			log.Debug().Str("run_id", anim.runID.String()).Msg("animation stopped")
			return
		case <-anim.ticker.Chan():
			if finished := s.tick(anim); finished {
				return
			}
		}
	}
}

// tick advances the run by one interval. It reports true once the run is over.
func (s *Session) tick(anim *animation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Closed or superseded while the tick was in flight
	if s.run != anim || s.phase != PhaseAnimating {
		return true
	}

	now := s.clock.Now()
	if now.Before(s.deadline) {
		s.ticks++
		s.displayedName = s.participants[s.draw()].Name
		s.events.enqueue(Event{
			Type:  EventTypeNameDisplayed,
			RunID: anim.runID,
			At:    now,
			Tick:  s.ticks,
			Name:  s.displayedName,
		})
		return false
	}

	winner := s.participants[s.draw()]
	s.winner = &winner
	s.displayedName = ""
	s.phase = PhaseResolved
	s.resolvedAt = now
	s.run = nil

	w := winner
	s.events.enqueue(Event{
		Type:             EventTypeSelectionResolved,
		RunID:            anim.runID,
		At:               now,
		Tick:             s.ticks,
		Winner:           &w,
		ParticipantCount: len(s.participants),
		DurationMs:       now.Sub(s.startedAt).Milliseconds(),
	})

	if s.sink != nil {
		s.acks.Add(1)
		go s.acknowledgeWinner(anim.runID, winner)
	}

	log.Info().
		Str("run_id", anim.runID.String()).
		Str("winner", winner.Name).
		Str("external_id", winner.ExternalID).
		Int("ticks", s.ticks).
		Dur("elapsed", now.Sub(s.startedAt)).
		Msg("selection resolved")

	return true
}

// draw returns a uniform index into the run's participants
func (s *Session) draw() int {
	n := len(s.participants)
	i := s.pick(n)
	if i < 0 || i >= n {
		log.Warn().Int("index", i).Int("n", n).Msg("picker returned out of range index, clamping")
		i = ((i % n) + n) % n
	}
	return i
}
