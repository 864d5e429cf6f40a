package randomizer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockResultSink is a testify mock for ResultSink
type MockResultSink struct {
	mock.Mock
}

func (m *MockResultSink) MarkDrawn(ctx context.Context, externalID string) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}

func TestSessionReportsPickedWinnerWithDeadline(t *testing.T) {
	sink := new(MockResultSink)
	reported := make(chan struct{})
	sink.On("MarkDrawn", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "ext-3").
		Return(nil).
		Once().
		Run(func(mock.Arguments) { close(reported) })

	s, clock, rec := newTestSession(t, DefaultConfig(),
		WithResultSink(sink),
		WithPicker(func(n int) int { return 2 }),
	)

	if err := s.StartSelection(makeParticipants(4)); err != nil {
		t.Fatalf("StartSelection: %v", err)
	}
	clock.Advance(3 * time.Second)
	rec.waitFor(t, EventTypeSelectionResolved)

	select {
	case <-reported:
	case <-time.After(2 * time.Second):
		t.Fatal("winner was never reported")
	}
	sink.AssertExpectations(t)
}

func TestSessionCloseCancelsPendingReport(t *testing.T) {
	sink := new(MockResultSink)
	started := make(chan struct{})
	sink.On("MarkDrawn", mock.Anything, mock.Anything).
		Return(context.Canceled).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		})

	s, clock, rec := newTestSession(t, DefaultConfig(), WithResultSink(sink))

	if err := s.StartSelection(makeParticipants(2)); err != nil {
		t.Fatalf("StartSelection: %v", err)
	}
	clock.Advance(3 * time.Second)
	rec.waitFor(t, EventTypeSelectionResolved)
	<-started

	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the in-flight report")
	}
	if s.Phase() != PhaseResolved {
		t.Errorf("winner must stand after close, phase is %s", s.Phase())
	}
}
