package randomizer

import "errors"

// ErrInvalidTransition is returned when an operation is not valid in the current phase
var ErrInvalidTransition = errors.New("invalid session transition")

// ErrSessionClosed is returned by every operation after Close
var ErrSessionClosed = errors.New("session closed")

// ErrSelectionInProgress is returned when the participant list cannot change because a run is animating
var ErrSelectionInProgress = errors.New("selection in progress")
