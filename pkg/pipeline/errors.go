package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled reports a run stopped by its context or by a participant
	// requesting cancellation. Participants signal cancellation by returning
	// an error that wraps ErrCanceled.
	ErrCanceled = errors.New("pipeline: canceled")

	// ErrInvalidConfig is returned by Config.Validate and wraps every
	// configuration problem found before a run starts.
	ErrInvalidConfig = errors.New("pipeline: invalid config")

	// ErrDuplicateParticipant is returned when two participants share a name.
	ErrDuplicateParticipant = errors.New("pipeline: duplicate participant")
)

// StageError is a participant failure that aborted a run.
type StageError struct {
	Stage       Stage
	Participant string
	Err         error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: %s failed in %s: %v", e.Participant, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
