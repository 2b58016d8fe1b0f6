package pipeline

import (
	"fmt"
	"log/slog"

	"holoreco/pkg/holo"
)

// Source supplies the recorded holograms of a run.
type Source interface {
	Size() (width, height int)
	Len() int
	Frame(t int) (holo.Frame, error)
}

// Run is the state shared with participants during a reconstruction. The
// orchestrator owns it; participants read the position accessors and read
// or replace the current field.
type Run struct {
	Config *Config
	Source Source
	Plan   *holo.Plan
	Logger *slog.Logger

	stage         Stage
	field         *holo.Wavefield
	frame         holo.Frame
	timeIndex     int
	distanceIndex int
}

// Stage returns the stage being executed.
func (r *Run) Stage() Stage { return r.stage }

func (r *Run) Width() int  { return r.Plan.Width() }
func (r *Run) Height() int { return r.Plan.Height() }

// Field returns the current field, or nil during Beginning. Changes made
// through its Mutate and Set methods are seen by later participants.
func (r *Run) Field() *holo.Wavefield { return r.field }

// SetField replaces the current field. w must match the run's plan size.
func (r *Run) SetField(w *holo.Wavefield) error {
	if w.Width() != r.Plan.Width() || w.Height() != r.Plan.Height() {
		return fmt.Errorf("%w: field %dx%d, run %dx%d", holo.ErrSizeMismatch, w.Width(), w.Height(), r.Plan.Width(), r.Plan.Height())
	}
	r.field = w
	return nil
}

// Frame returns the unmodified hologram of the current time slice.
func (r *Run) Frame() holo.Frame { return r.frame }

// TimeIndex is the position in Config.Times, or -1 outside the time loop.
// During OriginalHologram it is 0.
func (r *Run) TimeIndex() int { return r.timeIndex }

// Time returns the frame index being processed, or -1.
func (r *Run) Time() int {
	if r.timeIndex < 0 {
		return -1
	}
	return r.Config.Times[r.timeIndex]
}

// DistanceIndex is the position in Config.Distances, or -1 outside the
// distance loop.
func (r *Run) DistanceIndex() int { return r.distanceIndex }

// Distance returns the target depth, or a zero length outside the distance
// loop.
func (r *Run) Distance() holo.Length {
	if r.distanceIndex < 0 {
		return holo.Length{Unit: holo.Micrometer}
	}
	return r.Config.Distances[r.distanceIndex]
}
