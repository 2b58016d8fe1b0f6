package pipeline

// Participant is a pluggable unit of work in a reconstruction run. Beyond
// Name, a participant implements only the capability interfaces it needs;
// a stage whose handler interface is not implemented is skipped for that
// participant.
type Participant interface {
	Name() string
}

// Prioritizer orders participants within a stage. Participants run in
// descending priority; ties keep registration order. Participants that do
// not implement Prioritizer have priority 0 everywhere.
type Prioritizer interface {
	Priority(stage Stage) int
}

// Discoverer is called once per run, before Beginning, with the registry
// of all participants so siblings can be looked up by capability.
type Discoverer interface {
	Discover(r *Registry) error
}

// Failer exposes an error flag recorded outside a callback's return value.
// It is checked after every callback of the participant; a non-nil value
// aborts the run like a returned error.
type Failer interface {
	Err() error
}

type Beginner interface {
	Begin(run *Run) error
}

// OriginalHologramHandler sees the raw hologram of the first time slice
// before any per-slice processing.
type OriginalHologramHandler interface {
	OriginalHologram(run *Run) error
}

// HologramHandler sees each time slice's hologram in the spatial domain.
type HologramHandler interface {
	Hologram(run *Run) error
}

// FilteredFieldHandler runs once per time slice after the hologram stage.
// Spectral filtering happens here; later participants observe the result.
type FilteredFieldHandler interface {
	FilteredField(run *Run) error
}

// PropagatedFieldHandler runs once per (time slice, distance) pair.
type PropagatedFieldHandler interface {
	PropagatedField(run *Run) error
}

type Ender interface {
	End(run *Run) error
}

// handler returns the callback p registers for stage, or nil.
func handler(p Participant, stage Stage) func(*Run) error {
	switch stage {
	case StageBeginning:
		if h, ok := p.(Beginner); ok {
			return h.Begin
		}
	case StageOriginalHologram:
		if h, ok := p.(OriginalHologramHandler); ok {
			return h.OriginalHologram
		}
	case StageHologram:
		if h, ok := p.(HologramHandler); ok {
			return h.Hologram
		}
	case StageFilteredField:
		if h, ok := p.(FilteredFieldHandler); ok {
			return h.FilteredField
		}
	case StagePropagatedField:
		if h, ok := p.(PropagatedFieldHandler); ok {
			return h.PropagatedField
		}
	case StageEnding:
		if h, ok := p.(Ender); ok {
			return h.End
		}
	}
	return nil
}

func priorityOf(p Participant, stage Stage) int {
	if pr, ok := p.(Prioritizer); ok {
		return pr.Priority(stage)
	}
	return 0
}
