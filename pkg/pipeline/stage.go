package pipeline

// Stage is one step of a reconstruction run. Stages execute in this order:
//
//	Beginning
//	OriginalHologram
//	for each time slice:
//		Hologram
//		FilteredField
//		for each distance:
//			PropagatedField
//	Ending
type Stage int

const (
	StageBeginning Stage = iota
	StageOriginalHologram
	StageHologram
	StageFilteredField
	StagePropagatedField
	StageEnding
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageBeginning,
	StageOriginalHologram,
	StageHologram,
	StageFilteredField,
	StagePropagatedField,
	StageEnding,
}

func (s Stage) String() string {
	switch s {
	case StageBeginning:
		return "Beginning"
	case StageOriginalHologram:
		return "OriginalHologram"
	case StageHologram:
		return "Hologram"
	case StageFilteredField:
		return "FilteredField"
	case StagePropagatedField:
		return "PropagatedField"
	case StageEnding:
		return "Ending"
	default:
		return "Unknown"
	}
}
