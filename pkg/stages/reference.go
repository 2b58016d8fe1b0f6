package stages

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

// ReferenceMode selects how the reference hologram is estimated from the
// time series.
type ReferenceMode int

const (
	ReferenceMean ReferenceMode = iota
	ReferenceMedian
)

func (m ReferenceMode) String() string {
	switch m {
	case ReferenceMean:
		return "mean"
	case ReferenceMedian:
		return "median"
	default:
		return "unknown"
	}
}

// ParseReferenceMode accepts "mean" and "median".
func ParseReferenceMode(s string) (ReferenceMode, bool) {
	switch s {
	case "mean":
		return ReferenceMean, true
	case "median":
		return ReferenceMedian, true
	}
	return 0, false
}

// ReferenceRemoval subtracts a reference hologram from every time slice,
// removing the static background (the zero order of the unscattered beam
// and fixed fringes) before filtering.
//
// The reference is Frame when set, otherwise the pixelwise mean or median
// over all frames of the run, computed once at OriginalHologram.
type ReferenceRemoval struct {
	Mode  ReferenceMode
	Frame *holo.Frame

	ref *holo.ComplexMat
}

func NewReferenceRemoval(mode ReferenceMode) *ReferenceRemoval {
	return &ReferenceRemoval{Mode: mode}
}

func (r *ReferenceRemoval) Name() string { return "reference-removal" }

func (r *ReferenceRemoval) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StageHologram {
		return 100
	}
	return 0
}

// Reference returns the reference in use, or nil before OriginalHologram.
func (r *ReferenceRemoval) Reference() *holo.ComplexMat { return r.ref }

func (r *ReferenceRemoval) OriginalHologram(run *pipeline.Run) error {
	w, h := run.Width(), run.Height()

	if r.Frame != nil {
		if r.Frame.Width != w || r.Frame.Height != h {
			return fmt.Errorf("%w: reference %dx%d, holograms %dx%d", holo.ErrSizeMismatch, r.Frame.Width, r.Frame.Height, w, h)
		}
		ref, err := r.Frame.ComplexMat()
		if err != nil {
			return err
		}
		r.ref = ref
		return nil
	}

	frames := make([][]float64, 0, len(run.Config.Times))
	for _, t := range run.Config.Times {
		f, err := run.Source.Frame(t)
		if err != nil {
			return fmt.Errorf("reading frame %d for reference: %w", t, err)
		}
		frames = append(frames, f.Pixels)
	}

	var pixels []float64
	switch r.Mode {
	case ReferenceMedian:
		pixels = make([]float64, w*h)
		column := make([]float64, len(frames))
		for i := range pixels {
			for k, f := range frames {
				column[k] = f[i]
			}
			pixels[i] = holo.Median(column)
		}
	default:
		pixels = make([]float64, w*h)
		for _, f := range frames {
			floats.Add(pixels, f)
		}
		floats.Scale(1/float64(len(frames)), pixels)
	}

	ref, err := holo.NewComplexMatFromReal(w, h, pixels)
	if err != nil {
		return err
	}
	r.ref = ref
	run.Logger.Debug("reference computed",
		slog.String("component", "reference-removal"),
		slog.String("mode", r.Mode.String()),
		slog.Int("frames", len(frames)))
	return nil
}

func (r *ReferenceRemoval) Hologram(run *pipeline.Run) error {
	if r.ref == nil {
		return errors.New("no reference hologram")
	}
	run.Field().MutateSpatial(func(m *holo.ComplexMat) { m.Sub(r.ref) })
	return nil
}
