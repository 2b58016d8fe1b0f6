package export

import (
	"fmt"
	"log/slog"
	"os"

	"holoreco/pkg/pipeline"
)

// Exporter writes the selected planes of every propagated field to Dir as
// PNG images and, with Float16, as raw half-precision dumps. Files are
// named t<time>_d<distance index>_<plane>.
type Exporter struct {
	Dir      string
	Planes   []Plane
	Float16  bool
	Captions bool

	written []string
}

func NewExporter(dir string, planes ...Plane) *Exporter {
	if len(planes) == 0 {
		planes = []Plane{PlaneAmplitude}
	}
	return &Exporter{Dir: dir, Planes: planes, Captions: true}
}

func (e *Exporter) Name() string { return "exporter" }

func (e *Exporter) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StagePropagatedField {
		return -200
	}
	return 0
}

// Written returns the paths written so far.
func (e *Exporter) Written() []string { return e.written }

func (e *Exporter) Begin(*pipeline.Run) error {
	e.written = nil
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func (e *Exporter) PropagatedField(run *pipeline.Run) error {
	m := run.Field().Spatial()
	for _, p := range e.Planes {
		name := fmt.Sprintf("t%04d_d%03d_%s", run.Time(), run.DistanceIndex(), p)

		caption := ""
		if e.Captions {
			caption = fmt.Sprintf("t=%d z=%v %s", run.Time(), run.Distance(), p)
		}
		path, err := WritePNG(e.Dir, name, Render(m, p, caption))
		if err != nil {
			return err
		}
		e.written = append(e.written, path)

		if e.Float16 {
			path, err := WriteFloat16File(e.Dir, name, Extract(m, p))
			if err != nil {
				return err
			}
			e.written = append(e.written, path)
		}
	}
	run.Logger.Debug("planes written",
		slog.String("component", "exporter"),
		slog.Int("time", run.Time()),
		slog.String("distance", run.Distance().String()),
		slog.Int("files", len(e.written)))
	return nil
}
