package stages

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"math/cmplx"
	"testing"

	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

func testConfig(w *bytes.Buffer, times []int, distances ...holo.Length) *pipeline.Config {
	var out io.Writer = io.Discard
	if w != nil {
		out = w
	}
	cfg := pipeline.NewConfig()
	cfg.Wavelength = holo.Micrometers(0.5)
	cfg.FieldWidth = holo.Micrometers(32)
	cfg.FieldHeight = holo.Micrometers(16)
	cfg.Times = times
	cfg.Distances = distances
	cfg.Logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return cfg
}

func stackOf(t *testing.T, frames ...holo.Frame) *holo.FrameStack {
	t.Helper()

	s, err := holo.NewFrameStack(frames...)
	if err != nil {
		t.Fatalf("NewFrameStack: %v", err)
	}
	return s
}

// carrierFrame is 1 + cos(2π k x / w): a DC term plus first orders at ±k.
func carrierFrame(w, h, k int) holo.Frame {
	f := holo.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Pixels[y*w+x] = 1 + math.Cos(2*math.Pi*float64(k*x)/float64(w))
		}
	}
	return f
}

// squareFrame is a dark frame with a bright size x size square at the
// center.
func squareFrame(w, h, size int) holo.Frame {
	f := holo.NewFrame(w, h)
	for y := h/2 - size/2; y < h/2-size/2+size; y++ {
		for x := w/2 - size/2; x < w/2-size/2+size; x++ {
			f.Pixels[y*w+x] = 1
		}
	}
	return f
}

func runPipeline(t *testing.T, cfg *pipeline.Config, src pipeline.Source, ps ...pipeline.Participant) *pipeline.Report {
	t.Helper()

	o, err := pipeline.New(cfg, src, ps...)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	t.Cleanup(o.Close)
	report, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return report
}

// fieldProbe copies the run field at one stage.
type fieldProbe struct {
	stage    pipeline.Stage
	priority int
	fields   []*holo.ComplexMat
}

func (p *fieldProbe) Name() string { return "probe-" + p.stage.String() }

func (p *fieldProbe) Priority(stage pipeline.Stage) int {
	if stage == p.stage {
		return p.priority
	}
	return 0
}

func (p *fieldProbe) record(run *pipeline.Run) error {
	if run.Stage() == p.stage {
		p.fields = append(p.fields, run.Field().Spatial().Copy())
	}
	return nil
}

func (p *fieldProbe) Hologram(run *pipeline.Run) error        { return p.record(run) }
func (p *fieldProbe) FilteredField(run *pipeline.Run) error   { return p.record(run) }
func (p *fieldProbe) PropagatedField(run *pipeline.Run) error { return p.record(run) }

func assertAllClose(t *testing.T, m *holo.ComplexMat, want complex128, tol float64) {
	t.Helper()

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if d := cmplx.Abs(m.At(x, y) - want); d > tol {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, m.At(x, y), want)
			}
		}
	}
}

func assertMatClose(t *testing.T, got, want *holo.ComplexMat, tol float64) {
	t.Helper()

	for y := 0; y < want.Height(); y++ {
		for x := 0; x < want.Width(); x++ {
			if d := cmplx.Abs(got.At(x, y) - want.At(x, y)); d > tol {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
}
