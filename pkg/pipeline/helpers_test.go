package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"holoreco/pkg/holo"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(times []int, distances ...holo.Length) *Config {
	cfg := NewConfig()
	cfg.Times = times
	cfg.Distances = distances
	cfg.FieldWidth = holo.Micrometers(40)
	cfg.FieldHeight = holo.Micrometers(30)
	cfg.Logger = quietLogger()
	return cfg
}

func testSource(t *testing.T, frames int) *holo.FrameStack {
	t.Helper()

	s, err := holo.NewFrameStack()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < frames; i++ {
		f := holo.NewFrame(4, 3)
		for p := range f.Pixels {
			f.Pixels[p] = float64(i*100 + p)
		}
		if err := s.Add(f); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

// journal is an append-only event log shared by recorders.
type journal struct {
	events []string
}

func (j *journal) add(format string, args ...any) {
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

// only returns the events that start with prefix.
func (j *journal) only(prefix string) []string {
	var out []string
	for _, e := range j.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// recorder implements every capability and logs each call as
// "<stage> <name>" plus run position where meaningful.
type recorder struct {
	name       string
	j          *journal
	priorities map[Stage]int
	priorityFn func(Stage) int
	failStage  Stage
	failErr    error
	flag       error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Priority(s Stage) int {
	if r.priorityFn != nil {
		return r.priorityFn(s)
	}
	return r.priorities[s]
}

func (r *recorder) Err() error { return r.flag }

func (r *recorder) Discover(*Registry) error {
	r.j.add("Discover %s", r.name)
	return nil
}

func (r *recorder) call(run *Run) error {
	switch run.Stage() {
	case StageHologram, StageFilteredField:
		r.j.add("%s %s t=%d", run.Stage(), r.name, run.Time())
	case StagePropagatedField:
		r.j.add("%s %s t=%d d=%v", run.Stage(), r.name, run.Time(), run.Distance())
	default:
		r.j.add("%s %s", run.Stage(), r.name)
	}
	if r.failErr != nil && run.Stage() == r.failStage {
		return r.failErr
	}
	return nil
}

func (r *recorder) Begin(run *Run) error            { return r.call(run) }
func (r *recorder) OriginalHologram(run *Run) error { return r.call(run) }
func (r *recorder) Hologram(run *Run) error         { return r.call(run) }
func (r *recorder) FilteredField(run *Run) error    { return r.call(run) }
func (r *recorder) PropagatedField(run *Run) error  { return r.call(run) }
func (r *recorder) End(run *Run) error              { return r.call(run) }

func mustOrchestrator(t *testing.T, cfg *Config, src Source, ps ...Participant) *Orchestrator {
	t.Helper()

	o, err := New(cfg, src, ps...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(o.Close)
	return o
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d\ngot:  %q\nwant: %q", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %q, want %q\ngot:  %q", i, got[i], want[i], got)
		}
	}
}
