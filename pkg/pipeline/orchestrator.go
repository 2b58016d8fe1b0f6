package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"holoreco/pkg/holo"
)

// Report summarizes a run, complete or not.
type Report struct {
	// TimeSlices counts time slices whose distance loop completed.
	TimeSlices int
	// Propagations counts completed PropagatedField passes.
	Propagations int
	// Stage is the last stage entered.
	Stage    Stage
	Canceled bool
	Duration time.Duration
}

type entry struct {
	participant Participant
	order       int
	priority    int
}

// Orchestrator drives participants through the stages of a run. Before
// every stage, including each pass of the distance loop, participants are
// re-sorted by the priority they declare for that stage. The first error
// aborts the run; nothing runs after it.
//
// The transform plan is created by the first Run and kept until Close, so
// wavefields handed out during a run stay usable afterwards. An
// Orchestrator runs on the calling goroutine and must not be used
// concurrently.
type Orchestrator struct {
	cfg     *Config
	source  Source
	entries []entry
	plan    *holo.Plan
	logger  *slog.Logger
}

// New creates an orchestrator. A nil cfg uses NewConfig.
func New(cfg *Config, source Source, participants ...Participant) (*Orchestrator, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	o := &Orchestrator{
		cfg:    cfg,
		source: source,
		logger: cfg.logger().With(slog.String("component", "pipeline")),
	}
	for _, p := range participants {
		if err := o.Add(p); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Add registers a participant after those already present.
func (o *Orchestrator) Add(p Participant) error {
	for _, e := range o.entries {
		if e.participant.Name() == p.Name() {
			return fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.Name())
		}
	}
	o.entries = append(o.entries, entry{participant: p, order: len(o.entries)})
	return nil
}

// Participants returns the participants in registration order.
func (o *Orchestrator) Participants() []Participant {
	sorted := slices.Clone(o.entries)
	slices.SortFunc(sorted, func(a, b entry) int { return cmp.Compare(a.order, b.order) })
	out := make([]Participant, len(sorted))
	for i, e := range sorted {
		out[i] = e.participant
	}
	return out
}

// Run executes Beginning, OriginalHologram, the time and distance loops and
// Ending. ctx is polled before every distance iteration; when it is done
// the run stops with an error wrapping ErrCanceled. A participant failure
// is returned as a *StageError. The report is returned in every case once
// the run has started.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	cfg := o.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.source == nil {
		return nil, fmt.Errorf("%w: no source", ErrInvalidConfig)
	}
	for _, t := range cfg.Times {
		if t >= o.source.Len() {
			return nil, fmt.Errorf("%w: time index %d, source has %d frames", ErrInvalidConfig, t, o.source.Len())
		}
	}

	width, height := o.source.Size()
	plan, err := o.planFor(width, height)
	if err != nil {
		return nil, err
	}

	run := &Run{
		Config:        cfg,
		Source:        o.source,
		Plan:          plan,
		Logger:        cfg.logger(),
		timeIndex:     -1,
		distanceIndex: -1,
	}
	report := &Report{Stage: StageBeginning}
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	o.logger.Info("run started",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("times", len(cfg.Times)),
		slog.Int("distances", len(cfg.Distances)),
		slog.Int("participants", len(o.entries)))

	registry := newRegistry(o.Participants())
	for _, p := range registry.participants {
		d, ok := p.(Discoverer)
		if !ok {
			continue
		}
		if err := d.Discover(registry); err != nil {
			return report, o.abort(report, &StageError{Stage: StageBeginning, Participant: p.Name(), Err: err})
		}
	}

	if err := o.runStage(run, report, StageBeginning); err != nil {
		return report, err
	}

	run.timeIndex = 0
	if err := o.loadFrame(run, cfg.Times[0]); err != nil {
		return report, err
	}
	if err := o.runStage(run, report, StageOriginalHologram); err != nil {
		return report, err
	}

	for i, t := range cfg.Times {
		run.timeIndex = i
		run.distanceIndex = -1
		if err := o.loadFrame(run, t); err != nil {
			return report, err
		}
		if err := o.runStage(run, report, StageHologram); err != nil {
			return report, err
		}
		if err := o.runStage(run, report, StageFilteredField); err != nil {
			return report, err
		}

		for j := range cfg.Distances {
			if ctx != nil {
				select {
				case <-ctx.Done():
					return report, o.abort(report, fmt.Errorf("%w at time %d, distance %v: %w", ErrCanceled, t, cfg.Distances[j], ctx.Err()))
				default:
				}
			}
			run.distanceIndex = j
			if err := o.runStage(run, report, StagePropagatedField); err != nil {
				return report, err
			}
			report.Propagations++
		}
		report.TimeSlices++
	}

	run.timeIndex = -1
	run.distanceIndex = -1
	if err := o.runStage(run, report, StageEnding); err != nil {
		return report, err
	}

	o.logger.Info("run finished",
		slog.Int("time_slices", report.TimeSlices),
		slog.Int("propagations", report.Propagations),
		slog.Duration("elapsed", time.Since(start)))
	return report, nil
}

// Close releases the transform plan.
func (o *Orchestrator) Close() {
	if o.plan != nil {
		o.plan.Close()
		o.plan = nil
	}
}

func (o *Orchestrator) planFor(width, height int) (*holo.Plan, error) {
	if o.plan != nil && o.plan.Width() == width && o.plan.Height() == height {
		return o.plan, nil
	}
	o.Close()
	plan, err := holo.NewPlan(width, height)
	if err != nil {
		return nil, err
	}
	o.plan = plan
	return plan, nil
}

func (o *Orchestrator) loadFrame(run *Run, t int) error {
	frame, err := o.source.Frame(t)
	if err != nil {
		return fmt.Errorf("loading frame %d: %w", t, err)
	}
	field, err := frame.Wavefield(run.Plan)
	if err != nil {
		return fmt.Errorf("loading frame %d: %w", t, err)
	}
	run.frame = frame
	run.field = field
	return nil
}

// runStage re-sorts the participants for stage and invokes each handler.
func (o *Orchestrator) runStage(run *Run, report *Report, stage Stage) error {
	run.stage = stage
	report.Stage = stage
	o.sort(stage)

	if o.logger.Enabled(context.Background(), slog.LevelDebug) {
		o.logger.Debug("stage",
			slog.String("stage", stage.String()),
			slog.Int("time", run.Time()),
			slog.String("distance", run.Distance().String()))
	}

	for _, e := range o.entries {
		fn := handler(e.participant, stage)
		if fn == nil {
			continue
		}
		err := fn(run)
		if err == nil {
			if f, ok := e.participant.(Failer); ok {
				err = f.Err()
			}
		}
		if err != nil {
			return o.abort(report, &StageError{Stage: stage, Participant: e.participant.Name(), Err: err})
		}
	}
	return nil
}

// sort orders entries by descending priority for stage, then registration
// order.
func (o *Orchestrator) sort(stage Stage) {
	for i := range o.entries {
		o.entries[i].priority = priorityOf(o.entries[i].participant, stage)
	}
	slices.SortStableFunc(o.entries, func(a, b entry) int {
		if c := cmp.Compare(b.priority, a.priority); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})
}

func (o *Orchestrator) abort(report *Report, err error) error {
	if errors.Is(err, ErrCanceled) {
		report.Canceled = true
		o.logger.Warn("run canceled", slog.String("stage", report.Stage.String()), slog.Any("error", err))
		return err
	}
	o.logger.Error("run aborted", slog.String("stage", report.Stage.String()), slog.Any("error", err))
	return err
}
