package stages

import (
	"log/slog"

	"holoreco/pkg/pipeline"
)

// Progress reports run progress through the run logger and an optional
// callback, and logs the kernel cache state of the sibling propagator at the
// end of the run.
type Progress struct {
	// OnStep, when set, is called after every propagation pass.
	OnStep func(done, total int)

	provider PropagatorProvider
	done     int
	total    int
}

func NewProgress(onStep func(done, total int)) *Progress {
	return &Progress{OnStep: onStep}
}

func (p *Progress) Name() string { return "progress" }

func (p *Progress) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StagePropagatedField {
		return -1000
	}
	return 0
}

func (p *Progress) Discover(r *pipeline.Registry) error {
	p.provider, _ = pipeline.Find[PropagatorProvider](r)
	return nil
}

func (p *Progress) Begin(run *pipeline.Run) error {
	p.done = 0
	p.total = len(run.Config.Times) * len(run.Config.Distances)
	run.Logger.Info("reconstruction started",
		slog.String("component", "progress"),
		slog.String("wavelength", run.Config.Wavelength.String()),
		slog.Int("steps", p.total))
	return nil
}

func (p *Progress) Hologram(run *pipeline.Run) error {
	run.Logger.Debug("time slice",
		slog.String("component", "progress"),
		slog.Int("time", run.Time()),
		slog.Int("index", run.TimeIndex()))
	return nil
}

func (p *Progress) PropagatedField(*pipeline.Run) error {
	p.done++
	if p.OnStep != nil {
		p.OnStep(p.done, p.total)
	}
	return nil
}

func (p *Progress) End(run *pipeline.Run) error {
	attrs := []any{slog.String("component", "progress"), slog.Int("steps", p.done)}
	if p.provider != nil {
		if prop := p.provider.Propagator(); prop != nil {
			s := prop.Stats()
			attrs = append(attrs,
				slog.Int("kernel_hits", s.Hits),
				slog.Int("kernel_misses", s.Misses),
				slog.Int("kernels_cached", prop.CachedKernels()),
				slog.Int64("cache_bytes", prop.Footprint()),
				slog.Int64("cache_budget", prop.Budget()))
		}
	}
	run.Logger.Info("reconstruction finished", attrs...)
	return nil
}

// Done returns the number of completed propagation passes.
func (p *Progress) Done() int { return p.done }
