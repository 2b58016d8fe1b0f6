package stages

import (
	"log/slog"

	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

// FocusResult is the sharpness sweep of one time slice.
type FocusResult struct {
	Time int
	// Best indexes Config.Distances, or -1 when no score was usable.
	Best     int
	Distance holo.Length
	Scores   []float64
}

// Autofocus scores the amplitude of every propagated field and reports the
// sharpest distance of each time slice.
type Autofocus struct {
	Metric holo.FocusMetric

	scores  []float64
	results []FocusResult
}

func NewAutofocus(metric holo.FocusMetric) *Autofocus {
	return &Autofocus{Metric: metric}
}

func (a *Autofocus) Name() string { return "autofocus" }

func (a *Autofocus) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StagePropagatedField {
		return -50
	}
	return 0
}

// Results returns one entry per completed time slice.
func (a *Autofocus) Results() []FocusResult { return a.results }

func (a *Autofocus) Begin(*pipeline.Run) error {
	a.results = nil
	return nil
}

func (a *Autofocus) Hologram(*pipeline.Run) error {
	a.scores = a.scores[:0]
	return nil
}

func (a *Autofocus) PropagatedField(run *pipeline.Run) error {
	amp := run.Field().Spatial().Abs()
	a.scores = append(a.scores, a.Metric.Score(amp, run.Width(), run.Height()))
	if run.DistanceIndex() < len(run.Config.Distances)-1 {
		return nil
	}

	res := FocusResult{
		Time:   run.Time(),
		Best:   holo.BestFocus(a.scores),
		Scores: append([]float64(nil), a.scores...),
	}
	if res.Best >= 0 {
		res.Distance = run.Config.Distances[res.Best]
	}
	a.results = append(a.results, res)
	run.Logger.Info("best focus",
		slog.String("component", "autofocus"),
		slog.Int("time", res.Time),
		slog.String("distance", res.Distance.String()),
		slog.String("metric", a.Metric.String()))
	return nil
}
