package stages

import (
	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

// Result is the reconstructed field at one (time, distance) pair.
type Result struct {
	Time          int
	TimeIndex     int
	Distance      holo.Length
	DistanceIndex int
	Field         *holo.Wavefield
}

// Collector keeps a copy of the final field of every propagation pass. The
// copies carry their spatial samples; deriving the spectrum needs the
// orchestrator's plan, which lives until the orchestrator is closed.
type Collector struct {
	results []Result
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Name() string { return "collector" }

func (c *Collector) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StagePropagatedField {
		return -100
	}
	return 0
}

func (c *Collector) Begin(*pipeline.Run) error {
	c.results = nil
	return nil
}

func (c *Collector) PropagatedField(run *pipeline.Run) error {
	f := run.Field()
	f.Spatial()
	c.results = append(c.results, Result{
		Time:          run.Time(),
		TimeIndex:     run.TimeIndex(),
		Distance:      run.Distance(),
		DistanceIndex: run.DistanceIndex(),
		Field:         f.Copy(),
	})
	return nil
}

// Results returns the collected fields in processing order.
func (c *Collector) Results() []Result { return c.results }

// Result returns the field for a position in Config.Times and
// Config.Distances.
func (c *Collector) Result(timeIndex, distanceIndex int) (Result, bool) {
	for _, r := range c.results {
		if r.TimeIndex == timeIndex && r.DistanceIndex == distanceIndex {
			return r, true
		}
	}
	return Result{}, false
}
