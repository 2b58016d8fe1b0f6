package stages

import (
	"math"
	"testing"

	"holoreco/pkg/holo"
)

func TestAutofocusFindsInFocusPlane(t *testing.T) {
	t.Parallel()

	for _, metric := range []holo.FocusMetric{holo.FocusTamura, holo.FocusVariance} {
		metric := metric
		t.Run(metric.String(), func(t *testing.T) {
			t.Parallel()

			distances := []holo.Length{holo.Micrometers(-200), holo.Micrometers(-100), holo.Micrometers(0), holo.Micrometers(150)}
			cfg := testConfig(nil, []int{0, 1}, distances...)
			cfg.FieldWidth = holo.Micrometers(32)
			cfg.FieldHeight = holo.Micrometers(32)
			frames := []holo.Frame{squareFrame(32, 32, 4), squareFrame(32, 32, 3)}

			af := NewAutofocus(metric)
			runPipeline(t, cfg, stackOf(t, frames...), NewPropagation(), af)

			results := af.Results()
			if len(results) != 2 {
				t.Fatalf("results = %d", len(results))
			}
			for i, r := range results {
				if r.Time != i {
					t.Errorf("result %d time = %d", i, r.Time)
				}
				if r.Best != 2 || r.Distance != holo.Micrometers(0) {
					t.Errorf("time %d: best = %d (%v), scores %v", r.Time, r.Best, r.Distance, r.Scores)
				}
				if len(r.Scores) != len(distances) {
					t.Errorf("time %d: %d scores", r.Time, len(r.Scores))
				}
				for _, s := range r.Scores {
					if math.IsNaN(s) {
						t.Errorf("time %d: NaN score", r.Time)
					}
				}
			}
		})
	}
}
