package holo

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FocusMetric scores how sharp an amplitude plane is; larger is sharper.
type FocusMetric int

const (
	FocusTamura FocusMetric = iota
	FocusVariance
	FocusGradient
)

func (m FocusMetric) String() string {
	switch m {
	case FocusTamura:
		return "Tamura"
	case FocusVariance:
		return "Variance"
	case FocusGradient:
		return "Gradient"
	default:
		return "Unknown"
	}
}

// ParseFocusMetric accepts "tamura", "variance" and "gradient".
func ParseFocusMetric(s string) (FocusMetric, bool) {
	switch s {
	case "tamura", "Tamura":
		return FocusTamura, true
	case "variance", "Variance":
		return FocusVariance, true
	case "gradient", "Gradient":
		return FocusGradient, true
	}
	return 0, false
}

// Score evaluates the metric on a row-major amplitude plane.
func (m FocusMetric) Score(amplitude []float64, width, height int) float64 {
	switch m {
	case FocusVariance:
		return stat.Variance(amplitude, nil)
	case FocusGradient:
		return GradientEnergy(amplitude, width, height)
	default:
		return TamuraCoefficient(amplitude)
	}
}

// TamuraCoefficient is sqrt(stddev/mean) of the amplitude. An in-focus
// amplitude object concentrates energy and raises it.
func TamuraCoefficient(amplitude []float64) float64 {
	mean, std := stat.MeanStdDev(amplitude, nil)
	if mean <= 0 || math.IsNaN(std) {
		return 0
	}
	return math.Sqrt(std / mean)
}

// GradientEnergy is the mean squared forward difference along both axes.
func GradientEnergy(plane []float64, width, height int) float64 {
	if width < 2 && height < 2 {
		return 0
	}
	var sum float64
	var n int
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			v := plane[row+x]
			if x+1 < width {
				d := plane[row+x+1] - v
				sum += d * d
				n++
			}
			if y+1 < height {
				d := plane[row+width+x] - v
				sum += d * d
				n++
			}
		}
	}
	return sum / float64(n)
}

// BestFocus returns the index of the highest score, or -1 when scores is
// empty. NaN scores never win.
func BestFocus(scores []float64) int {
	best := -1
	for i, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}

// Median returns the median of values without modifying them.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return sorted[n/2]
}
