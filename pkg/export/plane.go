package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"holoreco/pkg/holo"
)

// Plane selects a real-valued view of a complex field.
type Plane int

const (
	PlaneAmplitude Plane = iota
	PlanePhase
	PlaneReal
	PlaneImaginary
	PlaneIntensity
)

func (p Plane) String() string {
	switch p {
	case PlaneAmplitude:
		return "amplitude"
	case PlanePhase:
		return "phase"
	case PlaneReal:
		return "real"
	case PlaneImaginary:
		return "imaginary"
	case PlaneIntensity:
		return "intensity"
	default:
		return "unknown"
	}
}

// ParsePlane accepts the names returned by String.
func ParsePlane(s string) (Plane, error) {
	for p := PlaneAmplitude; p <= PlaneIntensity; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown plane %q", s)
}

// ParsePlanes parses a comma-separated list such as "amplitude,phase".
func ParsePlanes(s string) ([]Plane, error) {
	var out []Plane
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := ParsePlane(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Extract returns the plane's values in row-major order.
func Extract(m *holo.ComplexMat, p Plane) []float64 {
	switch p {
	case PlanePhase:
		return m.Arg()
	case PlaneReal:
		return m.Real()
	case PlaneImaginary:
		return m.Imag()
	case PlaneIntensity:
		return m.Abs2()
	default:
		return m.Abs()
	}
}

// valueRange is the interval mapped to black..white. Phase always spans
// [-π, π] so phase images of different planes compare directly.
func valueRange(p Plane, values []float64) (float64, float64) {
	if p == PlanePhase {
		return -math.Pi, math.Pi
	}
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0
	}
	return floats.Min(finite), floats.Max(finite)
}
