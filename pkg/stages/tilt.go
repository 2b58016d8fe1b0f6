package stages

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

// TiltCorrection removes a linear phase ramp from the propagated field.
// A residual carrier or a tilted reference beam shows up as such a ramp.
type TiltCorrection struct {
	slopeX, slopeY float64
}

func NewTiltCorrection() *TiltCorrection { return &TiltCorrection{} }

func (c *TiltCorrection) Name() string { return "tilt-correction" }

func (c *TiltCorrection) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StagePropagatedField {
		return 50
	}
	return 0
}

// Slope returns the ramp removed last, in radians per pixel.
func (c *TiltCorrection) Slope() (x, y float64) { return c.slopeX, c.slopeY }

func (c *TiltCorrection) PropagatedField(run *pipeline.Run) error {
	field := run.Field()
	sx, sy := EstimateTilt(field.Spatial())
	c.slopeX, c.slopeY = sx, sy
	if sx == 0 && sy == 0 {
		return nil
	}
	field.MutateSpatial(func(m *holo.ComplexMat) { RemoveTilt(m, sx, sy) })
	return nil
}

// EstimateTilt fits the phase slope of m along x and y in radians per
// pixel. Each neighbour pair contributes its wrapped phase difference,
// weighted by the product of the two amplitudes; the slope is the weighted
// least-squares constant through those differences.
func EstimateTilt(m *holo.ComplexMat) (float64, float64) {
	w, h := m.Width(), m.Height()
	n := (w-1)*h + w*(h-1)
	if n <= 0 {
		return 0, 0
	}
	gx := make([]float64, 0, (w-1)*h)
	wx := make([]float64, 0, (w-1)*h)
	gy := make([]float64, 0, w*(h-1))
	wy := make([]float64, 0, w*(h-1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := m.At(x, y)
			if x+1 < w {
				r := m.At(x+1, y)
				gx = append(gx, cmplx.Phase(r*cmplx.Conj(v)))
				wx = append(wx, cmplx.Abs(r)*cmplx.Abs(v))
			}
			if y+1 < h {
				d := m.At(x, y+1)
				gy = append(gy, cmplx.Phase(d*cmplx.Conj(v)))
				wy = append(wy, cmplx.Abs(d)*cmplx.Abs(v))
			}
		}
	}
	return weightedSlope(gx, wx), weightedSlope(gy, wy)
}

func weightedSlope(g, weights []float64) float64 {
	if len(g) == 0 || floats.Sum(weights) == 0 {
		return 0
	}
	s := stat.Mean(g, weights)
	if math.IsNaN(s) {
		return 0
	}
	return s
}

// RemoveTilt multiplies m by exp(-i(sx*x + sy*y)).
func RemoveTilt(m *holo.ComplexMat, sx, sy float64) {
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			s, c := math.Sincos(-(sx*float64(x) + sy*float64(y)))
			m.Set(x, y, m.At(x, y)*complex(c, s))
		}
	}
}
