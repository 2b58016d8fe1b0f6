package stages

import (
	"fmt"
	"log/slog"

	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

// SpectralFilter isolates one diffraction order of an off-axis hologram.
// It keeps a disk of Radius frequency pixels around the carrier and zeroes
// the rest of the centered spectrum. With Recenter the kept disk is moved
// to the spectrum center, which removes the carrier fringes from the
// reconstructed field.
//
// The carrier is given as an offset from the spectrum center. With
// AutoCarrier it is located for every time slice as the strongest
// frequency outside the central disk of Radius pixels; in-line holograms
// leave AutoCarrier off and the carrier at zero.
type SpectralFilter struct {
	CarrierX    int
	CarrierY    int
	Radius      float64
	Recenter    bool
	AutoCarrier bool

	usedX, usedY int
}

// NewSpectralFilter returns a filter that locates the carrier and
// recenters it.
func NewSpectralFilter(radius float64) *SpectralFilter {
	return &SpectralFilter{Radius: radius, Recenter: true, AutoCarrier: true}
}

func (f *SpectralFilter) Name() string { return "spectral-filter" }

func (f *SpectralFilter) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StageFilteredField {
		return 100
	}
	return 0
}

// Carrier returns the carrier offset used for the latest time slice.
func (f *SpectralFilter) Carrier() (x, y int) { return f.usedX, f.usedY }

func (f *SpectralFilter) FilteredField(run *pipeline.Run) error {
	if !(f.Radius > 0) {
		return fmt.Errorf("filter radius must be positive, got %v", f.Radius)
	}
	run.Field().MutateFrequency(func(m *holo.ComplexMat) {
		ox, oy := f.CarrierX, f.CarrierY
		if f.AutoCarrier {
			ox, oy = findCarrier(m, f.Radius)
		}
		f.usedX, f.usedY = ox, oy
		applyDiskMask(m, ox, oy, f.Radius, f.Recenter)
	})
	run.Logger.Debug("spectral filter",
		slog.String("component", "spectral-filter"),
		slog.Int("time", run.Time()),
		slog.Int("carrier_x", f.usedX),
		slog.Int("carrier_y", f.usedY))
	return nil
}

// findCarrier returns the offset from center of the strongest frequency
// outside the central disk of radius exclude. Ties go to the first sample
// in row-major order.
func findCarrier(m *holo.ComplexMat, exclude float64) (int, int) {
	w, h := m.Width(), m.Height()
	cx, cy := w/2, h/2
	ex2 := exclude * exclude
	power := m.Abs2()

	best := -1.0
	bx, by := 0, 0
	for y := 0; y < h; y++ {
		dy := float64(y - cy)
		for x := 0; x < w; x++ {
			dx := float64(x - cx)
			if dx*dx+dy*dy <= ex2 {
				continue
			}
			if p := power[y*w+x]; p > best {
				best = p
				bx, by = x-cx, y-cy
			}
		}
	}
	return bx, by
}

// applyDiskMask keeps samples within radius of the carrier, optionally
// moving them by (-ox, -oy) with wraparound.
func applyDiskMask(m *holo.ComplexMat, ox, oy int, radius float64, recenter bool) {
	w, h := m.Width(), m.Height()
	kx, ky := w/2+ox, h/2+oy
	r2 := radius * radius
	data := m.Data()
	out := make([]complex128, len(data))
	for y := 0; y < h; y++ {
		dy := float64(y - ky)
		for x := 0; x < w; x++ {
			dx := float64(x - kx)
			if dx*dx+dy*dy > r2 {
				continue
			}
			tx, ty := x, y
			if recenter {
				tx = wrap(x-ox, w)
				ty = wrap(y-oy, h)
			}
			out[ty*w+tx] = data[y*w+x]
		}
	}
	copy(data, out)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
