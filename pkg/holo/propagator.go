package holo

import (
	"fmt"
	"log/slog"
	"math"
)

// KernelKeyScale quantizes propagation distances to 1/1000 of a micrometer
// for kernel cache lookup.
const KernelKeyScale = 1000

// PropagatorParams describes the hologram geometry for angular-spectrum
// propagation.
type PropagatorParams struct {
	Wavelength  Length
	FieldWidth  Length // physical extent along x
	FieldHeight Length // physical extent along y
	Width       int    // samples along x
	Height      int    // samples along y
	CacheBytes  int64  // kernel cache budget; 0 disables caching
	Logger      *slog.Logger
}

// CacheStats counts kernel cache activity.
type CacheStats struct {
	Hits    int
	Misses  int
	Stored  int
	Skipped int // kernels computed but not kept because of the budget
}

// Propagator propagates spectra between depths with the scalar angular
// spectrum method. Kernels exp(i*dz*core) are cached per quantized distance
// while the cache footprint stays within CacheBytes.
//
// A Propagator is not safe for concurrent use.
type Propagator struct {
	params      PropagatorParams
	core        []float64
	kernels     map[int64]*ComplexMat
	kernelBytes int64
	stats       CacheStats
	logger      *slog.Logger
}

// NewPropagator computes the propagation core
//
//	k * sqrt(max(0, 1 - λ²(fx²/Wx² + fy²/Wy²)))
//
// for every centered frequency index. Evanescent frequencies, where the
// radicand is negative, get a zero core.
func NewPropagator(p PropagatorParams) (*Propagator, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("%w: propagator %dx%d", ErrInvalidSize, p.Width, p.Height)
	}
	lambda := p.Wavelength.In(Micrometer)
	wx := p.FieldWidth.In(Micrometer)
	wy := p.FieldHeight.In(Micrometer)
	if !(lambda > 0) || !(wx > 0) || !(wy > 0) {
		return nil, fmt.Errorf("%w: wavelength %v, field %v x %v", ErrInvalidLength, p.Wavelength, p.FieldWidth, p.FieldHeight)
	}
	if p.CacheBytes < 0 {
		return nil, fmt.Errorf("negative kernel cache budget %d", p.CacheBytes)
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	k := 2 * math.Pi / lambda
	l2 := lambda * lambda
	core := make([]float64, p.Width*p.Height)
	for y := 0; y < p.Height; y++ {
		fy := float64(y - p.Height/2)
		fy2 := fy * fy / (wy * wy)
		for x := 0; x < p.Width; x++ {
			fx := float64(x - p.Width/2)
			arg := 1 - l2*(fx*fx/(wx*wx)+fy2)
			if arg > 0 {
				core[y*p.Width+x] = k * math.Sqrt(arg)
			}
		}
	}

	return &Propagator{
		params:      p,
		core:        core,
		kernels:     make(map[int64]*ComplexMat),
		kernelBytes: int64(p.Width) * int64(p.Height) * 16,
		logger:      logger.With(slog.String("component", "propagator")),
	}, nil
}

// Core returns a copy of the propagation core in radians per micrometer.
func (p *Propagator) Core() []float64 {
	out := make([]float64, len(p.core))
	copy(out, p.core)
	return out
}

// Key returns the cache key for a propagation distance.
func (p *Propagator) Key(dz Length) int64 {
	return int64(math.Round(dz.In(Micrometer) * KernelKeyScale))
}

// Kernel returns the frequency-domain kernel for dz. A miss builds the
// kernel at dz itself; the quantized key only indexes the cache, so a hit
// returns the kernel of the first distance stored under that key. The
// result may be shared with the cache and must not be modified.
func (p *Propagator) Kernel(dz Length) *ComplexMat {
	key := p.Key(dz)
	if k, ok := p.kernels[key]; ok {
		p.stats.Hits++
		return k
	}
	p.stats.Misses++

	d := dz.In(Micrometer)
	k := &ComplexMat{width: p.params.Width, height: p.params.Height, data: make([]complex128, len(p.core))}
	for i, c := range p.core {
		s, co := math.Sincos(d * c)
		k.data[i] = complex(co, s)
	}

	if int64(len(p.kernels)+1)*p.kernelBytes <= p.params.CacheBytes {
		p.kernels[key] = k
		p.stats.Stored++
		p.logger.Debug("kernel cached", slog.Float64("dz_um", d), slog.Int("kernels", len(p.kernels)))
	} else {
		p.stats.Skipped++
		p.logger.Debug("kernel cache full", slog.Float64("dz_um", d), slog.Int64("footprint", p.Footprint()))
	}
	return k
}

// Propagate moves w by the signed distance dz. Only the spectrum is touched;
// the spatial side is dropped and rebuilt on demand.
func (p *Propagator) Propagate(w *Wavefield, dz Length) error {
	if w.Width() != p.params.Width || w.Height() != p.params.Height {
		return fmt.Errorf("%w: field %dx%d, propagator %dx%d", ErrSizeMismatch, w.Width(), w.Height(), p.params.Width, p.params.Height)
	}
	k := p.Kernel(dz)
	w.MutateFrequency(func(m *ComplexMat) { m.Mul(k) })
	return nil
}

// PropagateTo moves w from depth from to depth to.
func (p *Propagator) PropagateTo(w *Wavefield, from, to Length) error {
	return p.Propagate(w, to.Sub(from))
}

// Footprint estimates the bytes held by cached kernels.
func (p *Propagator) Footprint() int64 {
	return int64(len(p.kernels)) * p.kernelBytes
}

// KernelBytes is the size of one kernel.
func (p *Propagator) KernelBytes() int64 { return p.kernelBytes }

// CachedKernels returns the number of kernels retained.
func (p *Propagator) CachedKernels() int { return len(p.kernels) }

// Budget returns the configured cache budget in bytes.
func (p *Propagator) Budget() int64 { return p.params.CacheBytes }

// Stats returns the cache counters since construction or the last Reset.
func (p *Propagator) Stats() CacheStats { return p.stats }

// Reset drops all cached kernels and zeroes the statistics.
func (p *Propagator) Reset() {
	p.kernels = make(map[int64]*ComplexMat)
	p.stats = CacheStats{}
}
