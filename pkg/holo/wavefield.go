package holo

import "fmt"

// Domain names one of the two representations held by a Wavefield.
type Domain int

const (
	DomainSpatial Domain = iota
	DomainFrequency
)

func (d Domain) String() string {
	switch d {
	case DomainSpatial:
		return "Spatial"
	case DomainFrequency:
		return "Frequency"
	default:
		return "Unknown"
	}
}

// Wavefield owns a complex optical field in up to two representations: the
// spatial samples and their centered spectrum. At least one is always
// present. The side most recently written is authoritative; writing one
// side drops the other, which is rebuilt through the plan on next request.
//
// Matrices returned by Spatial and Frequency must be treated as read-only.
// All writes go through MutateSpatial, MutateFrequency, SetSpatial or
// SetFrequency so the stale side is discarded.
type Wavefield struct {
	plan      *Plan
	spatial   *ComplexMat
	frequency *ComplexMat
	authority Domain
}

// NewWavefield wraps spatial samples. The wavefield takes ownership of m.
func NewWavefield(m *ComplexMat, plan *Plan) (*Wavefield, error) {
	if !plan.Fits(m) {
		return nil, fmt.Errorf("%w: field %dx%d, plan %dx%d", ErrSizeMismatch, m.width, m.height, plan.width, plan.height)
	}
	return &Wavefield{plan: plan, spatial: m, authority: DomainSpatial}, nil
}

// NewWavefieldFromSpectrum wraps a centered spectrum. The wavefield takes
// ownership of m.
func NewWavefieldFromSpectrum(m *ComplexMat, plan *Plan) (*Wavefield, error) {
	if !plan.Fits(m) {
		return nil, fmt.Errorf("%w: spectrum %dx%d, plan %dx%d", ErrSizeMismatch, m.width, m.height, plan.width, plan.height)
	}
	return &Wavefield{plan: plan, frequency: m, authority: DomainFrequency}, nil
}

func (w *Wavefield) Width() int  { return w.plan.width }
func (w *Wavefield) Height() int { return w.plan.height }
func (w *Wavefield) Plan() *Plan { return w.plan }

// Authority returns the representation that was last written directly.
func (w *Wavefield) Authority() Domain { return w.authority }

func (w *Wavefield) HasSpatial() bool   { return w.spatial != nil }
func (w *Wavefield) HasFrequency() bool { return w.frequency != nil }

// Spatial returns the spatial samples, deriving them from the spectrum
// when absent: copy, inverse shift, inverse transform.
func (w *Wavefield) Spatial() *ComplexMat {
	if w.spatial == nil {
		m := w.frequency.Copy()
		Shift(m, ShiftInverse)
		w.plan.Inverse(m)
		w.spatial = m
	}
	return w.spatial
}

// Frequency returns the centered spectrum, deriving it from the spatial
// samples when absent: copy, forward transform, forward shift.
func (w *Wavefield) Frequency() *ComplexMat {
	if w.frequency == nil {
		m := w.spatial.Copy()
		w.plan.Forward(m)
		Shift(m, ShiftForward)
		w.frequency = m
	}
	return w.frequency
}

// MutateSpatial applies fn to the spatial samples and drops the spectrum.
func (w *Wavefield) MutateSpatial(fn func(m *ComplexMat)) {
	fn(w.Spatial())
	w.changed(DomainSpatial)
}

// MutateFrequency applies fn to the spectrum and drops the spatial samples.
func (w *Wavefield) MutateFrequency(fn func(m *ComplexMat)) {
	fn(w.Frequency())
	w.changed(DomainFrequency)
}

// SetSpatial replaces the spatial samples, taking ownership of m.
func (w *Wavefield) SetSpatial(m *ComplexMat) error {
	if !w.plan.Fits(m) {
		return fmt.Errorf("%w: field %dx%d, plan %dx%d", ErrSizeMismatch, m.width, m.height, w.plan.width, w.plan.height)
	}
	w.spatial = m
	w.changed(DomainSpatial)
	return nil
}

// SetFrequency replaces the spectrum, taking ownership of m.
func (w *Wavefield) SetFrequency(m *ComplexMat) error {
	if !w.plan.Fits(m) {
		return fmt.Errorf("%w: spectrum %dx%d, plan %dx%d", ErrSizeMismatch, m.width, m.height, w.plan.width, w.plan.height)
	}
	w.frequency = m
	w.changed(DomainFrequency)
	return nil
}

// changed records d as authoritative and discards the other side.
func (w *Wavefield) changed(d Domain) {
	w.authority = d
	switch d {
	case DomainSpatial:
		w.frequency = nil
	case DomainFrequency:
		w.spatial = nil
	}
}

// Copy deep-copies whichever representations are present. The copy shares
// the plan, which is not mutated by transforms beyond its scratch space.
func (w *Wavefield) Copy() *Wavefield {
	c := &Wavefield{plan: w.plan, authority: w.authority}
	if w.spatial != nil {
		c.spatial = w.spatial.Copy()
	}
	if w.frequency != nil {
		c.frequency = w.frequency.Copy()
	}
	return c
}
