package stages

import (
	"errors"
	"fmt"

	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

// PropagatorProvider is implemented by participants that own the run's
// propagator. Siblings find it during discovery.
type PropagatorProvider interface {
	Propagator() *holo.Propagator
}

// Propagation refocuses the filtered field to every configured distance.
// It snapshots the spectrum at FilteredField, after the filter, and at each
// PropagatedField replaces the run field with the snapshot propagated from
// the hologram plane to the target distance. Every distance starts from the
// same snapshot, so kernels are reused across time slices.
type Propagation struct {
	prop     *holo.Propagator
	snapshot *holo.ComplexMat
}

func NewPropagation() *Propagation { return &Propagation{} }

func (p *Propagation) Name() string { return "propagation" }

func (p *Propagation) Priority(stage pipeline.Stage) int {
	if stage == pipeline.StagePropagatedField {
		return 100
	}
	return 0
}

// Propagator returns the propagator built at Beginning, or nil before.
func (p *Propagation) Propagator() *holo.Propagator { return p.prop }

func (p *Propagation) Begin(run *pipeline.Run) error {
	prop, err := holo.NewPropagator(holo.PropagatorParams{
		Wavelength:  run.Config.Wavelength,
		FieldWidth:  run.Config.FieldWidth,
		FieldHeight: run.Config.FieldHeight,
		Width:       run.Width(),
		Height:      run.Height(),
		CacheBytes:  run.Config.KernelCacheBytes,
		Logger:      run.Logger,
	})
	if err != nil {
		return fmt.Errorf("creating propagator: %w", err)
	}
	p.prop = prop
	return nil
}

func (p *Propagation) FilteredField(run *pipeline.Run) error {
	p.snapshot = run.Field().Frequency().Copy()
	return nil
}

func (p *Propagation) PropagatedField(run *pipeline.Run) error {
	if p.prop == nil || p.snapshot == nil {
		return errors.New("propagation not initialized")
	}
	w, err := holo.NewWavefieldFromSpectrum(p.snapshot.Copy(), run.Plan)
	if err != nil {
		return err
	}
	if err := p.prop.Propagate(w, run.Distance()); err != nil {
		return err
	}
	return run.SetField(w)
}
