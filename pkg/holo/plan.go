package holo

import "fmt"

// Plan performs 2-D discrete Fourier transforms of a fixed size. Forward is
// unnormalized; Inverse divides by width*height so Inverse(Forward(m)) == m.
// Both transforms use corner-origin ordering; see Shift for centering.
//
// A Plan holds scratch buffers and is not safe for concurrent use.
type Plan struct {
	width   int
	height  int
	backend *planBackend
}

// NewPlan prepares transforms for width x height matrices.
func NewPlan(width, height int) (*Plan, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: plan %dx%d", ErrInvalidSize, width, height)
	}
	b, err := newPlanBackend(width, height)
	if err != nil {
		return nil, fmt.Errorf("creating %s plan: %w", backendName, err)
	}
	return &Plan{width: width, height: height, backend: b}, nil
}

func (p *Plan) Width() int  { return p.width }
func (p *Plan) Height() int { return p.height }

// Fits reports whether m has the plan's dimensions.
func (p *Plan) Fits(m *ComplexMat) bool {
	return m.width == p.width && m.height == p.height
}

// Forward transforms m in place.
func (p *Plan) Forward(m *ComplexMat) {
	p.backend.forward(m.data)
}

// Inverse transforms m in place.
func (p *Plan) Inverse(m *ComplexMat) {
	p.backend.inverse(m.data)
}

// Close releases backend resources. The plan must not be used afterwards.
func (p *Plan) Close() {
	p.backend.close()
}
