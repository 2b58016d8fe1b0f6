package holo

import "fmt"

// Frame is one recorded hologram: row-major intensities, normally in [0, 1].
type Frame struct {
	Width  int
	Height int
	Pixels []float64
}

// NewFrame allocates a zero frame.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height, Pixels: make([]float64, width*height)}
}

// FrameFromPixels converts unsigned integer samples of the given bit depth
// to a frame normalized to [0, 1).
func FrameFromPixels(pixels []uint16, bitDepth, width, height int) Frame {
	f := NewFrame(width, height)
	scale := float64(uint32(1) << uint(bitDepth))
	for i := 0; i < width*height; i++ {
		f.Pixels[i] = float64(pixels[i]) / scale
	}
	return f
}

// At returns the intensity at column x, row y.
func (f Frame) At(x, y int) float64 { return f.Pixels[y*f.Width+x] }

// Validate checks that the pixel slice matches the dimensions.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 || len(f.Pixels) != f.Width*f.Height {
		return fmt.Errorf("%w: frame %dx%d with %d pixels", ErrInvalidSize, f.Width, f.Height, len(f.Pixels))
	}
	return nil
}

// ComplexMat wraps the intensities as a real-valued complex matrix.
func (f Frame) ComplexMat() (*ComplexMat, error) {
	return NewComplexMatFromReal(f.Width, f.Height, f.Pixels)
}

// Wavefield builds a spatial-domain wavefield from the frame.
func (f Frame) Wavefield(plan *Plan) (*Wavefield, error) {
	m, err := f.ComplexMat()
	if err != nil {
		return nil, err
	}
	return NewWavefield(m, plan)
}

// FrameStack is an ordered series of equally sized frames, one per time
// slice.
type FrameStack struct {
	width  int
	height int
	frames []Frame
}

// NewFrameStack builds a stack from frames, which must all share a size.
func NewFrameStack(frames ...Frame) (*FrameStack, error) {
	s := &FrameStack{}
	for _, f := range frames {
		if err := s.Add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a frame. The first frame fixes the stack dimensions.
func (s *FrameStack) Add(f Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if len(s.frames) == 0 {
		s.width, s.height = f.Width, f.Height
	} else if f.Width != s.width || f.Height != s.height {
		return fmt.Errorf("%w: frame %dx%d, stack %dx%d", ErrSizeMismatch, f.Width, f.Height, s.width, s.height)
	}
	s.frames = append(s.frames, f)
	return nil
}

// Size returns the frame dimensions.
func (s *FrameStack) Size() (int, int) { return s.width, s.height }

// Len returns the number of frames.
func (s *FrameStack) Len() int { return len(s.frames) }

// Frame returns frame t.
func (s *FrameStack) Frame(t int) (Frame, error) {
	if t < 0 || t >= len(s.frames) {
		return Frame{}, fmt.Errorf("%w: %d of %d", ErrFrameIndex, t, len(s.frames))
	}
	return s.frames[t], nil
}
