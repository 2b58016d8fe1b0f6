//go:build opencv

package holo

import (
	"fmt"

	"gocv.io/x/gocv"
)

const backendName = "opencv"

// planBackend wraps a two-channel CV_64F Mat and runs cv::dft on it. The
// channels hold the real and imaginary parts, which matches the interleaved
// layout of ComplexMat.
type planBackend struct {
	width  int
	height int
	mat    gocv.Mat
}

func newPlanBackend(width, height int) (*planBackend, error) {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV64FC2)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("allocating %dx%d CV_64FC2 mat", width, height)
	}
	b := &planBackend{width: width, height: height, mat: mat}
	if _, err := b.buffer(); err != nil {
		mat.Close()
		return nil, err
	}
	return b, nil
}

// buffer returns the Mat's interleaved samples, checked against the plan
// size.
func (b *planBackend) buffer() ([]float64, error) {
	buf, err := b.mat.DataPtrFloat64()
	if err != nil {
		return nil, fmt.Errorf("accessing CV_64FC2 data: %w", err)
	}
	if len(buf) < 2*b.width*b.height {
		return nil, fmt.Errorf("CV_64FC2 buffer holds %d values, want %d", len(buf), 2*b.width*b.height)
	}
	return buf, nil
}

// mustBuffer is buffer for a Mat already validated by newPlanBackend.
func (b *planBackend) mustBuffer() []float64 {
	buf, err := b.buffer()
	if err != nil {
		panic("holo: " + err.Error())
	}
	return buf
}

func (b *planBackend) forward(data []complex128) {
	b.run(data, gocv.DftForward|gocv.DftComplexOutput)
}

func (b *planBackend) inverse(data []complex128) {
	b.run(data, gocv.DftInverse|gocv.DftScale|gocv.DftComplexOutput)
}

func (b *planBackend) run(data []complex128, flags gocv.DftFlags) {
	buf := b.mustBuffer()
	for i, v := range data {
		buf[2*i] = real(v)
		buf[2*i+1] = imag(v)
	}
	gocv.DFT(b.mat, &b.mat, flags)
	buf = b.mustBuffer()
	for i := range data {
		data[i] = complex(buf[2*i], buf[2*i+1])
	}
}

func (b *planBackend) close() {
	b.mat.Close()
}
