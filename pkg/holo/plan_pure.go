//go:build !opencv

package holo

import "gonum.org/v1/gonum/dsp/fourier"

const backendName = "gonum"

// planBackend runs the 2-D transform as row transforms followed by column
// transforms with gonum's mixed-radix FFT, which accepts any length.
type planBackend struct {
	width  int
	height int
	rows   *fourier.CmplxFFT
	cols   *fourier.CmplxFFT
	col    []complex128
}

func newPlanBackend(width, height int) (*planBackend, error) {
	b := &planBackend{width: width, height: height, col: make([]complex128, height)}
	if width > 1 {
		b.rows = fourier.NewCmplxFFT(width)
	}
	if height > 1 {
		b.cols = fourier.NewCmplxFFT(height)
	}
	return b, nil
}

func (b *planBackend) forward(data []complex128) {
	b.transform(data, false)
}

func (b *planBackend) inverse(data []complex128) {
	b.transform(data, true)
	// gonum's Sequence is unnormalized
	scale := complex(1/float64(b.width*b.height), 0)
	for i := range data {
		data[i] *= scale
	}
}

func (b *planBackend) transform(data []complex128, inverse bool) {
	w, h := b.width, b.height
	if b.rows != nil {
		for y := 0; y < h; y++ {
			row := data[y*w : (y+1)*w]
			if inverse {
				b.rows.Sequence(row, row)
			} else {
				b.rows.Coefficients(row, row)
			}
		}
	}
	if b.cols != nil {
		col := b.col
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				col[y] = data[y*w+x]
			}
			if inverse {
				b.cols.Sequence(col, col)
			} else {
				b.cols.Coefficients(col, col)
			}
			for y := 0; y < h; y++ {
				data[y*w+x] = col[y]
			}
		}
	}
}

func (b *planBackend) close() {}
