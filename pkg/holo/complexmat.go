package holo

import (
	"fmt"
	"math"
	"math/cmplx"
)

// ComplexMat is a dense width x height matrix of complex samples stored
// row-major. The real and imaginary parts of a sample are adjacent in memory.
//
// Binary operations are elementwise and require both operands to share the
// same dimensions; this is the caller's contract and is not checked. Pixel
// coordinates are not bounds checked beyond what the runtime does.
type ComplexMat struct {
	width  int
	height int
	data   []complex128
}

// NewComplexMat returns a zero-valued matrix.
func NewComplexMat(width, height int) (*ComplexMat, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &ComplexMat{width: width, height: height, data: make([]complex128, width*height)}, nil
}

// NewComplexMatFromReal builds a matrix whose imaginary part is zero.
func NewComplexMatFromReal(width, height int, re []float64) (*ComplexMat, error) {
	m, err := NewComplexMat(width, height)
	if err != nil {
		return nil, err
	}
	if len(re) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidSize, len(re), width, height)
	}
	for i, v := range re {
		m.data[i] = complex(v, 0)
	}
	return m, nil
}

// NewComplexMatFromParts builds a matrix from separate real and imaginary planes.
func NewComplexMatFromParts(width, height int, re, im []float64) (*ComplexMat, error) {
	m, err := NewComplexMat(width, height)
	if err != nil {
		return nil, err
	}
	if len(re) != width*height || len(im) != width*height {
		return nil, fmt.Errorf("%w: %d/%d samples for %dx%d", ErrInvalidSize, len(re), len(im), width, height)
	}
	for i := range m.data {
		m.data[i] = complex(re[i], im[i])
	}
	return m, nil
}

// Width returns the number of columns.
func (m *ComplexMat) Width() int { return m.width }

// Height returns the number of rows.
func (m *ComplexMat) Height() int { return m.height }

// Len returns the number of elements.
func (m *ComplexMat) Len() int { return len(m.data) }

// SameSize reports whether o has the dimensions of m.
func (m *ComplexMat) SameSize(o *ComplexMat) bool {
	return m.width == o.width && m.height == o.height
}

// At returns the sample at column x, row y.
func (m *ComplexMat) At(x, y int) complex128 { return m.data[y*m.width+x] }

// Set stores v at column x, row y.
func (m *ComplexMat) Set(x, y int, v complex128) { m.data[y*m.width+x] = v }

// Data exposes the row-major backing slice. Writes through it bypass any
// owner bookkeeping; see Wavefield.MutateSpatial.
func (m *ComplexMat) Data() []complex128 { return m.data }

// Copy returns an independent matrix with equal values.
func (m *ComplexMat) Copy() *ComplexMat {
	data := make([]complex128, len(m.data))
	copy(data, m.data)
	return &ComplexMat{width: m.width, height: m.height, data: data}
}

// CopyFrom overwrites m with the values of src.
func (m *ComplexMat) CopyFrom(src *ComplexMat) {
	copy(m.data, src.data)
}

// --- read accessors; each returns a freshly allocated plane ---

// Real returns the real parts in row-major order.
func (m *ComplexMat) Real() []float64 {
	out := make([]float64, len(m.data))
	for i, v := range m.data {
		out[i] = real(v)
	}
	return out
}

// Imag returns the imaginary parts in row-major order.
func (m *ComplexMat) Imag() []float64 {
	out := make([]float64, len(m.data))
	for i, v := range m.data {
		out[i] = imag(v)
	}
	return out
}

// Abs returns the magnitude of every sample.
func (m *ComplexMat) Abs() []float64 {
	out := make([]float64, len(m.data))
	for i, v := range m.data {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// Abs2 returns the squared magnitude (intensity) of every sample.
func (m *ComplexMat) Abs2() []float64 {
	out := make([]float64, len(m.data))
	for i, v := range m.data {
		re, im := real(v), imag(v)
		out[i] = re*re + im*im
	}
	return out
}

// Arg returns the four-quadrant phase of every sample.
func (m *ComplexMat) Arg() []float64 {
	out := make([]float64, len(m.data))
	for i, v := range m.data {
		out[i] = math.Atan2(imag(v), real(v))
	}
	return out
}

// --- in-place arithmetic; every method returns m for chaining ---

// Negate negates every element in place.
func (m *ComplexMat) Negate() *ComplexMat {
	for i, v := range m.data {
		m.data[i] = -v
	}
	return m
}

// Add adds o element-wise in place.
func (m *ComplexMat) Add(o *ComplexMat) *ComplexMat {
	for i, v := range o.data {
		m.data[i] += v
	}
	return m
}

// Sub subtracts o element-wise in place.
func (m *ComplexMat) Sub(o *ComplexMat) *ComplexMat {
	for i, v := range o.data {
		m.data[i] -= v
	}
	return m
}

// Mul multiplies by o element-wise in place.
func (m *ComplexMat) Mul(o *ComplexMat) *ComplexMat {
	for i, v := range o.data {
		m.data[i] = mul(m.data[i], v)
	}
	return m
}

// Div divides elementwise. A zero-magnitude divisor yields NaN; see div.
func (m *ComplexMat) Div(o *ComplexMat) *ComplexMat {
	for i, v := range o.data {
		m.data[i] = div(m.data[i], v)
	}
	return m
}

// AddParts adds the complex values re+i*im in place.
func (m *ComplexMat) AddParts(re, im []float64) *ComplexMat {
	for i := range m.data {
		m.data[i] += complex(re[i], im[i])
	}
	return m
}

// SubParts subtracts the complex values re+i*im in place.
func (m *ComplexMat) SubParts(re, im []float64) *ComplexMat {
	for i := range m.data {
		m.data[i] -= complex(re[i], im[i])
	}
	return m
}

// MulParts multiplies by the complex values re+i*im in place.
func (m *ComplexMat) MulParts(re, im []float64) *ComplexMat {
	for i := range m.data {
		m.data[i] = mul(m.data[i], complex(re[i], im[i]))
	}
	return m
}

// DivParts divides by the complex values re+i*im in place.
func (m *ComplexMat) DivParts(re, im []float64) *ComplexMat {
	for i := range m.data {
		m.data[i] = div(m.data[i], complex(re[i], im[i]))
	}
	return m
}

// AddScalar adds c to every element in place.
func (m *ComplexMat) AddScalar(c complex128) *ComplexMat {
	for i := range m.data {
		m.data[i] += c
	}
	return m
}

// SubScalar subtracts c from every element in place.
func (m *ComplexMat) SubScalar(c complex128) *ComplexMat {
	for i := range m.data {
		m.data[i] -= c
	}
	return m
}

// MulScalar multiplies every element by c in place.
func (m *ComplexMat) MulScalar(c complex128) *ComplexMat {
	for i := range m.data {
		m.data[i] = mul(m.data[i], c)
	}
	return m
}

// DivScalar divides every element by c in place.
func (m *ComplexMat) DivScalar(c complex128) *ComplexMat {
	for i := range m.data {
		m.data[i] = div(m.data[i], c)
	}
	return m
}

// --- copying counterparts; the receiver is left untouched ---

// Negated returns a negated copy.
func (m *ComplexMat) Negated() *ComplexMat { return m.Copy().Negate() }

// Plus returns m+o as a new matrix.
func (m *ComplexMat) Plus(o *ComplexMat) *ComplexMat { return m.Copy().Add(o) }

// Minus returns m-o as a new matrix.
func (m *ComplexMat) Minus(o *ComplexMat) *ComplexMat { return m.Copy().Sub(o) }

// Times returns the element-wise product as a new matrix.
func (m *ComplexMat) Times(o *ComplexMat) *ComplexMat { return m.Copy().Mul(o) }

// Over returns the element-wise quotient as a new matrix.
func (m *ComplexMat) Over(o *ComplexMat) *ComplexMat { return m.Copy().Div(o) }

// PlusParts is AddParts on a copy.
func (m *ComplexMat) PlusParts(re, im []float64) *ComplexMat {
	return m.Copy().AddParts(re, im)
}

// MinusParts is SubParts on a copy.
func (m *ComplexMat) MinusParts(re, im []float64) *ComplexMat {
	return m.Copy().SubParts(re, im)
}

// TimesParts is MulParts on a copy.
func (m *ComplexMat) TimesParts(re, im []float64) *ComplexMat {
	return m.Copy().MulParts(re, im)
}

// OverParts is DivParts on a copy.
func (m *ComplexMat) OverParts(re, im []float64) *ComplexMat {
	return m.Copy().DivParts(re, im)
}

// PlusScalar is AddScalar on a copy.
func (m *ComplexMat) PlusScalar(c complex128) *ComplexMat { return m.Copy().AddScalar(c) }

// MinusScalar is SubScalar on a copy.
func (m *ComplexMat) MinusScalar(c complex128) *ComplexMat { return m.Copy().SubScalar(c) }

// TimesScalar is MulScalar on a copy.
func (m *ComplexMat) TimesScalar(c complex128) *ComplexMat { return m.Copy().MulScalar(c) }

// OverScalar is DivScalar on a copy.
func (m *ComplexMat) OverScalar(c complex128) *ComplexMat { return m.Copy().DivScalar(c) }

// mul is (a+bi)(c+di) = (ac-bd) + (ad+bc)i.
func mul(x, y complex128) complex128 {
	a, b := real(x), imag(x)
	c, d := real(y), imag(y)
	return complex(a*c-b*d, a*d+b*c)
}

// div is ((ac+bd) + (bc-ad)i) / (c²+d²), kept in textbook form: x/0 is
// NaN in both components and a divisor whose c²+d² underflows gives ±Inf.
func div(x, y complex128) complex128 {
	a, b := real(x), imag(x)
	c, d := real(y), imag(y)
	den := c*c + d*d
	return complex((a*c+b*d)/den, (b*c-a*d)/den)
}
