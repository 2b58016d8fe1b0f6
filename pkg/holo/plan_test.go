package holo

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

func TestNewPlanRejectsBadSizes(t *testing.T) {
	t.Parallel()

	for _, s := range [][2]int{{0, 4}, {4, 0}, {-1, 3}} {
		if _, err := NewPlan(s[0], s[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewPlan(%d, %d) err = %v, want ErrInvalidSize", s[0], s[1], err)
		}
	}
}

func TestPlanRoundTrip(t *testing.T) {
	t.Parallel()

	sizes := [][2]int{{1, 1}, {1, 7}, {7, 1}, {4, 4}, {5, 5}, {8, 6}, {6, 9}, {15, 10}, {32, 17}}
	for _, s := range sizes {
		s := s
		t.Run(fmt.Sprintf("%dx%d", s[0], s[1]), func(t *testing.T) {
			t.Parallel()

			p := mustPlan(t, s[0], s[1])
			m := randomMat(t, s[0], s[1], int64(s[0]*31+s[1]))
			orig := m.Copy()

			p.Forward(m)
			p.Inverse(m)
			assertMatClose(t, m, orig, 1e-10)
		})
	}
}

func TestPlanImpulse(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, 6, 5)
	m, _ := NewComplexMat(6, 5)
	m.Set(0, 0, 1)
	p.Forward(m)

	want, _ := NewComplexMat(6, 5)
	want.AddScalar(1)
	assertMatClose(t, m, want, 1e-12)
}

func TestPlanConstantHasOnlyDC(t *testing.T) {
	t.Parallel()

	w, h := 8, 3
	p := mustPlan(t, w, h)
	m, _ := NewComplexMat(w, h)
	m.AddScalar(2 - 1i)
	p.Forward(m)

	want, _ := NewComplexMat(w, h)
	want.Set(0, 0, complex(float64(w*h), 0)*(2-1i))
	assertMatClose(t, m, want, 1e-10)
}

func TestPlanLinearity(t *testing.T) {
	t.Parallel()

	w, h := 9, 6
	p := mustPlan(t, w, h)
	a := randomMat(t, w, h, 1)
	b := randomMat(t, w, h, 2)
	alpha, beta := complex(1.5, -0.25), complex(-0.75, 2)

	sum := a.TimesScalar(alpha).Add(b.TimesScalar(beta))
	p.Forward(sum)

	fa, fb := a.Copy(), b.Copy()
	p.Forward(fa)
	p.Forward(fb)
	want := fa.MulScalar(alpha).Add(fb.MulScalar(beta))

	assertMatClose(t, sum, want, 1e-10)
}

func TestPlanShiftTheorem(t *testing.T) {
	t.Parallel()

	w, h := 10, 7
	dx, dy := 3, 2
	p := mustPlan(t, w, h)

	f := randomMat(t, w, h, 42)
	g, _ := NewComplexMat(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set((x+dx)%w, (y+dy)%h, f.At(x, y))
		}
	}

	p.Forward(f)
	p.Forward(g)

	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			phase := -2 * math.Pi * (float64(u*dx)/float64(w) + float64(v*dy)/float64(h))
			want := f.At(u, v) * cmplx.Exp(complex(0, phase))
			if d := cmplx.Abs(g.At(u, v) - want); d > 1e-10 {
				t.Fatalf("(%d,%d): got %v want %v", u, v, g.At(u, v), want)
			}
			if d := math.Abs(cmplx.Abs(g.At(u, v)) - cmplx.Abs(f.At(u, v))); d > 1e-10 {
				t.Fatalf("(%d,%d): magnitude changed by %v", u, v, d)
			}
		}
	}
}

func TestPlanMatchesReferenceFFT(t *testing.T) {
	t.Parallel()

	for _, s := range [][2]int{{8, 8}, {12, 5}, {7, 9}} {
		w, h := s[0], s[1]
		t.Run(fmt.Sprintf("%dx%d", w, h), func(t *testing.T) {
			t.Parallel()

			p := mustPlan(t, w, h)
			m := randomMat(t, w, h, int64(w+h))

			rows := make([][]complex128, h)
			for y := range rows {
				rows[y] = make([]complex128, w)
				for x := range rows[y] {
					rows[y][x] = m.At(x, y)
				}
			}
			ref := fft.FFT2(rows)

			p.Forward(m)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if d := cmplx.Abs(m.At(x, y) - ref[y][x]); d > 1e-9 {
						t.Fatalf("(%d,%d): got %v, reference %v", x, y, m.At(x, y), ref[y][x])
					}
				}
			}
		})
	}
}

func TestPlanFits(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, 4, 3)
	a, _ := NewComplexMat(4, 3)
	b, _ := NewComplexMat(3, 4)
	if !p.Fits(a) {
		t.Error("4x3 matrix should fit a 4x3 plan")
	}
	if p.Fits(b) {
		t.Error("3x4 matrix should not fit a 4x3 plan")
	}
}
