package holo

import (
	"math/cmplx"
	"math/rand"
	"testing"
)

func randomMat(t *testing.T, w, h int, seed int64) *ComplexMat {
	t.Helper()

	m, err := NewComplexMat(w, h)
	if err != nil {
		t.Fatalf("NewComplexMat(%d, %d): %v", w, h, err)
	}
	rng := rand.New(rand.NewSource(seed))
	for i := range m.data {
		m.data[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return m
}

func matFromInts(t *testing.T, w, h int, values ...int) *ComplexMat {
	t.Helper()

	re := make([]float64, len(values))
	for i, v := range values {
		re[i] = float64(v)
	}
	m, err := NewComplexMatFromReal(w, h, re)
	if err != nil {
		t.Fatalf("NewComplexMatFromReal: %v", err)
	}
	return m
}

func mustPlan(t *testing.T, w, h int) *Plan {
	t.Helper()

	p, err := NewPlan(w, h)
	if err != nil {
		t.Fatalf("NewPlan(%d, %d): %v", w, h, err)
	}
	t.Cleanup(p.Close)
	return p
}

func assertMatClose(t *testing.T, got, want *ComplexMat, tol float64) {
	t.Helper()

	if !got.SameSize(want) {
		t.Fatalf("size %dx%d, want %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	for y := 0; y < want.Height(); y++ {
		for x := 0; x < want.Width(); x++ {
			g, w := got.At(x, y), want.At(x, y)
			if cmplx.Abs(g-w) > tol {
				t.Fatalf("(%d,%d): got %v want %v (diff=%v)", x, y, g, w, cmplx.Abs(g-w))
			}
		}
	}
}

func assertMatExact(t *testing.T, got *ComplexMat, want []int) {
	t.Helper()

	if got.Len() != len(want) {
		t.Fatalf("len %d, want %d", got.Len(), len(want))
	}
	for i, v := range got.Data() {
		if v != complex(float64(want[i]), 0) {
			t.Fatalf("index %d (x=%d, y=%d): got %v want %d; full result %v",
				i, i%got.Width(), i/got.Width(), v, want[i], got.Real())
		}
	}
}
