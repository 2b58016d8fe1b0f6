package export

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
)

func matOf(t *testing.T, w, h int, values ...complex128) *holo.ComplexMat {
	t.Helper()

	m, err := holo.NewComplexMat(w, h)
	if err != nil {
		t.Fatal(err)
	}
	copy(m.Data(), values)
	return m
}

func TestRenderScalesToFullRange(t *testing.T) {
	t.Parallel()

	m := matOf(t, 2, 2, 0, 1i, -2, 3)
	img := Render(m, PlaneAmplitude, "")
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	want := []uint8{0, 85, 170, 255}
	for i, v := range want {
		if got := img.Pix[(i/2)*img.Stride+i%2]; got != v {
			t.Errorf("pixel %d = %d, want %d", i, got, v)
		}
	}

	re := Render(m, PlaneReal, "")
	if re.Pix[0] != 102 || re.Pix[img.Stride] != 0 {
		t.Errorf("real plane = %v", re.Pix)
	}
}

func TestRenderPhaseUsesFixedRange(t *testing.T) {
	t.Parallel()

	m := matOf(t, 3, 1, 1, -1, 1i)
	img := Render(m, PlanePhase, "")
	// 0 -> middle, π -> white, π/2 -> three quarters
	if img.Pix[0] != 128 || img.Pix[1] != 255 || img.Pix[2] != 191 {
		t.Errorf("phase pixels = %v", img.Pix[:3])
	}

	// midpoints round up on every plane
	mid := Render(matOf(t, 3, 1, -1, 0, 1), PlaneReal, "")
	if mid.Pix[0] != 0 || mid.Pix[1] != 128 || mid.Pix[2] != 255 {
		t.Errorf("real midpoint pixels = %v", mid.Pix[:3])
	}
}

func TestRenderDegenerateValues(t *testing.T) {
	t.Parallel()

	flat := Render(matOf(t, 2, 1, 5, 5), PlaneAmplitude, "")
	if flat.Pix[0] != 0 || flat.Pix[1] != 0 {
		t.Errorf("flat plane = %v", flat.Pix)
	}

	nan := complex(math.NaN(), 0)
	img := Render(matOf(t, 3, 1, nan, 1, 3), PlaneReal, "")
	if img.Pix[0] != 0 || img.Pix[1] != 0 || img.Pix[2] != 255 {
		t.Errorf("NaN plane = %v", img.Pix)
	}
}

func TestRenderCaption(t *testing.T) {
	t.Parallel()

	m := matOf(t, 64, 8)
	img := Render(m, PlaneAmplitude, "z=1mm")
	if b := img.Bounds(); b.Dy() != 8+captionHeight || b.Dx() != 64 {
		t.Fatalf("bounds = %v", b)
	}
	lit := 0
	for _, v := range img.Pix[8*img.Stride:] {
		if v > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("caption strip is empty")
	}
}

func TestEncodePNG(t *testing.T) {
	t.Parallel()

	img := Render(matOf(t, 4, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12), PlaneAmplitude, "")
	b, err := PNGBytes(img)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v", decoded.Bounds())
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil || !bytes.Equal(buf.Bytes(), b) {
		t.Errorf("EncodePNG differs from PNGBytes (err %v)", err)
	}
}

func TestFloat16(t *testing.T) {
	t.Parallel()

	values := []float64{0, 1, -2.5, 65504, 1e6, 0.1}
	var buf bytes.Buffer
	if err := WriteFloat16(&buf, values); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	if len(raw) != 12 || raw[2] != 0x00 || raw[3] != 0x3c {
		t.Fatalf("encoding = % x", raw)
	}

	got, err := ReadFloat16(bytes.NewReader(raw), len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{0, 1, -2.5, 65504} {
		if got[i] != want {
			t.Errorf("value %d = %v, want %v", i, got[i], want)
		}
	}
	if !math.IsInf(got[4], 1) {
		t.Errorf("overflow = %v, want +Inf", got[4])
	}
	if math.Abs(got[5]-0.1) > 1e-4 {
		t.Errorf("0.1 decoded as %v", got[5])
	}

	if _, err := ReadFloat16(bytes.NewReader(raw[:5]), 3); err == nil {
		t.Error("short input accepted")
	}
}

func TestParsePlanes(t *testing.T) {
	t.Parallel()

	got, err := ParsePlanes("amplitude, phase,,intensity")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != PlaneAmplitude || got[1] != PlanePhase || got[2] != PlaneIntensity {
		t.Errorf("ParsePlanes = %v", got)
	}
	if _, err := ParsePlanes("amplitude,depth"); err == nil {
		t.Error("unknown plane accepted")
	}
	for p := PlaneAmplitude; p <= PlaneIntensity; p++ {
		if q, err := ParsePlane(p.String()); err != nil || q != p {
			t.Errorf("ParsePlane(%q) = %v, %v", p, q, err)
		}
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	m := matOf(t, 1, 1, 3+4i)
	tests := []struct {
		p    Plane
		want float64
	}{
		{PlaneAmplitude, 5},
		{PlaneIntensity, 25},
		{PlaneReal, 3},
		{PlaneImaginary, 4},
		{PlanePhase, math.Atan2(4, 3)},
	}
	for _, tc := range tests {
		if got := Extract(m, tc.p)[0]; math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("%v = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestExporterWritesPlanes(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	frames := []holo.Frame{holo.NewFrame(8, 6), holo.NewFrame(8, 6)}
	frames[1].Pixels[3] = 1
	src, err := holo.NewFrameStack(frames...)
	if err != nil {
		t.Fatal(err)
	}
	cfg := pipeline.NewConfig()
	cfg.Times = []int{0, 1}
	cfg.Distances = []holo.Length{holo.Micrometers(0), holo.Micrometers(10)}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	e := NewExporter(dir, PlaneAmplitude, PlanePhase)
	e.Float16 = true
	o, err := pipeline.New(cfg, src, e)
	if err != nil {
		t.Fatal(err)
	}
	defer o.Close()
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if n := len(e.Written()); n != 2*2*2*2 {
		t.Errorf("wrote %d files, want 16", n)
	}
	path := filepath.Join(dir, "t0001_d001_phase.png")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("missing %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6+captionHeight {
		t.Errorf("bounds = %v", b)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "t0001_d000_amplitude.f16"))
	if err != nil {
		t.Fatal(err)
	}
	values, err := ReadFloat16(bytes.NewReader(raw), 48)
	if err != nil {
		t.Fatal(err)
	}
	if values[3] != 1 || values[0] != 0 {
		t.Errorf("amplitude dump = %v", values[:4])
	}
}
