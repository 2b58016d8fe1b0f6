package holo

import (
	"math"
	"testing"
)

// uniformMosaic builds an RGGB mosaic where every R site is r, every G site g
// and every B site b.
func uniformMosaic(w, h int, r, g, b float64) Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case y%2 == 0 && x%2 == 0:
				f.Pixels[y*w+x] = r
			case y%2 == 1 && x%2 == 1:
				f.Pixels[y*w+x] = b
			default:
				f.Pixels[y*w+x] = g
			}
		}
	}
	return f
}

func TestDebayerUniformChannels(t *testing.T) {
	t.Parallel()

	// interior pixels of a uniform mosaic interpolate exactly; with clamped
	// edges a 6x6 mosaic keeps every channel constant away from the border.
	f := uniformMosaic(6, 6, 0.8, 0.4, 0.1)
	tests := []struct {
		ch   BayerChannel
		want float64
	}{
		{BayerRed, 0.8},
		{BayerGreen, 0.4},
		{BayerBlue, 0.1},
		{BayerLuminance, (0.8 + 0.4 + 0.1) / 3},
	}
	for _, tc := range tests {
		out := Debayer(f, tc.ch)
		if out.Width != 6 || out.Height != 6 {
			t.Fatalf("%v: size %dx%d", tc.ch, out.Width, out.Height)
		}
		for y := 1; y < 5; y++ {
			for x := 1; x < 5; x++ {
				if got := out.At(x, y); math.Abs(got-tc.want) > 1e-12 {
					t.Errorf("%v at (%d,%d) = %v, want %v", tc.ch, x, y, got, tc.want)
				}
			}
		}
	}
}

func TestDebayerKeepsSampledSites(t *testing.T) {
	t.Parallel()

	f := NewFrame(4, 4)
	for i := range f.Pixels {
		f.Pixels[i] = float64(i) / 16
	}
	red := Debayer(f, BayerRed)
	blue := Debayer(f, BayerBlue)
	green := Debayer(f, BayerGreen)
	if red.At(2, 2) != f.At(2, 2) {
		t.Errorf("red at R site = %v, want %v", red.At(2, 2), f.At(2, 2))
	}
	if blue.At(1, 1) != f.At(1, 1) {
		t.Errorf("blue at B site = %v, want %v", blue.At(1, 1), f.At(1, 1))
	}
	if green.At(1, 0) != f.At(1, 0) || green.At(0, 1) != f.At(0, 1) {
		t.Error("green sites should pass through")
	}
}

func TestParseBayerChannel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]BayerChannel{"lum": BayerLuminance, "r": BayerRed, "Green": BayerGreen, "blue": BayerBlue} {
		got, ok := ParseBayerChannel(in)
		if !ok || got != want {
			t.Errorf("ParseBayerChannel(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseBayerChannel("cyan"); ok {
		t.Error("cyan accepted")
	}
}
