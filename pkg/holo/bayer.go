package holo

// BayerChannel selects what to extract from an RGGB mosaic.
type BayerChannel int

const (
	BayerLuminance BayerChannel = iota
	BayerRed
	BayerGreen
	BayerBlue
)

func (c BayerChannel) String() string {
	switch c {
	case BayerLuminance:
		return "Luminance"
	case BayerRed:
		return "Red"
	case BayerGreen:
		return "Green"
	case BayerBlue:
		return "Blue"
	default:
		return "Unknown"
	}
}

// ParseBayerChannel accepts "lum", "r", "g", "b" and the full names.
func ParseBayerChannel(s string) (BayerChannel, bool) {
	switch s {
	case "lum", "luminance", "Luminance":
		return BayerLuminance, true
	case "r", "red", "Red":
		return BayerRed, true
	case "g", "green", "Green":
		return BayerGreen, true
	case "b", "blue", "Blue":
		return BayerBlue, true
	}
	return 0, false
}

// Debayer interpolates a raw RGGB mosaic bilinearly and returns the chosen
// channel at full resolution. A hologram recorded with a single laser line
// on a colour sensor lives in one channel; the others only add noise.
//
// RGGB layout (row-major, 0-indexed):
//
//	(even row, even col) = R
//	(even row, odd  col) = G
//	(odd  row, even col) = G
//	(odd  row, odd  col) = B
//
// Edge pixels use clamped neighbour lookups.
func Debayer(f Frame, ch BayerChannel) Frame {
	width, height := f.Width, f.Height
	out := NewFrame(width, height)

	px := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= width {
			x = width - 1
		}
		if y < 0 {
			y = 0
		} else if y >= height {
			y = height - 1
		}
		return f.Pixels[y*width+x]
	}
	cross := func(x, y int) float64 {
		return (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
	}
	diag := func(x, y int) float64 {
		return (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
	}

	for y := 0; y < height; y++ {
		evenRow := y%2 == 0
		for x := 0; x < width; x++ {
			evenCol := x%2 == 0
			var r, g, b float64

			switch {
			case evenRow && evenCol:
				r, g, b = px(x, y), cross(x, y), diag(x, y)
			case evenRow && !evenCol:
				r = (px(x-1, y) + px(x+1, y)) / 2
				g = px(x, y)
				b = (px(x, y-1) + px(x, y+1)) / 2
			case !evenRow && evenCol:
				r = (px(x, y-1) + px(x, y+1)) / 2
				g = px(x, y)
				b = (px(x-1, y) + px(x+1, y)) / 2
			default:
				r, g, b = diag(x, y), cross(x, y), px(x, y)
			}

			var v float64
			switch ch {
			case BayerRed:
				v = r
			case BayerGreen:
				v = g
			case BayerBlue:
				v = b
			default:
				v = (r + g + b) / 3
			}
			out.Pixels[y*width+x] = v
		}
	}
	return out
}
