package holo

// ShiftDirection selects between centering the zero frequency (Forward,
// applied after a forward transform) and moving it back to the corner
// (Inverse, applied before an inverse transform).
type ShiftDirection int

const (
	ShiftForward ShiftDirection = iota
	ShiftInverse
)

func (d ShiftDirection) String() string {
	switch d {
	case ShiftForward:
		return "Forward"
	case ShiftInverse:
		return "Inverse"
	default:
		return "Unknown"
	}
}

// Shift swaps the quadrants of m in place.
//
// With both dimensions even the four quadrants have equal size and every
// sample is swapped with its diagonal partner in a single pass. With an odd
// dimension the quadrants differ in size, so the regions are copied into a
// new buffer which then replaces the storage of m. For odd sizes the two
// directions are not the same permutation: applying Forward twice does not
// restore the input, Inverse does.
func Shift(m *ComplexMat, dir ShiftDirection) {
	w, h := m.width, m.height
	if w == 1 && h == 1 {
		return
	}
	if w%2 == 0 && h%2 == 0 {
		swapQuadrants(m)
		return
	}

	// Along one axis of length n the source splits at s; the block [0, s)
	// lands at n-s and the block [s, n) lands at 0.
	sx, sy := shiftSplit(w, dir), shiftSplit(h, dir)
	out := make([]complex128, len(m.data))
	copyRegion(out, m.data, w, 0, 0, w-sx, h-sy, sx, sy) // top-left
	copyRegion(out, m.data, w, sx, 0, 0, h-sy, w-sx, sy) // top-right
	copyRegion(out, m.data, w, 0, sy, w-sx, 0, sx, h-sy) // bottom-left
	copyRegion(out, m.data, w, sx, sy, 0, 0, w-sx, h-sy) // bottom-right
	m.data = out
}

// ShiftForwardInPlace and ShiftInverseInPlace are the two directions of Shift.
func ShiftForwardInPlace(m *ComplexMat) { Shift(m, ShiftForward) }
func ShiftInverseInPlace(m *ComplexMat) { Shift(m, ShiftInverse) }

// shiftSplit returns where the source axis of length n is cut. A forward
// shift moves index 0 to n/2, so it cuts at ceil(n/2); the inverse moves
// index n/2 back to 0 and cuts at floor(n/2).
func shiftSplit(n int, dir ShiftDirection) int {
	if dir == ShiftForward {
		return n - n/2
	}
	return n / 2
}

func swapQuadrants(m *ComplexMat) {
	w, h := m.width, m.height
	hw, hh := w/2, h/2
	for y := 0; y < hh; y++ {
		src := y * w
		dst := (y + hh) * w
		for x := 0; x < w; x++ {
			xx := x + hw
			if xx >= w {
				xx -= w
			}
			tmp := m.data[src+x]
			m.data[src+x] = m.data[dst+xx]
			m.data[dst+xx] = tmp
		}
	}
}

// copyRegion copies a cols x rows block whose top-left corner is (sx, sy)
// in src to (dx, dy) in dst. Both buffers have row stride w.
func copyRegion(dst, src []complex128, w, sx, sy, dx, dy, cols, rows int) {
	if cols == 0 || rows == 0 {
		return
	}
	for r := 0; r < rows; r++ {
		s := (sy+r)*w + sx
		d := (dy+r)*w + dx
		copy(dst[d:d+cols], src[s:s+cols])
	}
}
