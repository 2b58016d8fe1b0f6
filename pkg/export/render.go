package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"holoreco/pkg/holo"
)

// captionHeight is the strip reserved below the plane for the caption.
const captionHeight = 16

// Render maps a plane of m linearly to 8-bit gray. A non-empty caption is
// drawn in a strip below the image.
func Render(m *holo.ComplexMat, p Plane, caption string) *image.Gray {
	w, h := m.Width(), m.Height()
	values := Extract(m, p)
	lo, hi := valueRange(p, values)

	totalH := h
	if caption != "" {
		totalH += captionHeight
	}
	img := image.NewGray(image.Rect(0, 0, w, totalH))

	span := hi - lo
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x := range row {
			v := values[y*w+x]
			if math.IsNaN(v) || span <= 0 {
				continue
			}
			row[x] = uint8(math.Round(math.Max(0, math.Min(1, (v-lo)/span)) * 255))
		}
	}

	if caption != "" {
		drawText(img, basicfont.Face7x13, caption, 2, h+captionHeight-4, color.Gray{Y: 255})
	}
	return img
}

// drawText draws a string with its baseline at (x, y).
func drawText(img *image.Gray, face font.Face, s string, x, y int, c color.Gray) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// PNGBytes returns img encoded as PNG.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG writes img to dir/name.png and returns the path.
func WritePNG(dir, name string, img image.Image) (string, error) {
	path := filepath.Join(dir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
