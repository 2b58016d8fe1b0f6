//go:build !opencv

package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"

	"holoreco/pkg/holo"
)

func loadImage(path string) (holo.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return holo.Frame{}, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return holo.Frame{}, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]uint16, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Rec. 601 luminance in the 16-bit range
			pixels[y*w+x] = uint16((19595*r + 38470*g + 7471*b + 1<<15) >> 16)
		}
	}

	return holo.FrameFromPixels(pixels, 16, w, h), nil
}
