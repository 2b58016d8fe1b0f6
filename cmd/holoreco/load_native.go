//go:build opencv

package main

import (
	"fmt"

	"gocv.io/x/gocv"

	"holoreco/pkg/holo"
)

func loadImage(path string) (holo.Frame, error) {
	src := gocv.IMRead(path, gocv.IMReadGrayScale|gocv.IMReadAnyDepth)
	if src.Empty() {
		return holo.Frame{}, fmt.Errorf("could not load image: %s", path)
	}
	defer src.Close()

	fullScale := float32(255)
	if src.Type() == gocv.MatTypeCV16U {
		fullScale = 65536
	}

	floatMat := gocv.NewMat()
	defer floatMat.Close()
	src.ConvertTo(&floatMat, gocv.MatTypeCV32F)

	data, err := floatMat.DataPtrFloat32()
	if err != nil {
		return holo.Frame{}, fmt.Errorf("reading %s: %w", path, err)
	}
	frame := holo.NewFrame(src.Cols(), src.Rows())
	for i := range frame.Pixels {
		frame.Pixels[i] = float64(data[i] / fullScale)
	}
	return frame, nil
}
