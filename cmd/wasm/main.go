//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"strings"
	"syscall/js"

	"holoreco/pkg/export"
	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
	"holoreco/pkg/stages"
)

func main() {
	js.Global().Set("reconstructHologram", js.FuncOf(reconstructHologram))
	select {} // block forever
}

// reconstructHologram(fileBytes, options) reconstructs frame 0 of a FITS
// hologram at options.distance and returns the rendered plane as PNG bytes.
// Recognised options: wavelength, width, height, distance (length strings),
// filterRadius (number), plane and bayer (strings).
func reconstructHologram(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: reconstructHologram(fileBytes, options)")
	}

	jsBytes := args[0]
	fileBytes := make([]byte, jsBytes.Get("length").Int())
	js.CopyBytesToGo(fileBytes, jsBytes)

	var opts js.Value
	if len(args) >= 2 && args[1].Type() == js.TypeObject {
		opts = args[1]
	}

	img, err := holo.ReadFitsFromBytes(fileBytes)
	if err != nil {
		return errorResult("FITS parse error: " + err.Error())
	}
	if len(img.Frames) == 0 {
		return errorResult("FITS file has no image data")
	}
	frame := img.Frames[0]
	if ch, ok := holo.ParseBayerChannel(stringOption(opts, "bayer")); ok {
		frame = holo.Debayer(frame, ch)
	}
	stack, err := holo.NewFrameStack(frame)
	if err != nil {
		return errorResult(err.Error())
	}

	cfg := pipeline.NewConfig()
	if wl, ok := img.Metadata.Wavelength(); ok {
		cfg.Wavelength = wl
	}
	if pitch, ok := img.Metadata.PixelSize(); ok {
		cfg.FieldWidth = holo.Length{Value: pitch.Value * float64(img.Width), Unit: pitch.Unit}
		cfg.FieldHeight = holo.Length{Value: pitch.Value * float64(img.Height), Unit: pitch.Unit}
	}
	for name, dst := range map[string]*holo.Length{
		"wavelength": &cfg.Wavelength,
		"width":      &cfg.FieldWidth,
		"height":     &cfg.FieldHeight,
	} {
		if s := stringOption(opts, name); s != "" {
			l, err := holo.ParseLength(s)
			if err != nil {
				return errorResult(fmt.Sprintf("%s: %v", name, err))
			}
			*dst = l
		}
	}
	if s := stringOption(opts, "distance"); s != "" {
		d, err := holo.ParseLength(s)
		if err != nil {
			return errorResult("distance: " + err.Error())
		}
		cfg.Distances = []holo.Length{d}
	}

	plane := export.PlaneAmplitude
	if s := stringOption(opts, "plane"); s != "" {
		if plane, err = export.ParsePlane(strings.ToLower(s)); err != nil {
			return errorResult(err.Error())
		}
	}

	collector := stages.NewCollector()
	participants := []pipeline.Participant{stages.NewPropagation(), collector}
	if opts.Truthy() {
		if r := opts.Get("filterRadius"); r.Type() == js.TypeNumber && r.Float() > 0 {
			participants = append(participants, stages.NewSpectralFilter(r.Float()))
		}
	}

	o, err := pipeline.New(cfg, stack, participants...)
	if err != nil {
		return errorResult(err.Error())
	}
	defer o.Close()
	if _, err := o.Run(context.Background()); err != nil {
		return errorResult("reconstruction error: " + err.Error())
	}

	result, ok := collector.Result(0, 0)
	if !ok {
		return errorResult("no field reconstructed")
	}
	caption := fmt.Sprintf("z=%v %s", result.Distance, plane)
	pngBytes, err := export.PNGBytes(export.Render(result.Field.Spatial(), plane, caption))
	if err != nil {
		return errorResult("encoding error: " + err.Error())
	}

	uint8Array := js.Global().Get("Uint8Array").New(len(pngBytes))
	js.CopyBytesToJS(uint8Array, pngBytes)
	return js.ValueOf(map[string]interface{}{
		"width":      img.Width,
		"height":     img.Height,
		"wavelength": cfg.Wavelength.String(),
		"distance":   result.Distance.String(),
		"object":     img.Metadata.ObjectName(),
		"png":        uint8Array,
	})
}

func stringOption(opts js.Value, name string) string {
	if !opts.Truthy() {
		return ""
	}
	v := opts.Get(name)
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
