package holo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// FitsMetadata holds parsed FITS header key-value pairs.
type FitsMetadata struct {
	Headers map[string]string
}

// NewFitsMetadata creates an empty FitsMetadata.
func NewFitsMetadata() *FitsMetadata {
	return &FitsMetadata{Headers: make(map[string]string)}
}

func (m *FitsMetadata) GetString(key string) string {
	return m.Headers[strings.ToUpper(key)]
}

func (m *FitsMetadata) GetDouble(key string) (float64, bool) {
	v, ok := m.Headers[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (m *FitsMetadata) GetInt(key string) (int, bool) {
	v, ok := m.Headers[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

// Wavelength reads WAVELEN, which holography cameras record in nanometers.
func (m *FitsMetadata) Wavelength() (Length, bool) {
	if v, ok := m.GetDouble("WAVELEN"); ok {
		return Nanometers(v), true
	}
	return Length{}, false
}

// PixelSize reads XPIXSZ (or PIXSIZE) in micrometers.
func (m *FitsMetadata) PixelSize() (Length, bool) {
	if v, ok := m.GetDouble("XPIXSZ"); ok {
		return Micrometers(v), true
	}
	if v, ok := m.GetDouble("PIXSIZE"); ok {
		return Micrometers(v), true
	}
	return Length{}, false
}

func (m *FitsMetadata) ObjectName() string { return m.GetString("OBJECT") }
func (m *FitsMetadata) CameraName() string { return m.GetString("INSTRUME") }

// FitsImage is a decoded primary HDU. A 3-D cube yields one frame per plane.
type FitsImage struct {
	Width    int
	Height   int
	BitPix   int
	Frames   []Frame
	Metadata *FitsMetadata
}

// Stack returns the frames as a FrameStack.
func (img *FitsImage) Stack() (*FrameStack, error) {
	return NewFrameStack(img.Frames...)
}

// ReadFits reads headers and pixel planes from a file.
func ReadFits(path string) (*FitsImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening FITS file: %w", err)
	}
	defer f.Close()
	return DecodeFits(f, false)
}

// ReadFitsMetadataOnly reads headers without loading pixel data.
func ReadFitsMetadataOnly(path string) (*FitsImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening FITS file: %w", err)
	}
	defer f.Close()
	return DecodeFits(f, true)
}

// ReadFitsFromBytes decodes an in-memory FITS file.
func ReadFitsFromBytes(data []byte) (*FitsImage, error) {
	return DecodeFits(bytes.NewReader(data), false)
}

// DecodeFits reads a primary HDU. Integer samples are normalized by their
// full-scale range to [0, 1); floating-point samples are kept physical.
func DecodeFits(r io.Reader, skipPixelData bool) (*FitsImage, error) {
	var bitpix, naxis, width, height int
	depth := 1
	bzero := 0.0
	bscale := 1.0
	metadata := NewFitsMetadata()

	record := make([]byte, 80)
	headerDone := false
	for !headerDone {
		// headers come in 2880-byte blocks of 36 records
		for i := 0; i < 36; i++ {
			if _, err := io.ReadFull(r, record); err != nil {
				return nil, fmt.Errorf("reading FITS header record: %w", err)
			}
			line := string(record)
			keyword := strings.TrimSpace(line[:8])

			if keyword == "END" {
				headerDone = true
				if remaining := 35 - i; remaining > 0 {
					if _, err := io.CopyN(io.Discard, r, int64(remaining*80)); err != nil {
						return nil, fmt.Errorf("skipping FITS header padding: %w", err)
					}
				}
				break
			}
			if line[8] != '=' || line[9] != ' ' {
				continue
			}

			rawValue := strings.TrimSpace(strings.SplitN(line[10:], "/", 2)[0])
			if v := parseFitsValue(rawValue); keyword != "" && v != "" {
				metadata.Headers[strings.ToUpper(keyword)] = v
			}
			switch keyword {
			case "BITPIX":
				bitpix, _ = strconv.Atoi(rawValue)
			case "NAXIS":
				naxis, _ = strconv.Atoi(rawValue)
			case "NAXIS1":
				width, _ = strconv.Atoi(rawValue)
			case "NAXIS2":
				height, _ = strconv.Atoi(rawValue)
			case "NAXIS3":
				depth, _ = strconv.Atoi(rawValue)
			case "BZERO":
				bzero, _ = strconv.ParseFloat(rawValue, 64)
			case "BSCALE":
				bscale, _ = strconv.ParseFloat(rawValue, 64)
			}
		}
	}

	if naxis < 2 || naxis > 3 || width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid FITS: NAXIS=%d, NAXIS1=%d, NAXIS2=%d, NAXIS3=%d", naxis, width, height, depth)
	}
	if naxis == 2 {
		depth = 1
	}

	img := &FitsImage{Width: width, Height: height, BitPix: bitpix, Metadata: metadata}
	if skipPixelData {
		return img, nil
	}

	size := bitpix / 8
	if size < 0 {
		size = -size
	}
	var fullScale float64
	switch bitpix {
	case 8:
		fullScale = 1 << 8
	case 16:
		fullScale = 1 << 16
	case 32:
		fullScale = 1 << 32
	case -32, -64:
		fullScale = 1
	default:
		return nil, fmt.Errorf("unsupported BITPIX: %d", bitpix)
	}

	n := width * height
	raw := make([]byte, n*size)
	for plane := 0; plane < depth; plane++ {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("reading BITPIX %d plane %d: %w", bitpix, plane, err)
		}
		frame := NewFrame(width, height)
		for i := 0; i < n; i++ {
			frame.Pixels[i] = (decodeFitsSample(raw[i*size:], bitpix)*bscale + bzero) / fullScale
		}
		img.Frames = append(img.Frames, frame)
	}
	return img, nil
}

// decodeFitsSample returns the raw big-endian sample at b.
func decodeFitsSample(b []byte, bitpix int) float64 {
	switch bitpix {
	case 8:
		return float64(b[0])
	case 16:
		return float64(int16(binary.BigEndian.Uint16(b)))
	case 32:
		return float64(int32(binary.BigEndian.Uint32(b)))
	case -32:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
	default:
		return math.Float64frombits(binary.BigEndian.Uint64(b))
	}
}

func parseFitsValue(rawValue string) string {
	switch {
	case rawValue == "":
		return ""
	case rawValue == "T":
		return "True"
	case rawValue == "F":
		return "False"
	case strings.HasPrefix(rawValue, "'"):
		if end := strings.LastIndex(rawValue, "'"); end > 0 {
			return strings.TrimRight(rawValue[1:end], " ")
		}
		return strings.TrimLeft(strings.TrimRight(rawValue, " "), "'")
	}
	return rawValue
}
