package holo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a physical length unit. Values of different units are converted
// through linear scaling to meters.
type Unit int

const (
	Nanometer Unit = iota
	Micrometer
	Millimeter
	Centimeter
	Meter
)

var unitScale = map[Unit]float64{
	Nanometer:  1e-9,
	Micrometer: 1e-6,
	Millimeter: 1e-3,
	Centimeter: 1e-2,
	Meter:      1,
}

var unitSymbols = map[Unit]string{
	Nanometer:  "nm",
	Micrometer: "um",
	Millimeter: "mm",
	Centimeter: "cm",
	Meter:      "m",
}

func (u Unit) String() string {
	if s, ok := unitSymbols[u]; ok {
		return s
	}
	return "Unknown"
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	_, ok := unitScale[u]
	return ok
}

// ParseUnit parses a unit symbol. "µm" and "μm" are accepted for micrometers.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nm", "nanometer", "nanometers":
		return Nanometer, nil
	case "um", "µm", "μm", "micrometer", "micrometers", "micron", "microns":
		return Micrometer, nil
	case "mm", "millimeter", "millimeters":
		return Millimeter, nil
	case "cm", "centimeter", "centimeters":
		return Centimeter, nil
	case "m", "meter", "meters":
		return Meter, nil
	}
	return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidLength, s)
}

// Length is a magnitude paired with its unit. Bare numbers never cross the
// engine boundary; they are always carried with a unit.
type Length struct {
	Value float64
	Unit  Unit
}

// Nanometers, Micrometers, Millimeters, Centimeters and Meters build lengths.
func Nanometers(v float64) Length  { return Length{Value: v, Unit: Nanometer} }
func Micrometers(v float64) Length { return Length{Value: v, Unit: Micrometer} }
func Millimeters(v float64) Length { return Length{Value: v, Unit: Millimeter} }
func Centimeters(v float64) Length { return Length{Value: v, Unit: Centimeter} }
func Meters(v float64) Length      { return Length{Value: v, Unit: Meter} }

// Meters returns the length in meters.
func (l Length) Meters() float64 {
	return l.Value * unitScale[l.Unit]
}

// In returns the magnitude of l expressed in unit u.
func (l Length) In(u Unit) float64 {
	if l.Unit == u {
		return l.Value
	}
	return l.Meters() / unitScale[u]
}

// Convert returns l re-expressed in unit u.
func (l Length) Convert(u Unit) Length {
	return Length{Value: l.In(u), Unit: u}
}

// Add returns l+o in the unit of l.
func (l Length) Add(o Length) Length {
	return Length{Value: l.Value + o.In(l.Unit), Unit: l.Unit}
}

// Sub returns l-o in the unit of l.
func (l Length) Sub(o Length) Length {
	return Length{Value: l.Value - o.In(l.Unit), Unit: l.Unit}
}

// IsZero reports whether the magnitude is exactly zero.
func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// MarshalText encodes the length as e.g. "532nm".
func (l Length) MarshalText() ([]byte, error) {
	if !l.Unit.Valid() {
		return nil, fmt.Errorf("%w: unknown unit %d", ErrInvalidLength, int(l.Unit))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes forms accepted by ParseLength.
func (l *Length) UnmarshalText(text []byte) error {
	v, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLength parses a magnitude followed by a unit symbol, with or without
// a separating space: "532nm", "0.5 mm", "-12.25um".
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	split := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E')
	})
	// an exponent marker directly followed by a unit ("5e" of "5em") is not
	// a number; back off to the last digit.
	for split > 0 && (s[split-1] == 'e' || s[split-1] == 'E') {
		split--
	}
	if split <= 0 {
		return Length{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	v, err := strconv.ParseFloat(s[:split], 64)
	if err != nil {
		return Length{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	u, err := ParseUnit(s[split:])
	if err != nil {
		return Length{}, err
	}
	return Length{Value: v, Unit: u}, nil
}
