package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"holoreco/pkg/holo"
)

// DefaultKernelCacheBytes is the default propagation kernel cache budget.
const DefaultKernelCacheBytes = 256 << 20

// Config holds everything a run needs besides its frames and participants.
// It is passed explicitly to the orchestrator and its participants; there is
// no package-level state.
type Config struct {
	Wavelength  holo.Length `json:"wavelength"`
	FieldWidth  holo.Length `json:"field_width"`
	FieldHeight holo.Length `json:"field_height"`

	// Times are the frame indices to reconstruct, in processing order.
	Times []int `json:"times"`

	// Distances are the target depths relative to the hologram plane.
	Distances []holo.Length `json:"distances"`

	KernelCacheBytes int64 `json:"kernel_cache_bytes"`

	Logger *slog.Logger `json:"-"`
}

// NewConfig returns a Config with default values: a 532nm source, a 5mm
// square field, frame 0 and the hologram plane itself.
func NewConfig() *Config {
	return &Config{
		Wavelength:       holo.Nanometers(532),
		FieldWidth:       holo.Millimeters(5),
		FieldHeight:      holo.Millimeters(5),
		Times:            []int{0},
		Distances:        []holo.Length{holo.Millimeters(0)},
		KernelCacheBytes: DefaultKernelCacheBytes,
	}
}

// LoadConfig reads a JSON config file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a run depends on. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, l holo.Length) {
		if !l.Unit.Valid() || !(l.Value > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, l))
		}
	}
	positive("wavelength", c.Wavelength)
	positive("field width", c.FieldWidth)
	positive("field height", c.FieldHeight)

	if len(c.Times) == 0 {
		errs = append(errs, errors.New("no time slices"))
	}
	for _, t := range c.Times {
		if t < 0 {
			errs = append(errs, fmt.Errorf("negative time index %d", t))
		}
	}
	if len(c.Distances) == 0 {
		errs = append(errs, errors.New("no distances"))
	}
	for i, d := range c.Distances {
		if !d.Unit.Valid() {
			errs = append(errs, fmt.Errorf("distance %d has unknown unit", i))
		}
	}
	if c.KernelCacheBytes < 0 {
		errs = append(errs, fmt.Errorf("negative kernel cache budget %d", c.KernelCacheBytes))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
