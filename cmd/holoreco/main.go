package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"holoreco/pkg/export"
	"holoreco/pkg/holo"
	"holoreco/pkg/pipeline"
	"holoreco/pkg/stages"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	wavelength   string
	width        string
	height       string
	distances    string
	times        string
	cacheMB      int64
	outDir       string
	planes       string
	float16      bool
	reference    string
	filterRadius float64
	carrier      string
	tilt         bool
	autofocus    string
	bayer        string
	verbose      bool
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("holoreco", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "JSON config file")
	fs.StringVar(&opts.wavelength, "wavelength", "", "source wavelength, e.g. 532nm")
	fs.StringVar(&opts.width, "width", "", "physical field width, e.g. 5mm")
	fs.StringVar(&opts.height, "height", "", "physical field height")
	fs.StringVar(&opts.distances, "distances", "", "comma-separated depths, e.g. 0mm,1mm,2mm")
	fs.StringVar(&opts.times, "times", "", "comma-separated frame indices (default: all)")
	fs.Int64Var(&opts.cacheMB, "cache", pipeline.DefaultKernelCacheBytes>>20, "kernel cache budget in MiB")
	fs.StringVar(&opts.outDir, "out", "", "output directory for rendered planes")
	fs.StringVar(&opts.planes, "planes", "amplitude", "planes to export: amplitude,phase,real,imaginary,intensity")
	fs.BoolVar(&opts.float16, "f16", false, "also write half-precision plane dumps")
	fs.StringVar(&opts.reference, "reference", "", "subtract a mean or median reference frame")
	fs.Float64Var(&opts.filterRadius, "filter-radius", 0, "off-axis filter radius in frequency samples (0 disables)")
	fs.StringVar(&opts.carrier, "carrier", "", "carrier position fx,fy (default: strongest side band)")
	fs.BoolVar(&opts.tilt, "tilt", false, "remove residual phase tilt")
	fs.StringVar(&opts.autofocus, "autofocus", "", "focus metric: tamura, variance or gradient")
	fs.StringVar(&opts.bayer, "bayer", "", "debayer channel: lum, r, g or b")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: holoreco [flags] <hologram> [hologram...]\n")
		fs.PrintDefaults()
	}
	return fs
}

func run(args []string) error {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("no input files")
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fmt.Printf("Backend: %s\n", holo.BackendInfo())

	stack, meta, err := loadInputs(fs.Args(), opts.bayer)
	if err != nil {
		return err
	}
	w, h := stack.Size()
	fmt.Printf("Loaded %d frame(s), %d x %d\n", stack.Len(), w, h)

	cfg, err := buildConfig(fs, &opts, stack, meta)
	if err != nil {
		return err
	}
	cfg.Logger = logger

	participants, err := buildParticipants(&opts)
	if err != nil {
		return err
	}
	o, err := pipeline.New(cfg, stack, participants...)
	if err != nil {
		return err
	}
	defer o.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := o.Run(ctx)
	if report != nil {
		printReport(report, o.Participants())
	}
	return err
}

// loadInputs reads every input into one stack. FITS cubes contribute all
// of their planes; header keywords of the first FITS file are returned for
// defaults.
func loadInputs(paths []string, bayer string) (*holo.FrameStack, *holo.FitsMetadata, error) {
	var channel holo.BayerChannel
	if bayer != "" {
		ch, ok := holo.ParseBayerChannel(bayer)
		if !ok {
			return nil, nil, fmt.Errorf("unknown bayer channel %q", bayer)
		}
		channel = ch
	}

	stack, _ := holo.NewFrameStack()
	var meta *holo.FitsMetadata
	for _, path := range paths {
		var frames []holo.Frame
		lower := strings.ToLower(path)
		if strings.HasSuffix(lower, ".fits") || strings.HasSuffix(lower, ".fit") {
			img, err := holo.ReadFits(path)
			if err != nil {
				return nil, nil, fmt.Errorf("reading FITS: %w", err)
			}
			fmt.Printf("FITS loaded: %s, %dx%d, BITPIX %d, %d plane(s)\n",
				path, img.Width, img.Height, img.BitPix, len(img.Frames))
			if meta == nil {
				meta = img.Metadata
			}
			frames = img.Frames
		} else {
			frame, err := loadImage(path)
			if err != nil {
				return nil, nil, err
			}
			frames = []holo.Frame{frame}
		}
		for _, f := range frames {
			if bayer != "" {
				f = holo.Debayer(f, channel)
			}
			if err := stack.Add(f); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return stack, meta, nil
}

// buildConfig starts from the config file (or defaults), fills wavelength
// and pixel pitch from FITS headers and finally applies explicit flags.
func buildConfig(fs *flag.FlagSet, opts *options, stack *holo.FrameStack, meta *holo.FitsMetadata) (*pipeline.Config, error) {
	cfg := pipeline.NewConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}

	w, h := stack.Size()
	if meta != nil {
		if wl, ok := meta.Wavelength(); ok {
			cfg.Wavelength = wl
		}
		if pitch, ok := meta.PixelSize(); ok {
			cfg.FieldWidth = holo.Length{Value: pitch.Value * float64(w), Unit: pitch.Unit}
			cfg.FieldHeight = holo.Length{Value: pitch.Value * float64(h), Unit: pitch.Unit}
		}
	}
	if opts.configPath == "" {
		cfg.Times = make([]int, stack.Len())
		for i := range cfg.Times {
			cfg.Times[i] = i
		}
	}

	var errs []error
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	lengthFlag := func(name, value string, dst *holo.Length) {
		if !set[name] {
			return
		}
		l, err := holo.ParseLength(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("-%s: %w", name, err))
			return
		}
		*dst = l
	}
	lengthFlag("wavelength", opts.wavelength, &cfg.Wavelength)
	lengthFlag("width", opts.width, &cfg.FieldWidth)
	lengthFlag("height", opts.height, &cfg.FieldHeight)
	if set["width"] && !set["height"] {
		cfg.FieldHeight = holo.Length{Value: cfg.FieldWidth.Value * float64(h) / float64(w), Unit: cfg.FieldWidth.Unit}
	}

	if set["distances"] {
		ds, err := parseDistances(opts.distances)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.Distances = ds
	}
	if set["times"] {
		ts, err := parseTimes(opts.times)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.Times = ts
	}
	if set["cache"] {
		cfg.KernelCacheBytes = opts.cacheMB << 20
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildParticipants(opts *options) ([]pipeline.Participant, error) {
	var ps []pipeline.Participant
	if opts.reference != "" {
		mode, ok := stages.ParseReferenceMode(opts.reference)
		if !ok {
			return nil, fmt.Errorf("unknown reference mode %q", opts.reference)
		}
		ps = append(ps, stages.NewReferenceRemoval(mode))
	}
	if opts.filterRadius > 0 {
		f := stages.NewSpectralFilter(opts.filterRadius)
		if opts.carrier != "" {
			x, y, err := parsePair(opts.carrier)
			if err != nil {
				return nil, fmt.Errorf("-carrier: %w", err)
			}
			f.CarrierX, f.CarrierY, f.AutoCarrier = x, y, false
		}
		ps = append(ps, f)
	}
	ps = append(ps, stages.NewPropagation())
	if opts.tilt {
		ps = append(ps, stages.NewTiltCorrection())
	}
	if opts.autofocus != "" {
		metric, ok := holo.ParseFocusMetric(opts.autofocus)
		if !ok {
			return nil, fmt.Errorf("unknown focus metric %q", opts.autofocus)
		}
		ps = append(ps, stages.NewAutofocus(metric))
	}
	if opts.outDir != "" {
		planes, err := export.ParsePlanes(opts.planes)
		if err != nil {
			return nil, fmt.Errorf("-planes: %w", err)
		}
		e := export.NewExporter(opts.outDir, planes...)
		e.Float16 = opts.float16
		ps = append(ps, e)
	}
	ps = append(ps, stages.NewProgress(nil))
	return ps, nil
}

func printReport(report *pipeline.Report, participants []pipeline.Participant) {
	fmt.Println()
	fmt.Printf("=== Reconstruction (%.1fs) ===\n", report.Duration.Seconds())
	fmt.Printf("  Time slices:     %d\n", report.TimeSlices)
	fmt.Printf("  Propagations:    %d\n", report.Propagations)
	if report.Canceled {
		fmt.Printf("  Canceled in:     %s\n", report.Stage)
	}
	for _, p := range participants {
		switch p := p.(type) {
		case *stages.Propagation:
			if prop := p.Propagator(); prop != nil {
				st := prop.Stats()
				fmt.Printf("  Kernel cache:    %d hits, %d misses, %d cached\n", st.Hits, st.Misses, prop.CachedKernels())
			}
		case *stages.Autofocus:
			for _, r := range p.Results() {
				fmt.Printf("  Best focus t=%d: %v\n", r.Time, r.Distance)
			}
		case *export.Exporter:
			fmt.Printf("  Files written:   %d\n", len(p.Written()))
		}
	}
	fmt.Println("==============================")
}

func parseDistances(s string) ([]holo.Length, error) {
	var out []holo.Length
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, err := holo.ParseLength(part)
		if err != nil {
			return nil, fmt.Errorf("-distances: %w", err)
		}
		out = append(out, l)
	}
	return out, nil
}

func parseTimes(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("-times: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func parsePair(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
