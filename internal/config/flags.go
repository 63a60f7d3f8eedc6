package config

// This file binds command-line flags to Config.
// Flags are grouped into global (tools, display), storyboard (grid, output,
// text, extraction) and metadata groups. Flag defaults are read from cfg at
// bind time, so the config file must be applied before binding.
// Negated flags (e.g. --no-timestamps) are applied after parsing so Config
// values hold unless the flag is set.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags binds a Config to one or more flag sets and holds the negated
// switches until [Flags.Apply] copies them into the Config.
type Flags struct {
	cfg *Config

	noColor       bool
	noTimestamps  bool
	noBanner      bool
	excludeDigest bool
	noProgress    bool
}

// NewFlags returns a binder for cfg.
func NewFlags(cfg *Config) *Flags {
	return &Flags{cfg: cfg}
}

// DefineGlobal registers flags shared by every command: tool paths,
// display, and logging.
func (f *Flags) DefineGlobal(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.StringVar(&cfg.FFmpegBin, "ffmpeg-bin", cfg.FFmpegBin, "ffmpeg binary to use")
	fs.StringVar(&cfg.FFprobeBin, "ffprobe-bin", cfg.FFprobeBin, "ffprobe binary to use")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Colored logs: auto | always | never")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.Var(&progressModeValue{&cfg.Progress}, "progress", "Progress bars: auto | on | off")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Disable progress bars")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
}

// DefineStoryboard registers the storyboard generation flags.
func (f *Flags) DefineStoryboard(fs *pflag.FlagSet) {
	f.defineGridFlags(fs)
	f.defineOutputFlags(fs)
	f.defineTextFlags(fs)
	f.defineExtractionFlags(fs)
}

// DefineMetadata registers the flags of the standalone metadata report.
func (f *Flags) DefineMetadata(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.BoolVar(&cfg.ReportDigest, "include-digest", cfg.ReportDigest, "Include the content digest (reads the whole file)")
	fs.Var(&digestAlgoValue{&cfg.DigestAlgo}, "digest", "Digest algorithm: sha1 | xxh64")
	fs.Float64Var(&cfg.DurationOverride, "video-duration", cfg.DurationOverride, "Override the probed duration, in seconds")
	fs.IntVar(&cfg.ScanSampleSize, "scan-sample", cfg.ScanSampleSize, "Frames sampled for scan type detection")
}

// defineGridFlags registers -n/--thumbnails, --max-width, -w/--thumbnail-width and spacing.
func (f *Flags) defineGridFlags(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.IntVarP(&cfg.ThumbnailCount, "thumbnails", "n", cfg.ThumbnailCount, "Number of thumbnails")
	fs.IntVar(&cfg.MaxWidth, "max-width", cfg.MaxWidth, "Grid width cap in pixels (chooses the column count)")
	fs.IntVarP(&cfg.ThumbnailWidth, "thumbnail-width", "w", cfg.ThumbnailWidth, "Thumbnail width in pixels (0 keeps native size)")
	fs.IntVar(&cfg.ColGap, "col-gap", cfg.ColGap, "Horizontal space between thumbnails")
	fs.IntVar(&cfg.RowGap, "row-gap", cfg.RowGap, "Vertical space between thumbnails")
	fs.IntVar(&cfg.Margin, "margin", cfg.Margin, "Outer margin")
	fs.IntVar(&cfg.SectionGap, "section-gap", cfg.SectionGap, "Space between header, grid, and footer")
}

// defineOutputFlags registers -o/--output-dir, -f/--format, -q/--quality and digest flags.
func (f *Flags) defineOutputFlags(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "Write storyboards here (default: a temp file per video)")
	fs.VarP(&outputFormatValue{&cfg.OutputFormat}, "format", "f", "Output format: jpeg | png")
	fs.IntVarP(&cfg.Quality, "quality", "q", cfg.Quality, "JPEG quality (1-100)")
	fs.BoolVar(&f.excludeDigest, "exclude-digest", false, "Do not compute the content digest")
	fs.Var(&digestAlgoValue{&cfg.DigestAlgo}, "digest", "Digest algorithm: sha1 | xxh64")
}

// defineTextFlags registers font and overlay flags.
func (f *Flags) defineTextFlags(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.StringVar(&cfg.FontFile, "font", cfg.FontFile, "TrueType/OpenType font file")
	fs.Float64Var(&cfg.FontSize, "font-size", cfg.FontSize, "Font size in points (needs --font)")
	fs.BoolVar(&f.noTimestamps, "no-timestamps", false, "Do not draw timestamps on thumbnails")
	fs.BoolVar(&f.noBanner, "no-banner", false, "Do not draw the footer banner")
}

// defineExtractionFlags registers duration override, frame-by-frame, workers.
func (f *Flags) defineExtractionFlags(fs *pflag.FlagSet) {
	cfg := f.cfg
	fs.Float64Var(&cfg.DurationOverride, "video-duration", cfg.DurationOverride, "Override the probed duration, in seconds (forces output seeking)")
	fs.BoolVar(&cfg.FrameByFrame, "frame-by-frame", cfg.FrameByFrame, "Decode from the start for every thumbnail (very slow)")
	fs.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Concurrent frame extractions")
	fs.Var(&frameCodecValue{&cfg.FrameCodec}, "frame-codec", "Codec frames are piped from ffmpeg in: png | bmp")
	fs.IntVar(&cfg.ScanSampleSize, "scan-sample", cfg.ScanSampleSize, "Frames sampled for scan type detection")
}

// Apply copies negated flag values into the Config.
func (f *Flags) Apply() {
	cfg := f.cfg
	if f.noColor {
		cfg.ColorMode = ColorNever
	}
	if f.noProgress {
		cfg.Progress = ProgressOff
	}
	if f.noTimestamps {
		cfg.DrawTimestamps = false
	}
	if f.noBanner {
		cfg.Banner = false
	}
	if f.excludeDigest {
		cfg.IncludeDigest = false
	}
}

// SetInputs records the positional arguments.
func (c *Config) SetInputs(args []string) {
	c.Inputs = c.Inputs[:0]
	for _, a := range args {
		c.Inputs = append(c.Inputs, NormalizeDirArg(a))
	}
}

// pflag.Value adapters so enum types (OutputFormat, FrameCodec, DigestAlgo,
// ColorMode, ProgressMode) can be bound with Var and set from the config file.

type outputFormatValue struct{ p *OutputFormat }

func (v *outputFormatValue) String() string { return string(*v.p) }
func (v *outputFormatValue) Type() string   { return "format" }
func (v *outputFormatValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "jpeg", "jpg":
		*v.p = FormatJPEG
	case "png":
		*v.p = FormatPNG
	default:
		return fmt.Errorf("invalid format %q (use 'jpeg' or 'png')", s)
	}
	return nil
}

type frameCodecValue struct{ p *FrameCodec }

func (v *frameCodecValue) String() string { return string(*v.p) }
func (v *frameCodecValue) Type() string   { return "codec" }
func (v *frameCodecValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "png":
		*v.p = FrameCodecPNG
	case "bmp":
		*v.p = FrameCodecBMP
	default:
		return fmt.Errorf("invalid frame codec %q (use 'png' or 'bmp')", s)
	}
	return nil
}

type digestAlgoValue struct{ p *DigestAlgo }

func (v *digestAlgoValue) String() string { return string(*v.p) }
func (v *digestAlgoValue) Type() string   { return "algo" }
func (v *digestAlgoValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "sha1", "sha-1":
		*v.p = DigestSHA1
	case "xxh64", "xxhash":
		*v.p = DigestXXH64
	default:
		return fmt.Errorf("invalid digest %q (use 'sha1' or 'xxh64')", s)
	}
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (v *colorModeValue) String() string { return string(*v.p) }
func (v *colorModeValue) Type() string   { return "mode" }
func (v *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*v.p = ColorAuto
	case "always", "on":
		*v.p = ColorAlways
	case "never", "off":
		*v.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

type progressModeValue struct{ p *ProgressMode }

func (v *progressModeValue) String() string { return string(*v.p) }
func (v *progressModeValue) Type() string   { return "mode" }
func (v *progressModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*v.p = ProgressAuto
	case "on", "always":
		*v.p = ProgressOn
	case "off", "never":
		*v.p = ProgressOff
	default:
		return fmt.Errorf("invalid progress mode %q (use 'auto', 'on' or 'off')", s)
	}
	return nil
}
