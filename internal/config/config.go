// Package config holds runtime configuration: defaults, the optional config
// file, CLI flag binding, and validation. A Config is built once in main and
// passed by pointer; nothing else keeps mutable settings.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// --- Enum types for validated string fields ---

// OutputFormat is the storyboard image encoding.
type OutputFormat string

const (
	FormatJPEG OutputFormat = "jpeg" // Lossy, quality-configurable (default).
	FormatPNG  OutputFormat = "png"  // Lossless.
)

// Ext returns the file extension (with dot) for the format.
func (f OutputFormat) Ext() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".jpg"
}

// FrameCodec is the still-image codec ffmpeg pipes captured frames in.
type FrameCodec string

const (
	FrameCodecPNG FrameCodec = "png" // Default.
	FrameCodecBMP FrameCodec = "bmp" // Uncompressed; cheaper to encode on large frames.
)

// DigestAlgo selects the content digest printed in reports.
type DigestAlgo string

const (
	DigestSHA1  DigestAlgo = "sha1"  // SHA-1, upper-case hex (default).
	DigestXXH64 DigestAlgo = "xxh64" // xxHash64; much faster on large files.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ProgressMode controls progress bars on stderr.
type ProgressMode string

const (
	ProgressAuto ProgressMode = "auto" // Show when stderr is a TTY (default).
	ProgressOn   ProgressMode = "on"
	ProgressOff  ProgressMode = "off"
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [LoadFile], then by command-line flags. Fields are grouped by
// concern with inline documentation of defaults.
type Config struct {
	// Inputs (set from positional args): files or directories.
	Inputs    []string
	OutputDir string // Empty: write each storyboard to a fresh temp file.

	// External tools.
	FFmpegBin  string // Default: "ffmpeg".
	FFprobeBin string // Default: "ffprobe".

	// Thumbnail grid.
	ThumbnailCount int // Default: 16.
	MaxWidth       int // Grid width cap in pixels. Default: 1944 (4 columns of 480 with gaps).
	ThumbnailWidth int // Default: 480. 0 keeps the native frame width.
	ColGap         int // Default: 8.
	RowGap         int // Default: 6.
	Margin         int // Default: 10.
	SectionGap     int // Space between header, grid, and footer. Default: 6.

	// Output image.
	OutputFormat OutputFormat // Default: "jpeg".
	Quality      int          // JPEG quality 1-100. Default: 85.

	// Text rendering.
	FontFile       string  // TrueType/OpenType font; empty uses the built-in face.
	FontSize       float64 // Points at 72 DPI; applies to FontFile only. Default: 16.
	DrawTimestamps bool    // Default: true.
	Banner         bool    // Footer "Generated by" line. Default: true.

	// Digest.
	IncludeDigest bool       // Storyboard header digest. Default: true.
	ReportDigest  bool       // Digest in the standalone report. Default: false.
	DigestAlgo    DigestAlgo // Default: "sha1".

	// Extraction and planning.
	DurationOverride float64    // Seconds; 0 means use the probed duration.
	FrameByFrame     bool       // Force output seeking (slow, accurate).
	FrameCodec       FrameCodec // Pipe codec for captured frames. Default: "png".
	Workers          int        // Concurrent extractions. Default: number of CPUs.
	ScanSampleSize   int        // Frames classified for scan type. Default: 40.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode    // Default: "auto".
	Progress  ProgressMode // Default: "auto".
	LogFile   string       // Optional log file path.
}

// defaultFontSize is the FontSize default. The built-in bitmap face has a
// fixed size, so only a loaded font honours another value.
const defaultFontSize = 16

// DefaultConfig returns a Config with all defaults. Used as the base before
// [LoadFile] and flag parsing apply overrides.
func DefaultConfig() Config {
	return Config{
		FFmpegBin:      "ffmpeg",
		FFprobeBin:     "ffprobe",
		ThumbnailCount: 16,
		MaxWidth:       1944,
		ThumbnailWidth: 480,
		ColGap:         8,
		RowGap:         6,
		Margin:         10,
		SectionGap:     6,
		OutputFormat:   FormatJPEG,
		Quality:        85,
		FontSize:       defaultFontSize,
		DrawTimestamps: true,
		Banner:         true,
		IncludeDigest:  true,
		ReportDigest:   false,
		DigestAlgo:     DigestSHA1,
		Workers:        runtime.NumCPU(),
		ScanSampleSize: 40,
		FrameCodec:     FrameCodecPNG,
		ColorMode:      ColorAuto,
		Progress:       ProgressAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case FormatJPEG, FormatPNG:
		// valid
	default:
		return errors.New("invalid format (use 'jpeg' or 'png')")
	}

	switch c.DigestAlgo {
	case DigestSHA1, DigestXXH64:
		// valid
	default:
		return errors.New("invalid digest (use 'sha1' or 'xxh64')")
	}

	switch c.FrameCodec {
	case FrameCodecPNG, FrameCodecBMP:
		// valid
	default:
		return errors.New("invalid frame codec (use 'png' or 'bmp')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	switch c.Progress {
	case ProgressAuto, ProgressOn, ProgressOff:
		// valid
	default:
		return errors.New("invalid progress mode (use 'auto', 'on' or 'off')")
	}

	switch {
	case c.Quality < 1 || c.Quality > 100:
		return fmt.Errorf("quality must be between 1 and 100 (got %d)", c.Quality)
	case c.ThumbnailCount < 1:
		return fmt.Errorf("thumbnail count must be at least 1 (got %d)", c.ThumbnailCount)
	case c.MaxWidth < 1:
		return fmt.Errorf("max width must be positive (got %d)", c.MaxWidth)
	case c.ThumbnailWidth < 0:
		return fmt.Errorf("thumbnail width must not be negative (got %d)", c.ThumbnailWidth)
	case c.ColGap < 0 || c.RowGap < 0 || c.Margin < 0 || c.SectionGap < 0:
		return errors.New("spacing and margins must not be negative")
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	case c.DurationOverride < 0:
		return fmt.Errorf("video duration must not be negative (got %g)", c.DurationOverride)
	case c.FontSize <= 0:
		return fmt.Errorf("font size must be positive (got %g)", c.FontSize)
	case c.ScanSampleSize < 1:
		return fmt.Errorf("scan sample size must be at least 1 (got %d)", c.ScanSampleSize)
	}

	if c.FFmpegBin == "" || c.FFprobeBin == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}
	return nil
}

// Warnings lists settings that are valid but will have no effect.
func (c *Config) Warnings() []string {
	var w []string
	if c.FontFile == "" && c.FontSize != defaultFontSize {
		w = append(w, fmt.Sprintf("font size %g is ignored without a font file; the built-in face is fixed at 13 px", c.FontSize))
	}
	return w
}
