package config

// This file loads the optional KEY=value config file. Values are applied on
// top of DefaultConfig and below command-line flags.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// EnvConfigPath names the environment variable that overrides the config
// file location.
const EnvConfigPath = "STORYBOARD_CONFIG"

// DefaultFilePath returns the config file location:
// $STORYBOARD_CONFIG, else $XDG_CONFIG_HOME/storyboard/storyboard.conf,
// else ~/.config/storyboard/storyboard.conf. Empty when no home is known.
func DefaultFilePath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "storyboard", "storyboard.conf")
}

// LoadFile applies the settings in path to cfg. A missing file is not an
// error unless required is set (an explicitly named file must exist).
func LoadFile(cfg *Config, path string, required bool) error {
	if path == "" {
		return nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return Apply(cfg, values)
}

// Apply sets fields from key/value pairs. Keys are case-insensitive and may
// use '-' or '_' ("thumbnail_width", "THUMBNAIL-WIDTH"). Keys are applied in
// sorted order so errors are reported deterministically.
func Apply(cfg *Config, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_")
		set, ok := fileKeys[norm]
		if !ok {
			return fmt.Errorf("unknown config key %q", k)
		}
		if err := set(cfg, strings.TrimSpace(values[k])); err != nil {
			return fmt.Errorf("config key %q: %w", k, err)
		}
	}
	return nil
}

type setter func(cfg *Config, v string) error

func intKey(field func(*Config) *int) setter {
	return func(cfg *Config, v string) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		*field(cfg) = n
		return nil
	}
}

func floatKey(field func(*Config) *float64) setter {
	return func(cfg *Config, v string) error {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		*field(cfg) = f
		return nil
	}
}

func boolKey(field func(*Config) *bool) setter {
	return func(cfg *Config, v string) error {
		b, err := cast.ToBoolE(strings.ToLower(v))
		if err != nil {
			return err
		}
		*field(cfg) = b
		return nil
	}
}

func stringKey(field func(*Config) *string) setter {
	return func(cfg *Config, v string) error {
		*field(cfg) = v
		return nil
	}
}

var fileKeys = map[string]setter{
	"ffmpeg_bin":      stringKey(func(c *Config) *string { return &c.FFmpegBin }),
	"ffprobe_bin":     stringKey(func(c *Config) *string { return &c.FFprobeBin }),
	"output_dir":      stringKey(func(c *Config) *string { return &c.OutputDir }),
	"font_file":       stringKey(func(c *Config) *string { return &c.FontFile }),
	"log":             stringKey(func(c *Config) *string { return &c.LogFile }),
	"thumbnails":      intKey(func(c *Config) *int { return &c.ThumbnailCount }),
	"max_width":       intKey(func(c *Config) *int { return &c.MaxWidth }),
	"thumbnail_width": intKey(func(c *Config) *int { return &c.ThumbnailWidth }),
	"col_gap":         intKey(func(c *Config) *int { return &c.ColGap }),
	"row_gap":         intKey(func(c *Config) *int { return &c.RowGap }),
	"margin":          intKey(func(c *Config) *int { return &c.Margin }),
	"section_gap":     intKey(func(c *Config) *int { return &c.SectionGap }),
	"quality":         intKey(func(c *Config) *int { return &c.Quality }),
	"workers":         intKey(func(c *Config) *int { return &c.Workers }),
	"scan_sample":     intKey(func(c *Config) *int { return &c.ScanSampleSize }),
	"font_size":       floatKey(func(c *Config) *float64 { return &c.FontSize }),
	"draw_timestamps": boolKey(func(c *Config) *bool { return &c.DrawTimestamps }),
	"banner":          boolKey(func(c *Config) *bool { return &c.Banner }),
	"include_digest":  boolKey(func(c *Config) *bool { return &c.IncludeDigest }),
	"report_digest":   boolKey(func(c *Config) *bool { return &c.ReportDigest }),
	"frame_by_frame":  boolKey(func(c *Config) *bool { return &c.FrameByFrame }),
	"verbose":         boolKey(func(c *Config) *bool { return &c.Verbose }),
	"output_format":   func(c *Config, v string) error { return (&outputFormatValue{&c.OutputFormat}).Set(v) },
	"frame_codec":     func(c *Config, v string) error { return (&frameCodecValue{&c.FrameCodec}).Set(v) },
	"digest":          func(c *Config, v string) error { return (&digestAlgoValue{&c.DigestAlgo}).Set(v) },
	"color":           func(c *Config, v string) error { return (&colorModeValue{&c.ColorMode}).Set(v) },
	"progress":        func(c *Config, v string) error { return (&progressModeValue{&c.Progress}).Set(v) },
}
