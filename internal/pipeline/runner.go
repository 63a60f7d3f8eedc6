package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/storyboard/internal/config"
	"github.com/backmassage/storyboard/internal/display"
	"github.com/backmassage/storyboard/internal/ffmpeg"
	"github.com/backmassage/storyboard/internal/font"
	"github.com/backmassage/storyboard/internal/logging"
	"github.com/backmassage/storyboard/internal/metadata"
	"github.com/backmassage/storyboard/internal/naming"
	"github.com/backmassage/storyboard/internal/opt"
	"github.com/backmassage/storyboard/internal/probe"
	"github.com/backmassage/storyboard/internal/scan"
	"github.com/backmassage/storyboard/internal/storyboard"
)

// Mode selects what Run produces for each file.
type Mode int

const (
	ModeStoryboard Mode = iota // Write one storyboard image per file.
	ModeMetadata               // Print the metadata report per file.
)

// Options are the per-run settings that do not belong in config.Config.
type Options struct {
	Mode    Mode
	Version string    // Drawn in the storyboard footer banner.
	Stdout  io.Writer // Reports and output paths; nil means os.Stdout.
}

// runner carries the state shared by every file of one batch.
type runner struct {
	cfg      *config.Config
	log      *logging.Logger
	opts     Options
	out      io.Writer
	stats    *RunStats
	detector *scan.Detector
	builder  *storyboard.Builder
	resolver *naming.CollisionResolver
	printed  int
}

// Run is the top-level batch entry point. It expands cfg.Inputs, processes
// each file sequentially, and returns aggregate stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, opts Options) RunStats {
	var stats RunStats

	inputs, errs := Expand(cfg.Inputs)
	for _, err := range errs {
		log.Error("%v", err)
		stats.Failed++
	}
	stats.Total = len(inputs)
	if len(inputs) == 0 {
		if len(errs) == 0 {
			log.Warn("No media files found")
		}
		return stats
	}

	r := &runner{
		cfg:      cfg,
		log:      log,
		opts:     opts,
		out:      opts.Stdout,
		stats:    &stats,
		detector: &scan.Detector{FFprobeBin: cfg.FFprobeBin, SampleSize: cfg.ScanSampleSize},
		resolver: naming.NewCollisionResolver(),
	}
	if r.out == nil {
		r.out = os.Stdout
	}

	if opts.Mode == ModeStoryboard {
		for _, w := range cfg.Warnings() {
			log.Warn("%s", w)
		}
		face, err := font.Load(cfg.FontFile, cfg.FontSize)
		if err != nil {
			log.Error("Cannot load font: %v", err)
			stats.Failed += len(inputs)
			return stats
		}
		defer face.Close()
		r.builder = r.newBuilder(face)
		log.Debug(cfg.Verbose, "Font: %s, %d thumbnails, %d workers", face.Name(), cfg.ThumbnailCount, cfg.Workers)
	}

	for i, in := range inputs {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		r.processFile(ctx, in)
	}

	if stats.Total > 1 || stats.Failed > 0 {
		logSummary(log, &stats)
	}
	return stats
}

func (r *runner) newBuilder(face *font.Face) *storyboard.Builder {
	ex := ffmpeg.NewExtractor(r.cfg.FFmpegBin, r.cfg.Verbose)
	ex.Codec = string(r.cfg.FrameCodec)
	b := storyboard.NewBuilder(r.cfg, ex, face)
	b.Counter = countingFrames(r.cfg)
	if r.cfg.Banner {
		b.BannerText = display.FooterText(r.opts.Version)
	}
	return b
}

// processFile handles one media file: validate → probe → interpret →
// detect scan type → report or storyboard.
func (r *runner) processFile(ctx context.Context, in Input) {
	cfg, log, stats := r.cfg, r.log, r.stats
	basename := filepath.Base(in.Path)
	if stats.Total > 1 {
		log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)
	}

	// --- Validate ---
	fi, err := os.Stat(in.Path)
	if err != nil {
		log.Error("File not found: %s", in.Path)
		stats.Failed++
		return
	}
	if fi.IsDir() {
		log.Error("Not a file: %s", in.Path)
		stats.Failed++
		return
	}

	// --- Probe and interpret ---
	v, err := r.loadVideo(ctx, in.Path, fi.Size())
	if err != nil {
		log.Error("%s: %v", basename, err)
		stats.Failed++
		return
	}

	// --- Scan type ---
	if vs, ok := v.PrimaryVideo(); ok {
		st, tally, err := r.detector.Detect(ctx, v)
		switch {
		case err != nil && ctx.Err() != nil:
			log.Warn("Interrupted")
			stats.Failed++
			return
		case err != nil:
			log.Warn("  Scan type detection failed: %v", err)
		case st.Kind == metadata.ScanUnknown:
			log.Debug(cfg.Verbose, "  Scan type unknown (%d frames sampled)", tally.Frames)
		default:
			log.Debug(cfg.Verbose, "  %s (%d/%d interlaced frames)", st, tally.Interlaced, tally.Frames)
		}
		if declared, ok := scanMismatch(vs); ok {
			log.Debug(cfg.Verbose, "  Container declares %s, frames show %s", declared, vs.ScanType)
		}
	}

	if r.opts.Mode == ModeMetadata {
		r.report(ctx, v, fi.Size())
		return
	}
	r.buildStoryboard(ctx, v, in)
}

// scanMismatch reports the container's declared scan type when it
// contradicts the detected one. Telecined content is usually declared
// progressive or interlaced, so only a detected Progressive or Interlaced
// is compared.
func scanMismatch(vs *metadata.VideoStream) (metadata.ScanType, bool) {
	declared, ok := vs.DeclaredScan.Get()
	if !ok {
		return declared, false
	}
	switch vs.ScanType.Kind {
	case metadata.ScanProgressive, metadata.ScanInterlaced:
		return declared, declared != vs.ScanType
	}
	return declared, false
}

// loadVideo probes path and interprets the records.
func (r *runner) loadVideo(ctx context.Context, path string, size int64) (*metadata.Video, error) {
	res, err := probe.Probe(ctx, r.cfg.FFprobeBin, path)
	if err != nil {
		return nil, err
	}
	opts := metadata.InterpretOptions{
		Path: path,
		Size: opt.Some(size),
		OnUnsupportedCodec: func(index int, codecName string) {
			r.log.Debug(r.cfg.Verbose, "  Stream #%d: no label for codec %q, shown verbatim", index, codecName)
		},
	}
	if r.cfg.DurationOverride > 0 {
		opts.DurationOverride = opt.Some(r.cfg.DurationOverride)
	}
	return metadata.Interpret(res.Format, res.Streams, opts)
}

// report prints the metadata report of v, separated from the previous
// report by a blank line.
func (r *runner) report(ctx context.Context, v *metadata.Video, size int64) {
	var digest *metadata.Digest
	if r.cfg.ReportDigest {
		bar := newBytesBar(r.cfg, size, "  Digest")
		d, err := v.Digest(ctx, metadata.DigestAlgo(r.cfg.DigestAlgo), bar)
		_ = bar.Finish()
		if err != nil {
			if ctx.Err() != nil {
				r.log.Warn("Interrupted")
				r.stats.Failed++
				return
			}
			r.log.Warn("  Digest unavailable: %v", err)
		} else {
			digest = &d
		}
	}

	if r.printed > 0 {
		fmt.Fprintln(r.out)
	}
	fmt.Fprint(r.out, v.Report(digest))
	r.printed++
	r.stats.Succeeded++
}

// buildStoryboard builds and writes the storyboard of v, then prints its path.
func (r *runner) buildStoryboard(ctx context.Context, v *metadata.Video, in Input) {
	cfg, log, stats := r.cfg, r.log, r.stats

	if _, ok := v.PrimaryVideo(); !ok {
		log.Warn("No video stream found, skipping %s", v.Filename)
		stats.Skipped++
		return
	}

	bar := newThumbnailBar(cfg, cfg.ThumbnailCount)
	r.builder.OnThumbnail = func(done, total int) {
		_ = bar.Set(done)
	}
	defer func() { r.builder.OnThumbnail = nil }()

	start := time.Now()
	res, err := r.builder.Build(ctx, v)
	_ = bar.Finish()
	if err != nil {
		switch {
		case ctx.Err() != nil:
			log.Warn("Interrupted")
		case errors.Is(err, storyboard.ErrNoThumbnails):
			log.Error("%s: %v", v.Filename, err)
		default:
			log.Error("Storyboard failed for %s: %v", v.Filename, err)
		}
		stats.Failed++
		return
	}

	if res.Schedule.Mode.Degraded() {
		log.Warn("  Using %s extraction (%s); this decodes from the start and may be slow",
			res.Schedule.Mode, degradedReason(v))
	}
	for _, t := range res.Thumbnails {
		if t.Placeholder {
			log.Warn("  Placeholder used: %v", t.Err)
		}
	}
	if res.DigestErr != nil {
		log.Warn("  Digest omitted: %v", res.DigestErr)
	}
	stats.Placeholders += res.Placeholders

	outPath, err := r.writeImage(in, res)
	if err != nil {
		log.Error("Cannot write storyboard for %s: %v", v.Filename, err)
		stats.Failed++
		return
	}

	log.Debug(cfg.Verbose, "  %dx%d grid, %dx%d px in %s",
		res.Layout.Cols, res.Layout.Rows, res.Layout.Width, res.Layout.Height,
		time.Since(start).Round(time.Millisecond))
	fmt.Fprintln(r.out, outPath)
	stats.Succeeded++
}

func degradedReason(v *metadata.Video) string {
	switch {
	case v.DurationOverridden:
		return "duration overridden"
	case !v.Duration.Present():
		return "duration unknown"
	}
	return "frame-by-frame requested"
}

// writeImage encodes the storyboard next to its siblings under
// cfg.OutputDir, or into a fresh temp file when no directory is set. A
// partially written file is removed.
func (r *runner) writeImage(in Input, res *storyboard.Result) (string, error) {
	cfg := r.cfg
	ext := strings.TrimPrefix(cfg.OutputFormat.Ext(), ".")

	var f *os.File
	var err error
	if cfg.OutputDir == "" {
		f, err = os.CreateTemp("", "storyboard-*."+ext)
	} else {
		path := naming.OutputPath(in.Path, in.Root, cfg.OutputDir, ext)
		path = r.resolver.Resolve(in.Path, path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		f, err = os.Create(path)
	}
	if err != nil {
		return "", err
	}

	if err := storyboard.Encode(f, res.Image, cfg.OutputFormat, cfg.Quality); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d succeeded, %d skipped, %d failed", stats.Succeeded, stats.Skipped, stats.Failed)
	if stats.Placeholders > 0 {
		log.Warn("  %d thumbnail(s) replaced by placeholders", stats.Placeholders)
	}
	if stats.Failed == 0 {
		log.Success("All files processed")
	}
}
