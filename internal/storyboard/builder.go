package storyboard

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/storyboard/internal/config"
	"github.com/backmassage/storyboard/internal/ffmpeg"
	"github.com/backmassage/storyboard/internal/layout"
	"github.com/backmassage/storyboard/internal/metadata"
	"github.com/backmassage/storyboard/internal/opt"
	"github.com/backmassage/storyboard/internal/planner"
)

// Builder builds storyboards. It holds no per-file state and may be reused
// across files, but not concurrently.
type Builder struct {
	cfg       *config.Config
	extractor Extractor
	text      TextRenderer

	// Counter resolves frame-ordinal schedules. Without it a file of
	// unknown duration fails with planner.ErrDurationUnavailable.
	Counter FrameCounter

	// BannerText is drawn centred in the footer when cfg.Banner is set.
	BannerText string

	// OnThumbnail, when set, is called after each slot settles.
	OnThumbnail func(done, total int)

	// DigestProgress receives a copy of the bytes read for the digest.
	DigestProgress io.Writer
}

// NewBuilder returns a Builder using cfg for geometry, digest and
// concurrency settings.
func NewBuilder(cfg *config.Config, ex Extractor, text TextRenderer) *Builder {
	return &Builder{cfg: cfg, extractor: ex, text: text}
}

// Plan returns the capture schedule for v without extracting anything,
// resolving ordinal schedules through Counter.
func (b *Builder) Plan(ctx context.Context, v *metadata.Video) (planner.Schedule, error) {
	vs, ok := v.PrimaryVideo()
	if !ok {
		return planner.Schedule{}, ErrNoVideoStream
	}
	hints := planner.Hints{
		Overridden:   v.DurationOverridden,
		FrameByFrame: b.cfg.FrameByFrame,
		FrameRate:    opt.Map(vs.FrameRate, metadata.Rational.Float),
	}
	sched, err := planner.Plan(v.Duration, b.cfg.ThumbnailCount, hints)
	if err != nil {
		return sched, err
	}
	if !sched.NeedsFrameCount() {
		return sched, nil
	}
	if b.Counter == nil {
		return sched, planner.ErrDurationUnavailable
	}
	n, err := b.Counter(ctx, v.Path, vs.Index())
	if err != nil {
		return sched, fmt.Errorf("count frames: %w", err)
	}
	return sched.Resolve(n)
}

// Build captures, lays out and composites the storyboard of v.
func (b *Builder) Build(ctx context.Context, v *metadata.Video) (*Result, error) {
	sched, err := b.Plan(ctx, v)
	if err != nil {
		return nil, err
	}
	vs, _ := v.PrimaryVideo()

	res := &Result{Schedule: sched}

	// The digest reads the whole file independently of the extractions.
	var digestWG sync.WaitGroup
	if b.cfg.IncludeDigest {
		digestWG.Add(1)
		go func() {
			defer digestWG.Done()
			d, err := v.Digest(ctx, metadata.DigestAlgo(b.cfg.DigestAlgo), b.DigestProgress)
			if err != nil {
				res.DigestErr = err
				return
			}
			res.Digest = &d
		}()
	}

	thumbs, err := b.extractAll(ctx, v, vs, sched)
	digestWG.Wait()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Thumbnails = thumbs
	var failures []error
	for _, t := range thumbs {
		if t.Placeholder {
			res.Placeholders++
			failures = append(failures, t.Err)
		}
	}
	res.Failures = errors.Join(failures...)
	if res.Placeholders == len(thumbs) {
		return nil, fmt.Errorf("%w: %w", ErrNoThumbnails, res.Failures)
	}

	lines := v.ReportLines(res.Digest)
	res.Text = v.Report(res.Digest)

	l, err := b.layout(vs, thumbs, len(lines))
	if err != nil {
		return nil, err
	}
	res.Layout = l
	res.Image = b.compose(l, lines, thumbs)
	return res, nil
}

// extractAll captures every slot on a bounded worker pool. Results land in
// their slot, so completion order does not matter. Only cancellation is
// returned as an error; per-slot failures become placeholders.
func (b *Builder) extractAll(ctx context.Context, v *metadata.Video, vs *metadata.VideoStream, sched planner.Schedule) ([]Thumbnail, error) {
	n := len(sched.Points)
	thumbs := make([]Thumbnail, n)

	mode, spacing, limit := captureGeometry(sched)
	deinterlace := vs.ScanType.Kind == metadata.ScanInterlaced

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.cfg.Workers))
	for i, p := range sched.Points {
		g.Go(func() error {
			req := ffmpeg.Request{
				Path:        v.Path,
				StreamIndex: vs.Index(),
				Mode:        mode,
				Seconds:     p.Seconds.OrElse(0),
				Frame:       p.Frame.OrElse(0),
				Deinterlace: deinterlace,
			}
			img, err := b.capture(gctx, req, spacing, limit)
			if gctx.Err() != nil {
				return gctx.Err()
			}

			thumbs[i] = Thumbnail{Slot: i, Seconds: p.Seconds, Frame: p.Frame, Image: img}
			if err != nil {
				thumbs[i].Placeholder = true
				thumbs[i].Err = &ExtractionError{Slot: i, Position: req.Position(), Err: err}
			}

			if b.OnThumbnail != nil {
				mu.Lock()
				done++
				b.OnThumbnail(done, n)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return thumbs, nil
}

// capture extracts one slot, retrying once at a nearby position.
func (b *Builder) capture(ctx context.Context, req ffmpeg.Request, spacing, limit float64) (image.Image, error) {
	rs := ffmpeg.NewRetryState(spacing, limit)
	var errs []error
	for {
		img, err := b.extractor.Extract(ctx, req, rs)
		if err == nil {
			return img, nil
		}
		errs = append(errs, err)
		next, action := rs.Advance(req, err)
		if action == ffmpeg.RetryNone {
			return nil, errors.Join(errs...)
		}
		req = next
	}
}

// captureGeometry maps a schedule to the extraction mode, the distance
// between slots and the end of the stream, in seconds or frames.
func captureGeometry(s planner.Schedule) (mode ffmpeg.Mode, spacing, limit float64) {
	switch s.Mode {
	case planner.ModeSequential:
		mode = ffmpeg.OutputSeek
	case planner.ModeOrdinal:
		mode = ffmpeg.SelectFrame
		if n, ok := s.Frames.Get(); ok {
			limit = float64(n)
			spacing = limit / float64(max(1, s.Count))
		}
		return mode, spacing, limit
	default:
		mode = ffmpeg.InputSeek
	}
	if d, ok := s.Duration.Get(); ok {
		limit = d
		spacing = d / float64(max(1, s.Count))
	}
	return mode, spacing, limit
}

// layout sizes cells from the first captured frame, shown at the stream's
// display aspect ratio.
func (b *Builder) layout(vs *metadata.VideoStream, thumbs []Thumbnail, textLines int) (layout.Layout, error) {
	var first image.Image
	for _, t := range thumbs {
		if t.Image != nil {
			first = t.Image
			break
		}
	}
	var darNum, darDen int64
	if dar, ok := vs.DAR.Get(); ok {
		darNum, darDen = dar.Num, dar.Den
	}
	fb := first.Bounds()
	cw, ch := layout.ScaleCell(fb.Dx(), fb.Dy(), b.cfg.ThumbnailWidth, darNum, darDen)

	lh := b.text.LineHeight()
	footer := 0
	if b.cfg.Banner && b.BannerText != "" {
		footer = lh
	}
	return layout.Compute(layout.Params{
		Count:        len(thumbs),
		CellWidth:    cw,
		CellHeight:   ch,
		MaxWidth:     b.cfg.MaxWidth,
		TextHeight:   textLines * lh,
		FooterHeight: footer,
		Margin:       b.cfg.Margin,
		ColGap:       b.cfg.ColGap,
		RowGap:       b.cfg.RowGap,
		SectionGap:   b.cfg.SectionGap,
	})
}
