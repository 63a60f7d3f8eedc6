package storyboard

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/backmassage/storyboard/internal/ffmpeg"
	"github.com/backmassage/storyboard/internal/layout"
	"github.com/backmassage/storyboard/internal/metadata"
	"github.com/backmassage/storyboard/internal/opt"
	"github.com/backmassage/storyboard/internal/planner"
)

var (
	// ErrNoVideoStream is returned for files without a video stream.
	ErrNoVideoStream = errors.New("no video stream")
	// ErrNoThumbnails is returned when every capture failed.
	ErrNoThumbnails = errors.New("no thumbnail could be extracted")
)

// Extractor captures one still frame. rs carries the retry state of the
// slot and is non-nil.
type Extractor interface {
	Extract(ctx context.Context, req ffmpeg.Request, rs *ffmpeg.RetryState) (image.Image, error)
}

// FrameCounter counts the frames of a stream by decoding it fully. It is
// only consulted when the duration is unknown.
type FrameCounter func(ctx context.Context, path string, streamIndex int) (int64, error)

// TextRenderer measures and draws single lines of text.
type TextRenderer interface {
	LineHeight() int
	Measure(s string) int
	Draw(dst draw.Image, x, y int, s string, c color.Color)
}

// Thumbnail is one grid slot.
type Thumbnail struct {
	Slot        int
	Seconds     opt.Value[float64]
	Frame       opt.Value[int64]
	Image       image.Image // Nil for a placeholder.
	Placeholder bool
	Err         error // *ExtractionError for a placeholder.
}

// Label is the overlay text of the slot: its timestamp, or its frame
// ordinal when no timestamp is known.
func (t Thumbnail) Label(format func(float64) string) string {
	if s, ok := t.Seconds.Get(); ok {
		return format(s)
	}
	if n, ok := t.Frame.Get(); ok {
		return fmt.Sprintf("#%d", n)
	}
	return ""
}

// ExtractionError records a slot that fell back to a placeholder.
type ExtractionError struct {
	Slot     int
	Position string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("thumbnail %d at %s: %v", e.Slot+1, e.Position, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Result is a finished storyboard.
type Result struct {
	Image    *image.RGBA
	Text     string // Header report, byte-identical to the standalone report.
	Layout   layout.Layout
	Schedule planner.Schedule
	Digest   *metadata.Digest

	Thumbnails   []Thumbnail
	Placeholders int
	// Failures joins one *ExtractionError per placeholder slot; nil when
	// every slot was captured.
	Failures error
	// DigestErr is set when the digest was requested but failed; the
	// header then omits it.
	DigestErr error
}
