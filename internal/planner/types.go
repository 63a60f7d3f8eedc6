package planner

import (
	"errors"

	"github.com/backmassage/storyboard/internal/opt"
)

var (
	// ErrInvalidThumbnailCount is returned for a thumbnail count below one.
	ErrInvalidThumbnailCount = errors.New("invalid thumbnail count")

	// ErrDurationUnavailable is returned when exact timestamps are required
	// but the duration is unknown, or when a frame count turned out empty.
	ErrDurationUnavailable = errors.New("duration unavailable")
)

// Mode is the capture strategy of a schedule.
type Mode int

const (
	ModeSeek Mode = iota
	ModeSequential
	ModeOrdinal
)

func (m Mode) String() string {
	switch m {
	case ModeSeek:
		return "seek"
	case ModeSequential:
		return "sequential"
	case ModeOrdinal:
		return "frame-ordinal"
	}
	return "unknown"
}

// Degraded reports whether the mode decodes from the start of the stream.
func (m Mode) Degraded() bool { return m != ModeSeek }

// Hints carries what the caller knows beyond the duration.
type Hints struct {
	// Overridden marks a user-supplied duration; the container's index is
	// not trusted, so timestamps are reached by sequential decode.
	Overridden bool

	// FrameByFrame forces sequential decode even with a trusted duration.
	FrameByFrame bool

	// RequireTimestamps fails planning with ErrDurationUnavailable instead
	// of falling back to frame ordinals.
	RequireTimestamps bool

	// FrameCount of the primary video stream, when already known.
	FrameCount opt.Value[int64]

	// FrameRate in frames per second, used to label ordinal slots.
	FrameRate opt.Value[float64]
}

// Point is one planned capture. Seconds is set in every mode except
// ModeOrdinal without a frame rate; Frame is set only in ModeOrdinal.
type Point struct {
	Slot    int
	Seconds opt.Value[float64]
	Frame   opt.Value[int64]
}

// Schedule is the ordered capture plan for one storyboard.
type Schedule struct {
	Mode     Mode
	Count    int
	Duration opt.Value[float64]
	Frames   opt.Value[int64] // Frame count behind a resolved ModeOrdinal schedule.
	Points   []Point

	frameRate opt.Value[float64]
}

// NeedsFrameCount reports whether the ordinals are still pending a frame
// count; see Resolve.
func (s Schedule) NeedsFrameCount() bool {
	return s.Mode == ModeOrdinal && len(s.Points) == 0
}

// Seconds returns the planned timestamps, or nil when any slot has none.
func (s Schedule) Seconds() []float64 {
	out := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		t, ok := p.Seconds.Get()
		if !ok {
			return nil
		}
		out = append(out, t)
	}
	return out
}
