package planner

import (
	"fmt"

	"github.com/backmassage/storyboard/internal/opt"
)

// Plan builds the capture schedule for count thumbnails.
//
// With a usable duration the schedule always holds count strictly
// increasing timestamps inside (0, duration). Without one it is a
// ModeOrdinal schedule; if hints.FrameCount is unknown the points are left
// empty and the caller must count frames and call Resolve.
func Plan(duration opt.Value[float64], count int, hints Hints) (Schedule, error) {
	if count < 1 {
		return Schedule{}, fmt.Errorf("%w: %d", ErrInvalidThumbnailCount, count)
	}

	if d, ok := duration.Get(); ok && d > 0 {
		mode := ModeSeek
		if hints.Overridden || hints.FrameByFrame {
			mode = ModeSequential
		}
		s := Schedule{Mode: mode, Count: count, Duration: duration}
		for i, t := range Timestamps(d, count) {
			s.Points = append(s.Points, Point{Slot: i, Seconds: opt.Some(t)})
		}
		return s, nil
	}

	if hints.RequireTimestamps {
		return Schedule{}, ErrDurationUnavailable
	}
	s := Schedule{Mode: ModeOrdinal, Count: count, frameRate: hints.FrameRate}
	if n, ok := hints.FrameCount.Get(); ok {
		return s.Resolve(n)
	}
	return s, nil
}

// Resolve fills an ordinal schedule from the stream's frame count.
func (s Schedule) Resolve(frames int64) (Schedule, error) {
	if s.Mode != ModeOrdinal {
		return s, nil
	}
	if frames < 1 {
		return s, fmt.Errorf("%w: stream has no frames", ErrDurationUnavailable)
	}
	points := make([]Point, 0, s.Count)
	for i, n := range Ordinals(frames, s.Count) {
		p := Point{Slot: i, Frame: opt.Some(n)}
		if fps, ok := s.frameRate.Get(); ok && fps > 0 {
			p.Seconds = opt.Some(float64(n) / fps)
		}
		points = append(points, p)
	}
	s.Points = points
	s.Frames = opt.Some(frames)
	if fps, ok := s.frameRate.Get(); ok && fps > 0 {
		s.Duration = opt.Some(float64(frames) / fps)
	}
	return s, nil
}

// Timestamps returns the midpoints of count equal divisions of
// (0, duration).
func Timestamps(duration float64, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = (float64(i) + 0.5) * duration / float64(count)
	}
	return out
}

// Ordinals spreads count frame ordinals over total frames the same way
// Timestamps spreads seconds. When total < count the ordinals are pushed
// apart to stay strictly increasing and the last ones run past the end of
// the stream; their extraction fails and the slots become placeholders.
func Ordinals(total int64, count int) []int64 {
	out := make([]int64, count)
	for i := range out {
		n := int64((float64(i) + 0.5) * float64(total) / float64(count))
		if i > 0 && n <= out[i-1] {
			n = out[i-1] + 1
		}
		out[i] = n
	}
	return out
}
