package ffmpeg

import (
	"context"
	"errors"
	"math"
)

// RetryAction identifies how a failed capture is retried.
type RetryAction int

const (
	RetryNone          RetryAction = iota
	RetryNearby                    // Capture a nearby position instead.
	RetryFixTimestamps             // Nearby position with +genpts+discardcorrupt.
)

const (
	maxAttempts = 2

	// Nudge applied to a timestamp on retry, capped by the slot spacing.
	nearbyOffset = 1.0
)

// RetryState tracks the retries of one storyboard slot. A slot is captured
// at most twice: the planned position, then one nearby position.
type RetryState struct {
	Attempt      int
	MaxAttempts  int
	TimestampFix bool

	// Spacing is the distance to the neighbouring slots (seconds, or frames
	// in SelectFrame mode). The nearby position stays within a quarter of
	// it so slots never swap order.
	Spacing float64

	// Limit is the end of the stream in the request's unit; 0 if unknown.
	Limit float64
}

// NewRetryState returns the retry state for a slot.
func NewRetryState(spacing, limit float64) *RetryState {
	return &RetryState{MaxAttempts: maxAttempts, Spacing: spacing, Limit: limit}
}

// Advance inspects a failed capture and returns the request to try next.
// It returns RetryNone once the attempt limit is reached or when the
// failure was a cancellation.
func (s *RetryState) Advance(req Request, err error) (Request, RetryAction) {
	s.Attempt++
	if s.Attempt >= s.MaxAttempts || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return req, RetryNone
	}

	var stderr string
	var ee *ExtractError
	if errors.As(err, &ee) {
		stderr = ee.Stderr
	}

	action := RetryNearby
	if !s.TimestampFix && MatchTimestampIssue(stderr) {
		s.TimestampFix = true
		action = RetryFixTimestamps
	}

	// Past the end of the stream: step back, never forward.
	backward := MatchEmptyOutput(stderr)
	if req.Mode == SelectFrame {
		step := int64(math.Max(1, math.Floor(s.Spacing/4)))
		if backward || (s.Limit > 0 && float64(req.Frame+step) >= s.Limit) {
			step = -step
		}
		if req.Frame+step >= 0 {
			req.Frame += step
		}
		return req, action
	}

	step := nearbyOffset
	if s.Spacing > 0 {
		step = math.Min(step, s.Spacing/4)
	}
	if backward || (s.Limit > 0 && req.Seconds+step >= s.Limit) {
		step = -step
	}
	if req.Seconds+step >= 0 {
		req.Seconds += step
	}
	return req, action
}
