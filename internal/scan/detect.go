// Package scan classifies a video stream as progressive, interlaced or
// telecined from a short run of per-frame interlace flags.
//
// The classifier is a heuristic, not a pulldown cadence matcher. Native
// interlaced material flags nearly every frame; telecined material mixes
// flagged and unflagged frames. Telecined therefore means "mixed signal,
// likely telecined".
package scan

import (
	"iter"

	"github.com/backmassage/storyboard/internal/metadata"
	"github.com/backmassage/storyboard/internal/probe"
)

// InterlacedThreshold is the fraction of interlaced-flagged frames at or
// above which a sample is classified Interlaced rather than Telecined.
const InterlacedThreshold = 0.9

// Tally counts the flags of a frame sample.
type Tally struct {
	Frames      int
	Interlaced  int
	TopFirst    int // Among interlaced frames.
	BottomFirst int // Among interlaced frames.
}

// Add records one frame.
func (t *Tally) Add(f probe.FrameFlags) {
	t.Frames++
	if !f.Interlaced {
		return
	}
	t.Interlaced++
	if f.TopFieldFirst {
		t.TopFirst++
	} else {
		t.BottomFirst++
	}
}

// Classify maps the tally to a scan type.
func (t Tally) Classify() metadata.ScanType {
	switch {
	case t.Frames == 0:
		return metadata.Unknown
	case t.Interlaced == 0:
		return metadata.Progressive
	case float64(t.Interlaced)/float64(t.Frames) >= InterlacedThreshold:
		if t.BottomFirst > t.TopFirst {
			return metadata.Interlaced(metadata.BottomFirst)
		}
		return metadata.Interlaced(metadata.TopFirst)
	}
	return metadata.Telecined
}

// Detect consumes frames once and classifies them.
func Detect(frames iter.Seq[probe.FrameFlags]) metadata.ScanType {
	return Count(frames).Classify()
}

// Count tallies a frame sequence.
func Count(frames iter.Seq[probe.FrameFlags]) Tally {
	var t Tally
	if frames == nil {
		return t
	}
	for f := range frames {
		t.Add(f)
	}
	return t
}
