package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/backmassage/storyboard/internal/metadata"
	"github.com/backmassage/storyboard/internal/probe"
)

// ErrNoVideoStream is returned by Detector.Detect for files without a
// (non cover-art) video stream; the scan type stays Unknown.
var ErrNoVideoStream = errors.New("no video stream")

// Detector samples a file's primary video stream through ffprobe and
// classifies it.
type Detector struct {
	FFprobeBin string
	SampleSize int // Frames classified after warmup; <= 0 uses probe.DefaultSampleSize.
}

// Detect samples the window starting at the temporal midpoint of v (or the
// start when the duration is unknown), records the result on v and returns
// it. A failed sample yields Unknown together with the sampler error.
func (d *Detector) Detect(ctx context.Context, v *metadata.Video) (metadata.ScanType, Tally, error) {
	vs, ok := v.PrimaryVideo()
	if !ok {
		return metadata.Unknown, Tally{}, ErrNoVideoStream
	}

	var start float64
	if dur, ok := v.Duration.Get(); ok {
		start = dur / 2
	}
	sampler := probe.NewFrameSampler(d.FFprobeBin, v.Path, vs.Index(), start)
	if d.SampleSize > 0 {
		sampler.Size = d.SampleSize
	}

	tally := Count(sampler.Frames(ctx))
	st := tally.Classify()
	v.SetScanType(st)
	if err := sampler.Err(); err != nil {
		return st, tally, fmt.Errorf("sample frames of %s: %w", v.Filename, err)
	}
	return st, tally, nil
}
