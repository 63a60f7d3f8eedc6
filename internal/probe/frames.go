package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strconv"
	"strings"
)

// FrameFlags is the interlace signalling of one decoded frame.
type FrameFlags struct {
	Interlaced    bool
	TopFieldFirst bool
}

// Default sampling window: a few frames are discarded after the seek so the
// decoder settles, then a bounded run is classified.
const (
	DefaultWarmup     = 4
	DefaultSampleSize = 40
)

// FrameSampler streams per-frame interlace flags from ffprobe -show_frames
// for a contiguous window of one video stream.
type FrameSampler struct {
	Bin         string
	Path        string
	StreamIndex int
	Start       float64 // Seek target in seconds; <= 0 reads from the beginning.
	Warmup      int
	Size        int

	err error
}

// NewFrameSampler returns a sampler over the default window starting at
// start seconds.
func NewFrameSampler(bin, path string, streamIndex int, start float64) *FrameSampler {
	return &FrameSampler{
		Bin:         bin,
		Path:        path,
		StreamIndex: streamIndex,
		Start:       start,
		Warmup:      DefaultWarmup,
		Size:        DefaultSampleSize,
	}
}

// Err reports why the last Frames sequence ended early, if it did.
// A sequence that stops because the consumer stopped has no error.
func (s *FrameSampler) Err() error { return s.err }

func (s *FrameSampler) args() []string {
	interval := "%+#" + strconv.Itoa(s.Warmup+s.Size)
	if s.Start > 0 {
		interval = fmt.Sprintf("%.3f%s", s.Start, interval)
	}
	return []string{
		"-v", "error",
		"-select_streams", strconv.Itoa(s.StreamIndex),
		"-read_intervals", interval,
		"-show_entries", "frame=interlaced_frame,top_field_first",
		"-print_format", "json",
		s.Path,
	}
}

// Frames returns a single-use sequence of frame flags. The ffprobe process
// starts on first iteration and is killed as soon as the consumer stops or
// Size frames past the warmup have been yielded.
func (s *FrameSampler) Frames(ctx context.Context) iter.Seq[FrameFlags] {
	used := false
	return func(yield func(FrameFlags) bool) {
		if used || s.Size <= 0 {
			return
		}
		used = true
		s.err = nil

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		cmd := exec.CommandContext(ctx, s.Bin, s.args()...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			s.err = err
			return
		}
		if err := cmd.Start(); err != nil {
			s.err = err
			return
		}
		defer func() {
			cancel()
			_ = cmd.Wait()
		}()

		seen, yielded := 0, 0
		err = decodeFrames(stdout, func(f FrameFlags) bool {
			seen++
			if seen <= s.Warmup {
				return true
			}
			if !yield(f) {
				return false
			}
			yielded++
			return yielded < s.Size
		})
		if err != nil && !errors.Is(err, errStopped) && ctx.Err() == nil {
			s.err = err
		}
	}
}

var errStopped = errors.New("stopped")

type wireFrame struct {
	InterlacedFrame int `json:"interlaced_frame"`
	TopFieldFirst   int `json:"top_field_first"`
}

// decodeFrames walks {"frames": [ {...}, ... ]} token by token so frames are
// handed out while ffprobe is still writing.
func decodeFrames(r io.Reader, fn func(FrameFlags) bool) error {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if key != "frames" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
			continue
		}
		if err := expectDelim(dec, '['); err != nil {
			return err
		}
		for dec.More() {
			var wf wireFrame
			if err := dec.Decode(&wf); err != nil {
				return err
			}
			f := FrameFlags{Interlaced: wf.InterlacedFrame == 1, TopFieldFirst: wf.TopFieldFirst == 1}
			if !fn(f) {
				return errStopped
			}
		}
		return expectDelim(dec, ']')
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("frame list: unexpected token %v", tok)
	}
	return nil
}

// CountFrames decodes the whole stream to count its frames. This is the
// slow path used only when no usable duration exists; it honours ctx so a
// long scan can be interrupted.
func CountFrames(ctx context.Context, ffprobeBin, path string, streamIndex int) (int64, error) {
	cmd := exec.CommandContext(ctx, ffprobeBin,
		"-v", "error",
		"-count_frames",
		"-select_streams", strconv.Itoa(streamIndex),
		"-show_entries", "stream=nb_read_frames",
		"-of", "default=nokey=1:noprint_wrappers=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: count frames: %s: %v", ErrProbeFailed, path, err)
	}
	return ParseFrameCount(string(out))
}

// ParseFrameCount reads the nb_read_frames value printed by CountFrames.
func ParseFrameCount(out string) (int64, error) {
	s := strings.TrimSpace(out)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: no frame count in %q", ErrProbeFailed, out)
	}
	return n, nil
}
