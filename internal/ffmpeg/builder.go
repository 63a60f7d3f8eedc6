package ffmpeg

import (
	"fmt"
	"strconv"
)

// Mode is how ffmpeg reaches the requested frame.
type Mode int

const (
	// InputSeek seeks the demuxer before decoding (-ss before -i). Fast,
	// relies on the container index.
	InputSeek Mode = iota
	// OutputSeek decodes from the start and drops frames until the
	// timestamp (-ss after -i). Slow, tolerates broken indexes.
	OutputSeek
	// SelectFrame decodes from the start and keeps the frame with the
	// given ordinal.
	SelectFrame
)

// Pipe codecs accepted by Request.Codec.
const (
	CodecPNG = "png"
	CodecBMP = "bmp"
)

// Request describes one frame capture.
type Request struct {
	Path        string
	StreamIndex int
	Mode        Mode
	Seconds     float64 // InputSeek and OutputSeek.
	Frame       int64   // SelectFrame.
	Codec       string  // CodecPNG (default) or CodecBMP.
	Deinterlace bool
}

// Position renders the requested position for messages.
func (r Request) Position() string {
	if r.Mode == SelectFrame {
		return "frame " + strconv.FormatInt(r.Frame, 10)
	}
	return fmt.Sprintf("%.3fs", r.Seconds)
}

func (r Request) codec() string {
	if r.Codec == CodecBMP {
		return CodecBMP
	}
	return CodecPNG
}

// Build constructs the ffmpeg argument slice (including the binary) for a
// capture. The retry state, when non-nil, may enable the timestamp fix.
func Build(bin string, req Request, rs *RetryState) []string {
	args := make([]string, 0, 32)
	args = append(args, bin, "-hide_banner", "-nostdin", "-loglevel", "error")

	if rs != nil && rs.TimestampFix {
		args = append(args, "-fflags", "+genpts+discardcorrupt")
	}

	seek := strconv.FormatFloat(req.Seconds, 'f', 3, 64)
	if req.Mode == InputSeek {
		args = append(args, "-ss", seek)
	}
	args = append(args, "-i", req.Path)
	if req.Mode == OutputSeek {
		args = append(args, "-ss", seek)
	}

	args = append(args, "-map", fmt.Sprintf("0:%d", req.StreamIndex))
	if vf := filterChain(req); vf != "" {
		args = append(args, "-vf", vf)
	}
	if req.Mode == SelectFrame {
		args = append(args, "-fps_mode", "passthrough")
	}

	args = append(args,
		"-an", "-sn", "-dn",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", req.codec(),
		"-",
	)
	return args
}

func filterChain(req Request) string {
	var vf string
	if req.Mode == SelectFrame {
		vf = fmt.Sprintf(`select=eq(n\,%d)`, req.Frame)
	}
	if req.Deinterlace {
		if vf != "" {
			vf += ","
		}
		vf += "yadif"
	}
	return vf
}
