package probe

import (
	"strings"

	"github.com/backmassage/storyboard/internal/opt"
)

// Tags holds a probe entry's tag dictionary. ffprobe preserves the case the
// muxer wrote, so lookups try each spelling given.
type Tags map[string]string

// Lookup returns the first non-empty tag among keys.
func (t Tags) Lookup(keys ...string) opt.Value[string] {
	for _, k := range keys {
		if v := strings.TrimSpace(t[k]); v != "" && v != sentinelNA {
			return opt.Some(v)
		}
	}
	return opt.None[string]()
}

// FormatRecord is the container-level probe entry. Every field ffprobe may
// omit or report as "N/A" is an optional value.
type FormatRecord struct {
	Filename       string
	NbStreams      int
	FormatName     opt.Value[string]
	FormatLongName opt.Value[string]
	Duration       opt.Value[float64] // Seconds.
	Size           opt.Value[int64]   // Bytes.
	BitRate        opt.Value[int64]   // Bits per second.
	Tags           Tags
}

// StreamRecord is one per-stream probe entry, in container order.
type StreamRecord struct {
	Index     int
	CodecType string // "video", "audio", "subtitle", "data", ...; "" when missing.

	CodecName      opt.Value[string]
	CodecLongName  opt.Value[string]
	CodecTagString opt.Value[string]
	Profile        opt.Value[string] // Numeric profiles are kept as their decimal text.
	Level          opt.Value[int]

	// Video.
	Width              opt.Value[int]
	Height             opt.Value[int]
	SampleAspectRatio  opt.Value[string]
	DisplayAspectRatio opt.Value[string]
	AvgFrameRate       opt.Value[string]
	RFrameRate         opt.Value[string]
	FieldOrder         opt.Value[string]
	AttachedPic        bool

	// Audio.
	Channels      opt.Value[int]
	ChannelLayout opt.Value[string]
	SampleRate    opt.Value[int]

	Duration opt.Value[float64]
	NbFrames opt.Value[int64]
	BitRate  opt.Value[int64]
	Tags     Tags
}

// Result is the parsed output of one -show_format -show_streams call.
type Result struct {
	Format  FormatRecord
	Streams []StreamRecord
}
