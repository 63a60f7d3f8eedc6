package metadata

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/backmassage/storyboard/internal/display"
	"github.com/backmassage/storyboard/internal/opt"
)

// Rational is a reduced ratio such as a display aspect ratio or a frame rate.
type Rational struct {
	Num, Den int64
}

// NewRational returns num/den in lowest terms. ok is false when either
// term is non-positive.
func NewRational(num, den int64) (Rational, bool) {
	if num <= 0 || den <= 0 {
		return Rational{}, false
	}
	g := gcd(num, den)
	return Rational{Num: num / g, Den: den / g}, true
}

// ParseRational parses "N/D" or "N:D". Zero or negative terms ("0/0",
// "0:1") are treated as absent.
func ParseRational(s string) (Rational, bool) {
	sep := strings.IndexAny(s, "/:")
	if sep < 0 {
		return Rational{}, false
	}
	num, err1 := strconv.ParseInt(strings.TrimSpace(s[:sep]), 10, 64)
	den, err2 := strconv.ParseInt(strings.TrimSpace(s[sep+1:]), 10, 64)
	if err1 != nil || err2 != nil {
		return Rational{}, false
	}
	return NewRational(num, den)
}

// Float returns the ratio as a float.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String renders the ratio as "N:D".
func (r Rational) String() string {
	return fmt.Sprintf("%d:%d", r.Num, r.Den)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// StreamKind is the variant of a Stream.
type StreamKind int

const (
	KindData StreamKind = iota
	KindVideo
	KindAudio
	KindSubtitle
)

// Stream is one entry of a container, in container order.
type Stream interface {
	Index() int
	Kind() StreamKind
	// Summary is the one-line description used in reports.
	Summary() string
}

// VideoStream describes a video stream.
type VideoStream struct {
	index     int
	Codec     string // Human label including profile and level.
	CodecName string // Raw ffprobe codec_name; empty when missing.
	Profile   string // Human profile label; empty when missing.
	Width     int
	Height    int
	DAR       opt.Value[Rational]
	FrameRate opt.Value[Rational]
	ScanType  ScanType
	BitRate   opt.Value[int64]
	CoverArt  bool

	// DeclaredScan is what the container's field_order claims. It is
	// advisory; ScanType comes from the frames themselves.
	DeclaredScan opt.Value[ScanType]
}

func (s *VideoStream) Index() int       { return s.index }
func (s *VideoStream) Kind() StreamKind { return KindVideo }

// Dimensions returns "WxH", or "" when either dimension is unknown.
func (s *VideoStream) Dimensions() string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s *VideoStream) Summary() string {
	var b strings.Builder
	b.WriteString("Video, ")
	b.WriteString(s.Codec)
	if dim := s.Dimensions(); dim != "" {
		b.WriteString(", " + dim)
		if dar, ok := s.DAR.Get(); ok {
			b.WriteString(" (DAR " + dar.String() + ")")
		}
	}
	if fr, ok := s.FrameRate.Get(); ok {
		b.WriteString(", " + display.FormatFrameRate(fr.Float()))
	}
	if br, ok := s.BitRate.Get(); ok {
		b.WriteString(", " + display.FormatBitRate(br))
	}
	return b.String()
}

// AudioStream describes an audio stream.
type AudioStream struct {
	index         int
	Codec         string
	CodecName     string
	Profile       string
	ChannelLayout string
	Channels      int
	SampleRate    opt.Value[int]
	BitRate       opt.Value[int64]
	Language      opt.Value[string]
}

func (s *AudioStream) Index() int       { return s.index }
func (s *AudioStream) Kind() StreamKind { return KindAudio }

func (s *AudioStream) Summary() string {
	var b strings.Builder
	b.WriteString("Audio")
	if lang, ok := s.Language.Get(); ok {
		b.WriteString(" (" + lang + ")")
	}
	b.WriteString(", " + s.Codec)
	if sr, ok := s.SampleRate.Get(); ok {
		fmt.Fprintf(&b, ", %d Hz", sr)
	}
	switch {
	case s.ChannelLayout != "":
		b.WriteString(", " + s.ChannelLayout)
	case s.Channels > 0:
		fmt.Fprintf(&b, ", %d channels", s.Channels)
	}
	if br, ok := s.BitRate.Get(); ok {
		b.WriteString(", " + display.FormatBitRate(br))
	}
	return b.String()
}

// SubtitleStream describes a subtitle stream.
type SubtitleStream struct {
	index     int
	Codec     string
	CodecName string
	Language  opt.Value[string]
}

func (s *SubtitleStream) Index() int       { return s.index }
func (s *SubtitleStream) Kind() StreamKind { return KindSubtitle }

func (s *SubtitleStream) Summary() string {
	if lang, ok := s.Language.Get(); ok {
		return "Subtitle (" + lang + "), " + s.Codec
	}
	return "Subtitle, " + s.Codec
}

// DataStream stands in for any other stream (data, attachment, unknown) so
// that stream indices keep matching container positions.
type DataStream struct {
	index     int
	CodecType string
}

func (s *DataStream) Index() int       { return s.index }
func (s *DataStream) Kind() StreamKind { return KindData }
func (s *DataStream) Summary() string  { return "Data" }

// Video is the metadata of one input file. It is built by [Interpret],
// enriched once by [Video.SetScanType], and read-only afterwards apart from
// the memoized digest.
type Video struct {
	Path               string
	Filename           string
	Size               opt.Value[int64]
	Format             string // Human container name.
	FormatName         string // Raw ffprobe format_name.
	Duration           opt.Value[float64]
	DurationOverridden bool
	BitRate            opt.Value[int64]
	Title              opt.Value[string]
	Streams            []Stream

	digestMu sync.Mutex
	digests  map[DigestAlgo]string
}

// NewVideo returns an empty Video for path.
func NewVideo(path string) *Video {
	return &Video{Path: path, Filename: filepath.Base(path)}
}

// PrimaryVideo returns the first video stream that is not cover art.
func (v *Video) PrimaryVideo() (*VideoStream, bool) {
	for _, s := range v.Streams {
		if vs, ok := s.(*VideoStream); ok && !vs.CoverArt {
			return vs, true
		}
	}
	return nil, false
}

// SetScanType records the detected scan type on the primary video stream.
func (v *Video) SetScanType(st ScanType) {
	if vs, ok := v.PrimaryVideo(); ok {
		vs.ScanType = st
	}
}
