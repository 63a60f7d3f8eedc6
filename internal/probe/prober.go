package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cast"

	"github.com/backmassage/storyboard/internal/opt"
)

// ErrProbeFailed is returned when ffprobe exits non-zero or prints
// something that is not a probe document.
var ErrProbeFailed = errors.New("ffprobe failed")

// sentinelNA is ffprobe's marker for a field it knows but cannot fill.
const sentinelNA = "N/A"

// Probe runs a single ffprobe JSON call against path and returns the
// parsed container and stream records.
func Probe(ctx context.Context, ffprobeBin, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, ffprobeBin,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrProbeFailed, path, msg)
	}

	res, err := ParseJSON(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProbeFailed, path, err)
	}
	return res, nil
}

// ParseJSON converts raw ffprobe JSON output into typed records.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	res := &Result{Format: convertFormat(raw.Format)}
	for i, s := range raw.Streams {
		res.Streams = append(res.Streams, convertStream(s, i))
	}
	return res, nil
}

// --- ffprobe JSON wire types ---

// Field values are decoded loosely: depending on the ffprobe version and
// the field, numbers arrive as JSON numbers or as strings.
type ffprobeOutput struct {
	Format  record   `json:"format"`
	Streams []record `json:"streams"`
}

type record map[string]any

// str returns the field as text, treating omission, null, "" and "N/A"
// as absent.
func (r record) str(key string) opt.Value[string] {
	v, ok := r[key]
	if !ok || v == nil {
		return opt.None[string]()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return opt.None[string]()
	}
	s = strings.TrimSpace(s)
	if s == "" || s == sentinelNA {
		return opt.None[string]()
	}
	return opt.Some(s)
}

func (r record) float(key string) opt.Value[float64] {
	s, ok := r.str(key).Get()
	if !ok {
		return opt.None[float64]()
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return opt.None[float64]()
	}
	return opt.Some(f)
}

func (r record) int64(key string) opt.Value[int64] {
	f, ok := r.float(key).Get()
	if !ok {
		return opt.None[int64]()
	}
	return opt.Some(int64(f))
}

func (r record) int(key string) opt.Value[int] {
	return opt.Map(r.int64(key), func(n int64) int { return int(n) })
}

func (r record) tags() Tags {
	raw, ok := r["tags"]
	if !ok || raw == nil {
		return Tags{}
	}
	m, err := cast.ToStringMapStringE(raw)
	if err != nil {
		return Tags{}
	}
	return Tags(m)
}

func (r record) disposition(key string) bool {
	d, err := cast.ToStringMapE(r["disposition"])
	if err != nil {
		return false
	}
	return cast.ToInt(d[key]) == 1
}

// --- Conversion from wire types to records ---

func convertFormat(f record) FormatRecord {
	filename, _ := f.str("filename").Get()
	return FormatRecord{
		Filename:       filename,
		NbStreams:      f.int("nb_streams").OrElse(0),
		FormatName:     f.str("format_name"),
		FormatLongName: f.str("format_long_name"),
		Duration:       f.float("duration"),
		Size:           f.int64("size"),
		BitRate:        f.int64("bit_rate"),
		Tags:           f.tags(),
	}
}

// convertStream falls back to the array position when ffprobe omits the
// index, which keeps indices unique.
func convertStream(s record, pos int) StreamRecord {
	codecType, _ := s.str("codec_type").Get()
	return StreamRecord{
		Index:              s.int("index").OrElse(pos),
		CodecType:          strings.ToLower(codecType),
		CodecName:          s.str("codec_name"),
		CodecLongName:      s.str("codec_long_name"),
		CodecTagString:     s.str("codec_tag_string"),
		Profile:            s.str("profile"),
		Level:              s.int("level"),
		Width:              s.int("width"),
		Height:             s.int("height"),
		SampleAspectRatio:  s.str("sample_aspect_ratio"),
		DisplayAspectRatio: s.str("display_aspect_ratio"),
		AvgFrameRate:       s.str("avg_frame_rate"),
		RFrameRate:         s.str("r_frame_rate"),
		FieldOrder:         s.str("field_order"),
		AttachedPic:        s.disposition("attached_pic"),
		Channels:           s.int("channels"),
		ChannelLayout:      s.str("channel_layout"),
		SampleRate:         s.int("sample_rate"),
		Duration:           s.float("duration"),
		NbFrames:           s.int64("nb_frames"),
		BitRate:            s.int64("bit_rate"),
		Tags:               s.tags(),
	}
}
