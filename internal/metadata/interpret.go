package metadata

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/backmassage/storyboard/internal/opt"
	"github.com/backmassage/storyboard/internal/probe"
)

// ErrMalformedProbeData is returned when the container record lacks a
// format name. It is the only field whose absence is fatal.
var ErrMalformedProbeData = errors.New("malformed probe data")

// InterpretOptions carries what the probe records alone cannot supply.
type InterpretOptions struct {
	Path string

	// Size from the filesystem, used when the container reports none.
	Size opt.Value[int64]

	// DurationOverride replaces the probed duration (and marks it
	// overridden) when present.
	DurationOverride opt.Value[float64]

	// OnUnsupportedCodec, when set, is called for each stream whose codec
	// has no table entry and is labelled verbatim.
	OnUnsupportedCodec func(index int, codecName string)
}

// Interpret turns raw probe records into a Video. Every missing field other
// than the format name degrades to absent instead of failing.
func Interpret(format probe.FormatRecord, streams []probe.StreamRecord, opts InterpretOptions) (*Video, error) {
	path := opts.Path
	if path == "" {
		path = format.Filename
	}
	formatName, ok := format.FormatName.Get()
	if !ok {
		return nil, fmt.Errorf("%w: %s: no container format name", ErrMalformedProbeData, filepath.Base(path))
	}

	v := NewVideo(path)
	v.FormatName = formatName
	v.Format = containerName(formatName, format, path)
	v.Title = format.Tags.Lookup("title", "TITLE")

	v.Size = format.Size
	if !v.Size.Present() {
		v.Size = opts.Size
	}

	if d, ok := format.Duration.Get(); ok && d > 0 && !math.IsInf(d, 0) {
		v.Duration = opt.Some(d)
	}
	if d, ok := opts.DurationOverride.Get(); ok && d > 0 {
		v.Duration = opt.Some(d)
		v.DurationOverridden = true
	}

	byPosition := hasDuplicateIndex(streams)
	for i, rec := range streams {
		if byPosition {
			rec.Index = i
		}

		s, supported := interpretStream(rec)
		if !supported && opts.OnUnsupportedCodec != nil {
			if name, ok := rec.CodecName.Get(); ok {
				opts.OnUnsupportedCodec(rec.Index, name)
			}
		}
		v.Streams = append(v.Streams, s)
	}

	v.BitRate = overallBitRate(format, v.Streams)
	return v, nil
}

// hasDuplicateIndex reports whether two records claim the same index. The
// indices are then unusable and every stream is numbered by its position.
func hasDuplicateIndex(streams []probe.StreamRecord) bool {
	seen := make(map[int]bool, len(streams))
	for _, rec := range streams {
		if seen[rec.Index] {
			return true
		}
		seen[rec.Index] = true
	}
	return false
}

func interpretStream(rec probe.StreamRecord) (Stream, bool) {
	switch rec.CodecType {
	case "video":
		return interpretVideo(rec)
	case "audio":
		return interpretAudio(rec)
	case "subtitle":
		label, supported := subtitleLabel(rec)
		return &SubtitleStream{
			index:     rec.Index,
			Codec:     label,
			CodecName: rec.CodecName.OrElse(""),
			Language:  normalizeLanguage(rec.Tags.Lookup("language", "LANGUAGE")),
		}, supported
	}
	return &DataStream{index: rec.Index, CodecType: rec.CodecType}, true
}

func interpretVideo(rec probe.StreamRecord) (*VideoStream, bool) {
	label, profile, supported := codecLabel(videoCodecs, rec)
	vs := &VideoStream{
		index:     rec.Index,
		Codec:     label,
		CodecName: rec.CodecName.OrElse(""),
		Profile:   profile,
		Width:     rec.Width.OrElse(0),
		Height:    rec.Height.OrElse(0),
		BitRate:   positive(rec.BitRate),
		CoverArt:  rec.AttachedPic,
	}
	vs.DAR = displayAspectRatio(rec, vs.Width, vs.Height)
	vs.FrameRate = frameRate(rec)
	vs.DeclaredScan = declaredScan(rec)
	return vs, supported
}

// declaredScan maps the field_order declaration to a scan type. Telecine
// cannot be declared, so the result is Progressive or Interlaced.
func declaredScan(rec probe.StreamRecord) opt.Value[ScanType] {
	interlaced, topFirst, known := rec.FieldOrderHint()
	switch {
	case !known:
		return opt.None[ScanType]()
	case !interlaced:
		return opt.Some(Progressive)
	case topFirst:
		return opt.Some(Interlaced(TopFirst))
	}
	return opt.Some(Interlaced(BottomFirst))
}

func interpretAudio(rec probe.StreamRecord) (*AudioStream, bool) {
	label, profile, supported := codecLabel(audioCodecs, rec)
	return &AudioStream{
		index:         rec.Index,
		Codec:         label,
		CodecName:     rec.CodecName.OrElse(""),
		Profile:       profile,
		ChannelLayout: rec.ChannelLayout.OrElse(""),
		Channels:      rec.Channels.OrElse(0),
		SampleRate:    positiveInt(rec.SampleRate),
		BitRate:       positive(rec.BitRate),
		Language:      normalizeLanguage(rec.Tags.Lookup("language", "LANGUAGE")),
	}, supported
}

// displayAspectRatio prefers the explicit DAR, then derives one from the
// pixel dimensions and sample aspect ratio, then from the pixel dimensions
// alone. Unknown dimensions leave it absent.
func displayAspectRatio(rec probe.StreamRecord, w, h int) opt.Value[Rational] {
	if s, ok := rec.DisplayAspectRatio.Get(); ok {
		if r, ok := ParseRational(s); ok {
			return opt.Some(r)
		}
	}
	if w <= 0 || h <= 0 {
		return opt.None[Rational]()
	}
	if s, ok := rec.SampleAspectRatio.Get(); ok {
		if sar, ok := ParseRational(s); ok {
			if r, ok := NewRational(int64(w)*sar.Num, int64(h)*sar.Den); ok {
				return opt.Some(r)
			}
		}
	}
	r, _ := NewRational(int64(w), int64(h))
	return opt.Some(r)
}

// frameRate prefers the signalled average rate, then the rate implied by
// the frame count over the stream duration, then the base rate.
func frameRate(rec probe.StreamRecord) opt.Value[Rational] {
	if s, ok := rec.AvgFrameRate.Get(); ok {
		if r, ok := ParseRational(s); ok {
			return opt.Some(r)
		}
	}
	n, okN := rec.NbFrames.Get()
	d, okD := rec.Duration.Get()
	if okN && okD && n > 0 && d > 0 {
		if r, ok := NewRational(n*1000, int64(math.Round(d*1000))); ok {
			return opt.Some(r)
		}
	}
	if s, ok := rec.RFrameRate.Get(); ok {
		if r, ok := ParseRational(s); ok {
			return opt.Some(r)
		}
	}
	return opt.None[Rational]()
}

// overallBitRate uses the container's own figure when it has one, else the
// sum of the per-stream rates that are known, else absent.
func overallBitRate(format probe.FormatRecord, streams []Stream) opt.Value[int64] {
	if br, ok := positive(format.BitRate).Get(); ok {
		return opt.Some(br)
	}
	var sum int64
	found := false
	for _, s := range streams {
		var br opt.Value[int64]
		switch st := s.(type) {
		case *VideoStream:
			br = st.BitRate
		case *AudioStream:
			br = st.BitRate
		}
		if n, ok := br.Get(); ok {
			sum += n
			found = true
		}
	}
	if !found {
		return opt.None[int64]()
	}
	return opt.Some(sum)
}

// normalizeLanguage maps a language tag to its ISO 639-2 code ("en" and
// "eng" both become "eng"). Tags that do not parse are kept verbatim.
func normalizeLanguage(tag opt.Value[string]) opt.Value[string] {
	raw, ok := tag.Get()
	if !ok {
		return tag
	}
	base, err := language.ParseBase(raw)
	if err != nil {
		return tag
	}
	if iso3 := base.ISO3(); iso3 != "" {
		return opt.Some(iso3)
	}
	return tag
}

func positive(v opt.Value[int64]) opt.Value[int64] {
	if n, ok := v.Get(); ok && n > 0 {
		return v
	}
	return opt.None[int64]()
}

func positiveInt(v opt.Value[int]) opt.Value[int] {
	if n, ok := v.Get(); ok && n > 0 {
		return v
	}
	return opt.None[int]()
}
