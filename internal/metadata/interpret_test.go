package metadata

import (
	"errors"
	"testing"

	"github.com/backmassage/storyboard/internal/opt"
	"github.com/backmassage/storyboard/internal/probe"
)

func clipFormat() probe.FormatRecord {
	return probe.FormatRecord{
		Filename:   "/media/clip.mkv",
		FormatName: opt.Some("matroska,webm"),
		Duration:   opt.Some(2.0),
		Size:       opt.Some[int64](4842),
	}
}

func clipVideo() probe.StreamRecord {
	return probe.StreamRecord{
		Index:        0,
		CodecType:    "video",
		CodecName:    opt.Some("h264"),
		Width:        opt.Some(128),
		Height:       opt.Some(72),
		AvgFrameRate: opt.Some("25/1"),
	}
}

func TestInterpret_Clip(t *testing.T) {
	v, err := Interpret(clipFormat(), []probe.StreamRecord{clipVideo()}, InterpretOptions{})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if v.Filename != "clip.mkv" {
		t.Errorf("Filename = %q, want clip.mkv", v.Filename)
	}
	if v.Format != "Matroska" {
		t.Errorf("Format = %q, want Matroska", v.Format)
	}
	if d, _ := v.Duration.Get(); d != 2.0 {
		t.Errorf("Duration = %v, want 2", v.Duration)
	}
	if v.BitRate.Present() {
		t.Errorf("BitRate = %v, want absent", v.BitRate)
	}
	vs, ok := v.PrimaryVideo()
	if !ok {
		t.Fatal("no primary video")
	}
	if got := vs.DAR.String(); got != "16:9" {
		t.Errorf("DAR = %q, want 16:9", got)
	}
	if got := vs.Summary(); got != "Video, H.264, 128x72 (DAR 16:9), 25 fps" {
		t.Errorf("Summary = %q", got)
	}
}

func TestInterpret_MissingFormatName(t *testing.T) {
	f := clipFormat()
	f.FormatName = opt.None[string]()
	_, err := Interpret(f, nil, InterpretOptions{})
	if !errors.Is(err, ErrMalformedProbeData) {
		t.Fatalf("err = %v, want ErrMalformedProbeData", err)
	}
}

func TestInterpret_NothingButFormatName(t *testing.T) {
	f := probe.FormatRecord{FormatName: opt.Some("mystery")}
	streams := []probe.StreamRecord{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio"},
		{Index: 2, CodecType: "subtitle"},
		{Index: 3},
	}
	v, err := Interpret(f, streams, InterpretOptions{Path: "noext"})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if v.Format != "mystery" {
		t.Errorf("Format = %q, want mystery", v.Format)
	}
	if v.Duration.Present() || v.Size.Present() || v.BitRate.Present() {
		t.Errorf("expected absent duration/size/bitrate, got %v %v %v", v.Duration, v.Size, v.BitRate)
	}
	want := []string{"Video, unknown codec", "Audio, unknown codec", "Subtitle, unknown codec", "Data"}
	for i, s := range v.Streams {
		if s.Index() != i {
			t.Errorf("stream %d index = %d", i, s.Index())
		}
		if got := s.Summary(); got != want[i] {
			t.Errorf("stream %d Summary = %q, want %q", i, got, want[i])
		}
	}
	// Report must still render.
	if lines := v.ReportLines(nil); len(lines) == 0 {
		t.Error("empty report")
	}
}

func TestInterpret_StreamIndices(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		want    []int
	}{
		{"in order", []int{0, 1, 2}, []int{0, 1, 2}},
		{"sparse but unique", []int{0, 2, 5}, []int{0, 2, 5}},
		{"duplicate then taken position", []int{1, 1, 0}, []int{0, 1, 2}},
		{"all equal", []int{0, 0, 0}, []int{0, 1, 2}},
	}
	kinds := []string{"video", "audio", "subtitle"}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var streams []probe.StreamRecord
			for i, idx := range tc.indices {
				streams = append(streams, probe.StreamRecord{Index: idx, CodecType: kinds[i%len(kinds)]})
			}
			v, err := Interpret(clipFormat(), streams, InterpretOptions{})
			if err != nil {
				t.Fatalf("Interpret: %v", err)
			}
			seen := make(map[int]bool)
			for i, s := range v.Streams {
				if s.Index() != tc.want[i] {
					t.Errorf("stream %d index = %d, want %d", i, s.Index(), tc.want[i])
				}
				if seen[s.Index()] {
					t.Errorf("index %d used twice", s.Index())
				}
				seen[s.Index()] = true
			}
		})
	}
}

func TestInterpret_DeclaredScan(t *testing.T) {
	tests := []struct {
		fieldOrder opt.Value[string]
		want       opt.Value[ScanType]
	}{
		{opt.Some("progressive"), opt.Some(Progressive)},
		{opt.Some("tt"), opt.Some(Interlaced(TopFirst))},
		{opt.Some("bt"), opt.Some(Interlaced(BottomFirst))},
		{opt.Some("unknown"), opt.None[ScanType]()},
		{opt.None[string](), opt.None[ScanType]()},
	}
	for _, tc := range tests {
		rec := clipVideo()
		rec.FieldOrder = tc.fieldOrder
		v, err := Interpret(clipFormat(), []probe.StreamRecord{rec}, InterpretOptions{})
		if err != nil {
			t.Fatalf("Interpret: %v", err)
		}
		vs, _ := v.PrimaryVideo()
		if vs.DeclaredScan != tc.want {
			t.Errorf("field_order %v: DeclaredScan = %v, want %v", tc.fieldOrder, vs.DeclaredScan, tc.want)
		}
		if vs.ScanType != Unknown {
			t.Errorf("field_order %v: ScanType = %v, want Unknown until detected", tc.fieldOrder, vs.ScanType)
		}
	}
}

func TestInterpret_EmptyDurationString(t *testing.T) {
	res, err := probe.ParseJSON([]byte(`{"format":{"format_name":"mpegts","duration":""},"streams":[]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	v, err := Interpret(res.Format, res.Streams, InterpretOptions{Path: "a.ts"})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if v.Duration.Present() {
		t.Errorf("Duration = %v, want absent", v.Duration)
	}
	if v.Format != "MPEG transport stream" {
		t.Errorf("Format = %q", v.Format)
	}
}

func TestInterpret_DurationRules(t *testing.T) {
	tests := []struct {
		name       string
		probed     opt.Value[float64]
		override   opt.Value[float64]
		want       opt.Value[float64]
		overridden bool
	}{
		{"probed", opt.Some(10.0), opt.None[float64](), opt.Some(10.0), false},
		{"zero is absent", opt.Some(0.0), opt.None[float64](), opt.None[float64](), false},
		{"negative is absent", opt.Some(-3.0), opt.None[float64](), opt.None[float64](), false},
		{"override wins", opt.Some(10.0), opt.Some(42.5), opt.Some(42.5), true},
		{"override fills gap", opt.None[float64](), opt.Some(7.0), opt.Some(7.0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := clipFormat()
			f.Duration = tt.probed
			v, err := Interpret(f, nil, InterpretOptions{DurationOverride: tt.override})
			if err != nil {
				t.Fatalf("Interpret: %v", err)
			}
			if v.Duration != tt.want || v.DurationOverridden != tt.overridden {
				t.Errorf("Duration = %v (overridden %v), want %v (%v)",
					v.Duration, v.DurationOverridden, tt.want, tt.overridden)
			}
		})
	}
}

func TestInterpret_SizeFallback(t *testing.T) {
	f := clipFormat()
	f.Size = opt.None[int64]()
	v, err := Interpret(f, nil, InterpretOptions{Size: opt.Some[int64](99)})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if got := v.Size.OrElse(0); got != 99 {
		t.Errorf("Size = %d, want 99", got)
	}
}

func TestCodecLabel(t *testing.T) {
	tests := []struct {
		name string
		rec  probe.StreamRecord
		want string
	}{
		{"h264 named", probe.StreamRecord{CodecName: opt.Some("h264"), Profile: opt.Some("High"), Level: opt.Some(40)}, "H.264 (High Profile level 4.0)"},
		{"h264 numeric", probe.StreamRecord{CodecName: opt.Some("h264"), Profile: opt.Some("100"), Level: opt.Some(40)}, "H.264 (High Profile level 4.0)"},
		{"h264 no level", probe.StreamRecord{CodecName: opt.Some("h264"), Profile: opt.Some("Main")}, "H.264 (Main Profile)"},
		{"hevc", probe.StreamRecord{CodecName: opt.Some("hevc"), Profile: opt.Some("Main 10"), Level: opt.Some(120)}, "HEVC (Main 10 Profile level 4.0)"},
		{"mpeg2", probe.StreamRecord{CodecName: opt.Some("mpeg2video"), Profile: opt.Some("Main")}, "MPEG-2 Part 2 (Main Profile)"},
		{"mpeg4 numeric", probe.StreamRecord{CodecName: opt.Some("mpeg4"), Profile: opt.Some("0")}, "MPEG-4 Part 2 (Simple Profile)"},
		{"vp9", probe.StreamRecord{CodecName: opt.Some("vp9"), Profile: opt.Some("Profile 0")}, "VP9 (Profile 0)"},
		{"unknown profile verbatim", probe.StreamRecord{CodecName: opt.Some("h264"), Profile: opt.Some("999")}, "H.264 (999 Profile)"},
		{"no profile shown", probe.StreamRecord{CodecName: opt.Some("vp8"), Profile: opt.Some("1")}, "VP8"},
		{"unsupported long name", probe.StreamRecord{CodecName: opt.Some("prores"), CodecLongName: opt.Some("Apple ProRes")}, "Apple ProRes"},
		{"unsupported raw name", probe.StreamRecord{CodecName: opt.Some("prores")}, "prores"},
		{"missing", probe.StreamRecord{}, "unknown codec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := codecLabel(videoCodecs, tt.rec)
			if got != tt.want {
				t.Errorf("codecLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpret_UnsupportedCodecCallback(t *testing.T) {
	streams := []probe.StreamRecord{
		clipVideo(),
		{Index: 1, CodecType: "video", CodecName: opt.Some("prores"), CodecLongName: opt.Some("Apple ProRes")},
	}
	var got []string
	_, err := Interpret(clipFormat(), streams, InterpretOptions{
		OnUnsupportedCodec: func(index int, name string) { got = append(got, name) },
	})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if len(got) != 1 || got[0] != "prores" {
		t.Errorf("unsupported callbacks = %v, want [prores]", got)
	}
}

func TestDisplayAspectRatio(t *testing.T) {
	tests := []struct {
		name string
		rec  probe.StreamRecord
		w, h int
		want string
	}{
		{"explicit", probe.StreamRecord{DisplayAspectRatio: opt.Some("16:9")}, 1440, 1080, "16:9"},
		{"explicit zero ignored", probe.StreamRecord{DisplayAspectRatio: opt.Some("0:1")}, 1920, 1080, "16:9"},
		{"from sar", probe.StreamRecord{SampleAspectRatio: opt.Some("8:9")}, 720, 480, "4:3"},
		{"square pixels", probe.StreamRecord{}, 1280, 720, "16:9"},
		{"unknown dims", probe.StreamRecord{}, 0, 0, "<none>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := displayAspectRatio(tt.rec, tt.w, tt.h).String()
			if got != tt.want {
				t.Errorf("displayAspectRatio = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrameRate(t *testing.T) {
	tests := []struct {
		name string
		rec  probe.StreamRecord
		want string
	}{
		{"avg", probe.StreamRecord{AvgFrameRate: opt.Some("24000/1001"), RFrameRate: opt.Some("24/1")}, "24000:1001"},
		{"avg zero falls to count", probe.StreamRecord{AvgFrameRate: opt.Some("0/0"), NbFrames: opt.Some[int64](50), Duration: opt.Some(2.0)}, "25:1"},
		{"r_frame_rate last", probe.StreamRecord{AvgFrameRate: opt.Some("0/0"), RFrameRate: opt.Some("30/1")}, "30:1"},
		{"absent", probe.StreamRecord{}, "<none>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameRate(tt.rec).String(); got != tt.want {
				t.Errorf("frameRate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOverallBitRate(t *testing.T) {
	streams := []probe.StreamRecord{
		{Index: 0, CodecType: "video", CodecName: opt.Some("h264"), BitRate: opt.Some[int64](1000000)},
		{Index: 1, CodecType: "audio", CodecName: opt.Some("aac"), BitRate: opt.Some[int64](128000)},
		{Index: 2, CodecType: "audio", CodecName: opt.Some("aac")},
	}
	v, err := Interpret(clipFormat(), streams, InterpretOptions{})
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if got := v.BitRate.OrElse(0); got != 1128000 {
		t.Errorf("summed BitRate = %d, want 1128000", got)
	}

	f := clipFormat()
	f.BitRate = opt.Some[int64](5000000)
	v, _ = Interpret(f, streams, InterpretOptions{})
	if got := v.BitRate.OrElse(0); got != 5000000 {
		t.Errorf("container BitRate = %d, want 5000000", got)
	}
}

func TestAudioSummary(t *testing.T) {
	rec := probe.StreamRecord{
		Index:         1,
		CodecType:     "audio",
		CodecName:     opt.Some("aac"),
		Profile:       opt.Some("LC"),
		ChannelLayout: opt.Some("stereo"),
		Channels:      opt.Some(2),
		SampleRate:    opt.Some(48000),
		BitRate:       opt.Some[int64](128000),
		Tags:          probe.Tags{"language": "en"},
	}
	s, _ := interpretAudio(rec)
	want := "Audio (eng), AAC (Low-Complexity), 48000 Hz, stereo, 128 kb/s"
	if got := s.Summary(); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"en", "eng"},
		{"eng", "eng"},
		{"jpn", "jpn"},
		{"not a language", "not a language"},
	}
	for _, tt := range tests {
		if got := normalizeLanguage(opt.Some(tt.in)).OrElse(""); got != tt.want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if normalizeLanguage(opt.None[string]()).Present() {
		t.Error("normalizeLanguage(None) should stay absent")
	}
}

func TestSubtitleLabel(t *testing.T) {
	c608 := probe.StreamRecord{CodecType: "subtitle", CodecTagString: opt.Some("c608")}
	if got, _ := subtitleLabel(c608); got != "EIA-608" {
		t.Errorf("subtitleLabel(c608) = %q, want EIA-608", got)
	}
	srt := probe.StreamRecord{CodecType: "subtitle", CodecName: opt.Some("subrip")}
	if got, _ := subtitleLabel(srt); got != "SubRip" {
		t.Errorf("subtitleLabel(subrip) = %q, want SubRip", got)
	}
}

func TestContainerName(t *testing.T) {
	tests := []struct {
		formatName, path, want string
	}{
		{"matroska,webm", "a.mkv", "Matroska"},
		{"matroska,webm", "a.webm", "WebM"},
		{"mov,mp4,m4a,3gp,3g2,mj2", "a.mov", "QuickTime movie"},
		{"mov,mp4,m4a,3gp,3g2,mj2", "a.mp4", "MPEG-4 Part 14 (MP4)"},
		{"mov,mp4,m4a,3gp,3g2,mj2", "a.3gp", "3GPP"},
		{"rm", "a.rmvb", "RealMedia Variable Bitrate (RMVB)"},
		{"weird", "a.xyz", "XYZ"},
	}
	for _, tt := range tests {
		if got := containerName(tt.formatName, probe.FormatRecord{}, tt.path); got != tt.want {
			t.Errorf("containerName(%q, %q) = %q, want %q", tt.formatName, tt.path, got, tt.want)
		}
	}
	long := probe.FormatRecord{FormatLongName: opt.Some("Weird Format")}
	if got := containerName("weird", long, "a.xyz"); got != "Weird Format" {
		t.Errorf("containerName with long name = %q", got)
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"16:9", "16:9", true},
		{"1920/1080", "16:9", true},
		{"30000/1001", "30000:1001", true},
		{"0/0", "", false},
		{"0:1", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		r, ok := ParseRational(tt.in)
		if ok != tt.ok || (ok && r.String() != tt.want) {
			t.Errorf("ParseRational(%q) = %v, %v; want %q, %v", tt.in, r, ok, tt.want, tt.ok)
		}
	}
}
