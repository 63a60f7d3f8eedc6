package metadata

import (
	"fmt"
	"strings"

	"github.com/backmassage/storyboard/internal/opt"
	"github.com/backmassage/storyboard/internal/probe"
)

// codecDescriptor is one entry of the codec dispatch table. Adding a codec
// means adding an entry; labelling never branches on codec names.
type codecDescriptor struct {
	Name string

	// Profiles maps raw profile identifiers (ffprobe's name or its numeric
	// id, as text) to labels. Identifiers not listed are used verbatim.
	Profiles map[string]string

	// ProfileFormat wraps the profile label, e.g. "%s Profile". Empty means
	// the codec's profile is not shown.
	ProfileFormat string

	// LevelDivisor converts ffprobe's integer level to the conventional
	// decimal level. Zero means no level suffix.
	LevelDivisor float64
}

var h264Profiles = map[string]string{
	"44":   "CAVLC 4:4:4 Intra",
	"66":   "Baseline",
	"578":  "Constrained Baseline",
	"77":   "Main",
	"88":   "Extended",
	"100":  "High",
	"110":  "High 10",
	"2158": "High 10 Intra",
	"122":  "High 4:2:2",
	"2170": "High 4:2:2 Intra",
	"244":  "High 4:4:4 Predictive",
	"2292": "High 4:4:4 Intra",
}

var hevcProfiles = map[string]string{
	"1": "Main",
	"2": "Main 10",
	"3": "Main Still Picture",
	"4": "Rext",
}

var mpeg2Profiles = map[string]string{
	"0": "4:2:2",
	"1": "High",
	"2": "Spatially Scalable",
	"3": "SNR Scalable",
	"4": "Main",
	"5": "Simple",
}

var mpeg4Profiles = map[string]string{
	"0":  "Simple Profile",
	"1":  "Simple Scalable Profile",
	"2":  "Core Profile",
	"3":  "Main Profile",
	"15": "Advanced Simple Profile",
}

var vp9Profiles = map[string]string{
	"0": "Profile 0",
	"1": "Profile 1",
	"2": "Profile 2",
	"3": "Profile 3",
}

var av1Profiles = map[string]string{
	"0": "Main",
	"1": "High",
	"2": "Professional",
}

var aacProfiles = map[string]string{
	"LC":       "Low-Complexity",
	"HE-AACv2": "HE-AAC v2",
	"0":        "Main",
	"1":        "Low-Complexity",
	"2":        "SSR",
	"3":        "LTP",
	"4":        "HE-AAC",
	"22":       "LD",
	"28":       "HE-AAC v2",
	"38":       "ELD",
}

var videoCodecs = map[string]codecDescriptor{
	"h264":       {Name: "H.264", Profiles: h264Profiles, ProfileFormat: "%s Profile", LevelDivisor: 10},
	"hevc":       {Name: "HEVC", Profiles: hevcProfiles, ProfileFormat: "%s Profile", LevelDivisor: 30},
	"av1":        {Name: "AV1", Profiles: av1Profiles, ProfileFormat: "%s Profile"},
	"mjpeg":      {Name: "Motion JPEG"},
	"mpeg1video": {Name: "MPEG-1 Part 2", Profiles: mpeg2Profiles, ProfileFormat: "%s Profile"},
	"mpeg2video": {Name: "MPEG-2 Part 2", Profiles: mpeg2Profiles, ProfileFormat: "%s Profile"},
	"mpeg4":      {Name: "MPEG-4 Part 2", Profiles: mpeg4Profiles, ProfileFormat: "%s"},
	"png":        {Name: "PNG"},
	"rv10":       {Name: "RealVideo 1.0"},
	"rv20":       {Name: "RealVideo 2.0"},
	"rv30":       {Name: "RealVideo 3.0"},
	"rv40":       {Name: "RealVideo 4.0"},
	"theora":     {Name: "Theora"},
	"vc1":        {Name: "VC-1", ProfileFormat: "%s Profile"},
	"vp8":        {Name: "VP8"},
	"vp9":        {Name: "VP9", Profiles: vp9Profiles, ProfileFormat: "%s"},
}

var audioCodecs = map[string]codecDescriptor{
	"aac":      {Name: "AAC", Profiles: aacProfiles, ProfileFormat: "%s"},
	"ac3":      {Name: "Dolby AC-3"},
	"eac3":     {Name: "Dolby Digital Plus"},
	"alac":     {Name: "Apple Lossless"},
	"cook":     {Name: "Cook (RealAudio G2)"},
	"dts":      {Name: "DTS", ProfileFormat: "%s"},
	"flac":     {Name: "FLAC (Free Lossless Audio Codec)"},
	"mp2":      {Name: "MP2"},
	"mp3":      {Name: "MP3"},
	"opus":     {Name: "Opus"},
	"ra_144":   {Name: "RealAudio 1.0"},
	"ra_288":   {Name: "RealAudio 2.0"},
	"ralf":     {Name: "RealAudio Lossless"},
	"real_144": {Name: "RealAudio 1.0"},
	"real_288": {Name: "RealAudio 2.0"},
	"truehd":   {Name: "Dolby TrueHD"},
	"vorbis":   {Name: "Vorbis"},
}

var subtitleCodecs = map[string]codecDescriptor{
	"ass":               {Name: "SubStation Alpha"},
	"ssa":               {Name: "SubStation Alpha"},
	"cc_dec":            {Name: "closed caption (EIA-608 / CEA-708)"},
	"dvb_subtitle":      {Name: "DVB subtitles"},
	"dvd_subtitle":      {Name: "DVD subtitles"},
	"hdmv_pgs_subtitle": {Name: "PGS"},
	"mov_text":          {Name: "MPEG-4 Timed Text"},
	"srt":               {Name: "SubRip"},
	"subrip":            {Name: "SubRip"},
	"webvtt":            {Name: "WebVTT"},
}

// codecLabel returns the human codec label and the profile label for a
// stream, consulting table. Codecs missing from the table fall back to
// codec_long_name, then codec_name; a stream with neither is
// "unknown codec". supported reports whether the table had an entry.
func codecLabel(table map[string]codecDescriptor, s probe.StreamRecord) (label, profile string, supported bool) {
	name, ok := s.CodecName.Get()
	if !ok {
		return "unknown codec", "", false
	}
	desc, ok := table[name]
	if !ok {
		return s.CodecLongName.OrElse(name), "", false
	}

	raw, ok := s.Profile.Get()
	if !ok || desc.ProfileFormat == "" {
		return desc.Name, "", true
	}
	profile = raw
	if mapped, ok := desc.Profiles[raw]; ok {
		profile = mapped
	}
	suffix := fmt.Sprintf(desc.ProfileFormat, profile)
	if lvl, ok := levelText(desc, s.Level); ok {
		suffix += " level " + lvl
	}
	return desc.Name + " (" + suffix + ")", profile, true
}

func levelText(desc codecDescriptor, level opt.Value[int]) (string, bool) {
	lvl, ok := level.Get()
	if !ok || desc.LevelDivisor == 0 || lvl <= 0 {
		return "", false
	}
	return fmt.Sprintf("%.1f", float64(lvl)/desc.LevelDivisor), true
}

// subtitleLabel handles the one subtitle quirk: closed captions carried in
// the video stream of MOV files have no codec_name, only the c608 tag.
func subtitleLabel(s probe.StreamRecord) (string, bool) {
	if !s.CodecName.Present() && strings.EqualFold(s.CodecTagString.OrElse(""), "c608") {
		return "EIA-608", true
	}
	label, _, supported := codecLabel(subtitleCodecs, s)
	return label, supported
}
