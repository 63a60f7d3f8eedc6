package metadata

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/storyboard/internal/probe"
)

// containerNames maps ffprobe format_name values to display names.
var containerNames = map[string]string{
	"aac":                     "Raw ADTS AAC",
	"ac3":                     "Raw AC-3",
	"aiff":                    "Audio Interchange File Format (AIFF)",
	"asf":                     "Advanced Systems Format",
	"avi":                     "Audio Video Interleaved",
	"flac":                    "Native FLAC",
	"flv":                     "Flash video",
	"jpeg_pipe":               "JPEG",
	"matroska,webm":           "Matroska",
	"mp3":                     "MP3",
	"mpeg":                    "MPEG program stream",
	"mpegts":                  "MPEG transport stream",
	"mpegvideo":               "Raw MPEG video",
	"mov,mp4,m4a,3gp,3g2,mj2": "MPEG-4 Part 14",
	"ogg":                     "Ogg",
	"rm":                      "RealMedia",
	"png_pipe":                "PNG",
}

// containerByExtension subdivides format names that ffprobe shares across
// several containers.
var containerByExtension = map[string]map[string]string{
	"mov,mp4,m4a,3gp,3g2,mj2": {
		"mov":  "QuickTime movie",
		"qt":   "QuickTime movie",
		"3gp":  "3GPP",
		"3g2":  "3GPP2",
		"mj2":  "Motion JPEG 2000",
		"mjp2": "Motion JPEG 2000",
	},
	"matroska,webm": {"webm": "WebM"},
	"rm":            {"rmvb": "RealMedia Variable Bitrate (RMVB)"},
}

// containerName resolves the display name of the container. Unknown
// formats fall back to format_long_name, then the upper-case extension,
// then the raw format name.
func containerName(formatName string, f probe.FormatRecord, path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	if name, ok := containerNames[formatName]; ok {
		if sub, ok := containerByExtension[formatName][ext]; ok {
			return sub
		}
		if formatName == "mov,mp4,m4a,3gp,3g2,mj2" && ext != "" {
			return name + " (" + strings.ToUpper(ext) + ")"
		}
		return name
	}
	if long, ok := f.FormatLongName.Get(); ok {
		return long
	}
	if ext != "" {
		return strings.ToUpper(ext)
	}
	return formatName
}
