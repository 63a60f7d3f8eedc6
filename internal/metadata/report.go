package metadata

import (
	"fmt"
	"strings"

	"github.com/backmassage/storyboard/internal/display"
)

// labelWidth is the column at which report values start.
const labelWidth = 24

func field(label, value string) string {
	return fmt.Sprintf("%-*s%s", labelWidth, label+":", value)
}

// ReportLines returns the metadata report, one field per line. The same
// lines head a storyboard, so any change here shows up in both outputs.
// d is included when non-nil.
func (v *Video) ReportLines(d *Digest) []string {
	var lines []string
	if title, ok := v.Title.Get(); ok {
		lines = append(lines, field("Title", title))
	}
	lines = append(lines, field("Filename", v.Filename))
	if size, ok := v.Size.Get(); ok {
		lines = append(lines, field("File size", fmt.Sprintf("%d (%s)", size, display.HumanSize(size))))
	}
	if d != nil {
		lines = append(lines, field(d.Algo.Label(), d.Hex))
	}
	lines = append(lines, field("Container format", v.Format))

	duration := "Not available"
	if secs, ok := v.Duration.Get(); ok {
		duration = display.HumanTime(secs, 2)
		if v.DurationOverridden {
			duration += " (overridden)"
		}
	}
	lines = append(lines, field("Duration", duration))
	if br, ok := v.BitRate.Get(); ok {
		lines = append(lines, field("Overall bit rate", display.FormatBitRate(br)))
	}

	if vs, ok := v.PrimaryVideo(); ok {
		if dim := vs.Dimensions(); dim != "" {
			lines = append(lines, field("Pixel dimensions", dim))
		}
		if dar, ok := vs.DAR.Get(); ok {
			lines = append(lines, field("Display aspect ratio", dar.String()))
		}
		if st := vs.ScanType.String(); st != "" {
			lines = append(lines, field("Scan type", st))
		}
		if fr, ok := vs.FrameRate.Get(); ok {
			lines = append(lines, field("Frame rate", display.FormatFrameRate(fr.Float())))
		}
	}

	if len(v.Streams) > 0 {
		lines = append(lines, "Streams:")
		for _, s := range v.Streams {
			lines = append(lines, fmt.Sprintf("    #%d: %s", s.Index(), s.Summary()))
		}
	}
	return lines
}

// Report joins ReportLines with newlines and a trailing newline.
func (v *Video) Report(d *Digest) string {
	return strings.Join(v.ReportLines(d), "\n") + "\n"
}
