package ffmpeg

import (
	"errors"
	"regexp"
	"strings"
)

// ErrExtractionFailed is wrapped by every capture failure.
var ErrExtractionFailed = errors.New("frame extraction failed")

// ExtractError carries the stderr of a failed capture so the retry logic
// can classify it.
type ExtractError struct {
	Request Request
	Stderr  string
	Err     error
}

func (e *ExtractError) Error() string {
	msg := "frame extraction failed at " + e.Request.Position()
	if reason := Classify(e.Stderr); reason != "" {
		msg += ": " + reason
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractError) Unwrap() []error { return []error{ErrExtractionFailed, e.Err} }

// Pre-compiled regexes for classifying ffmpeg stderr. Checked in order by
// Classify; the first match names the failure.
var (
	reTimestampIssue = regexp.MustCompile(
		`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order|` +
			`pts has no value|missing PTS|Timestamps are unset`)

	reEmptyOutput = regexp.MustCompile(
		`(?i)Output file is empty|nothing was encoded|` +
			`Output file #0 does not contain any stream`)

	reDecodeError = regexp.MustCompile(
		`(?i)error while decoding|Invalid data found when processing input|` +
			`corrupt decoded frame|missing reference picture|` +
			`no frame!|decode_slice_header error`)

	reSeekFailure = regexp.MustCompile(
		`(?i)could not seek|seek failed|error during seek`)
)

// MatchTimestampIssue reports whether stderr shows a timestamp discontinuity.
func MatchTimestampIssue(stderr string) bool {
	return reTimestampIssue.MatchString(stderr)
}

// MatchEmptyOutput reports whether ffmpeg produced no frame, typically
// because the position lies past the last decodable frame.
func MatchEmptyOutput(stderr string) bool {
	return reEmptyOutput.MatchString(stderr)
}

// Classify returns a short reason for a failed capture, or "" when stderr
// matches no known pattern.
func Classify(stderr string) string {
	switch {
	case reEmptyOutput.MatchString(stderr):
		return "no frame at position"
	case reSeekFailure.MatchString(stderr):
		return "seek failed"
	case reTimestampIssue.MatchString(stderr):
		return "timestamp discontinuity"
	case reDecodeError.MatchString(stderr):
		return "decode error"
	}
	return ""
}

// lastLine returns the final non-empty line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
