package display

import (
	"fmt"
	"math"
)

// HumanSize returns a compact binary-prefixed size (e.g. "4.73KiB").
// Values are rounded up so a file is never reported smaller than it is;
// precision shrinks as the leading digits grow.
func HumanSize(bytes int64) string {
	const unit = 1024.0
	if bytes < unit {
		return fmt.Sprintf("%dB", bytes)
	}
	size := float64(bytes)
	prefixes := []string{"Ki", "Mi", "Gi", "Ti", "Pi", "Ei"}
	for _, p := range prefixes {
		size /= unit
		if size < unit {
			switch {
			case size < 10:
				return fmt.Sprintf("%.2f%sB", roundUp(size, 2), p)
			case size < 100:
				return fmt.Sprintf("%.1f%sB", roundUp(size, 1), p)
			default:
				return fmt.Sprintf("%.0f%sB", roundUp(size, 0), p)
			}
		}
	}
	return fmt.Sprintf("%.1f%sB", roundUp(size, 1), prefixes[len(prefixes)-1])
}

func roundUp(x float64, digits int) float64 {
	m := math.Pow10(digits)
	return math.Ceil(x*m) / m
}

// HumanTime formats seconds as HH:MM:SS with digits fractional digits on
// the seconds field (no decimal point when digits is 0). Negative input is
// clamped to zero.
func HumanTime(seconds float64, digits int) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := int64(seconds)
	hh := whole / 3600
	mm := (whole / 60) % 60
	ss := seconds - float64((whole/60)*60)
	if digits <= 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hh, mm, int64(math.Round(ss)))
	}
	return fmt.Sprintf("%02d:%02d:%0*.*f", hh, mm, digits+3, digits, ss)
}

// FormatBitRate renders bits per second as whole kilobits ("128 kb/s").
func FormatBitRate(bps int64) string {
	return fmt.Sprintf("%d kb/s", int64(math.Round(float64(bps)/1000)))
}

// FormatFrameRate renders a frame rate, dropping the fraction for
// integral rates ("25 fps", "23.98 fps").
func FormatFrameRate(fps float64) string {
	if math.Abs(fps-math.Round(fps)) < 0.0001 {
		return fmt.Sprintf("%d fps", int64(math.Round(fps)))
	}
	return fmt.Sprintf("%.2f fps", fps)
}
