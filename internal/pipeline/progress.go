package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/storyboard/internal/config"
	"github.com/backmassage/storyboard/internal/probe"
	"github.com/backmassage/storyboard/internal/storyboard"
	"github.com/backmassage/storyboard/internal/term"
)

// progressEnabled resolves --progress against stderr.
func progressEnabled(cfg *config.Config) bool {
	switch cfg.Progress {
	case config.ProgressOn:
		return true
	case config.ProgressOff:
		return false
	}
	return term.IsTerminal(os.Stderr)
}

func barOptions(cfg *config.Config, w io.Writer, desc string) []progressbar.Option {
	return []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(progressEnabled(cfg)),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
	}
}

// newThumbnailBar counts settled thumbnail slots.
func newThumbnailBar(cfg *config.Config, total int) *progressbar.ProgressBar {
	opts := append(barOptions(cfg, os.Stderr, "  Thumbnails"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return progressbar.NewOptions(total, opts...)
}

// newBytesBar tracks a streaming read of size bytes (the digest pass).
// An unknown size renders as a spinner.
func newBytesBar(cfg *config.Config, size int64, desc string) *progressbar.ProgressBar {
	if size <= 0 {
		size = -1
	}
	opts := append(barOptions(cfg, os.Stderr, desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSpinnerType(14),
	)
	return progressbar.NewOptions64(size, opts...)
}

// countingFrames wraps probe.CountFrames with a spinner, since a full
// decode of a long file gives no other feedback.
func countingFrames(cfg *config.Config) storyboard.FrameCounter {
	return func(ctx context.Context, path string, streamIndex int) (int64, error) {
		opts := append(barOptions(cfg, os.Stderr, "  Counting frames"),
			progressbar.OptionSpinnerType(14),
		)
		bar := progressbar.NewOptions(-1, opts...)
		defer bar.Finish()

		done := make(chan struct{})
		defer close(done)
		go func() {
			tick := time.NewTicker(100 * time.Millisecond)
			defer tick.Stop()
			for {
				select {
				case <-done:
					return
				case <-tick.C:
					_ = bar.Add(1)
				}
			}
		}()
		return probe.CountFrames(ctx, cfg.FFprobeBin, path, streamIndex)
	}
}
