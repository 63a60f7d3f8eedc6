// Package check provides system diagnostics (the check command) and
// pre-pipeline dependency validation (CheckDeps) for ffmpeg and ffprobe.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/storyboard/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing or
// unusable.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrPNGPipeFailed   = errors.New("ffmpeg cannot encode PNG frames to a pipe")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck prints the availability and version of the configured ffmpeg
// and ffprobe binaries and tests a one-frame PNG capture. It is
// informational and returns the number of failed checks.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) int {
	log.Info("=== System Check ===")
	failed := 0
	for _, bin := range []string{cfg.FFmpegBin, cfg.FFprobeBin} {
		path, version, err := Version(ctx, bin)
		if err != nil {
			log.Error("%s: %v", bin, err)
			failed++
			continue
		}
		log.Success("%s: %s", path, version)
	}

	log.Info("Testing PNG frame capture...")
	if runSilent(ctx, cfg.FFmpegBin, pngTestArgs()...) {
		log.Success("PNG capture works")
	} else {
		log.Error("PNG capture test failed")
		failed++
	}
	return failed
}

// Version resolves bin on PATH and returns its path and the first line of
// its -version output.
func Version(ctx context.Context, bin string) (path, version string, err error) {
	path, err = exec.LookPath(bin)
	if err != nil {
		return "", "", fmt.Errorf("not found: %w", err)
	}
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return path, "", fmt.Errorf("-version failed: %w", err)
	}
	return path, firstLine(string(out)), nil
}

// CheckDeps is the pre-pipeline validation: both binaries must resolve.
// When needFfmpeg is set (storyboard mode) ffmpeg must also pass a short
// PNG capture test.
func CheckDeps(ctx context.Context, cfg *config.Config, needFfmpeg bool) error {
	if _, err := exec.LookPath(cfg.FFprobeBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, cfg.FFprobeBin)
	}
	if !needFfmpeg {
		return nil
	}
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegBin)
	}
	if !runSilent(ctx, cfg.FFmpegBin, pngTestArgs()...) {
		return ErrPNGPipeFailed
	}
	return nil
}

// --- internal helpers ---

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}

// pngTestArgs captures one frame of a generated test pattern as PNG.
func pngTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=128x72:duration=0.1",
		"-frames:v", "1",
		"-f", "image2pipe", "-c:v", "png", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
