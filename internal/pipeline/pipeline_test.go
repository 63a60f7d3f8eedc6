package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/storyboard/internal/config"
	"github.com/backmassage/storyboard/internal/logging"
	"github.com/backmassage/storyboard/internal/metadata"
	"github.com/backmassage/storyboard/internal/opt"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "movie.mkv")
	touch(t, dir, "clip.mp4")
	touch(t, dir, "music.mp3")
	touch(t, dir, "readme.txt")
	touch(t, dir, "old.avi")
	touch(t, dir, "stream.rmvb")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"clip.mp4", "movie.mkv", "old.avi", "stream.rmvb"}
	got := basenames(files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_SkipsHidden(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "main.mkv")
	touch(t, dir, ".partial.mkv")
	mkdir(t, filepath.Join(dir, ".cache"))
	touch(t, filepath.Join(dir, ".cache"), "thumb.mp4")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := basenames(files); !sliceEqual(got, []string{"main.mkv"}) {
		t.Errorf("got %v, want [main.mkv]", got)
	}
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	mkdir(t, filepath.Join(dir, "b"))
	mkdir(t, filepath.Join(dir, "a"))
	touch(t, filepath.Join(dir, "b"), "one.mkv")
	touch(t, filepath.Join(dir, "a"), "two.mkv")
	touch(t, filepath.Join(dir, "a"), "one.mkv")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i] < files[i-1] {
			t.Errorf("not sorted: %q before %q", files[i-1], files[i])
		}
	}
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "MOVIE.MKV")
	touch(t, dir, "Clip.Mp4")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2 (case-insensitive ext matching)", len(files))
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")
	lib := filepath.Join(dir, "lib")
	mkdir(t, lib)
	touch(t, lib, "a.mkv")
	touch(t, lib, "b.mp4")

	args := []string{
		filepath.Join(dir, "notes.txt"), // named files skip the extension filter
		lib,
		filepath.Join(dir, "missing.mkv"),
	}
	inputs, errs := Expand(args)

	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "missing.mkv") {
		t.Errorf("errs = %v, want one error naming missing.mkv", errs)
	}
	want := []Input{
		{Path: filepath.Join(dir, "notes.txt")},
		{Path: filepath.Join(lib, "a.mkv"), Root: lib},
		{Path: filepath.Join(lib, "b.mp4"), Root: lib},
	}
	if len(inputs) != len(want) {
		t.Fatalf("got %d inputs, want %d: %v", len(inputs), len(want), inputs)
	}
	for i := range want {
		if inputs[i] != want[i] {
			t.Errorf("inputs[%d] = %+v, want %+v", i, inputs[i], want[i])
		}
	}
}

// --- RunStats tests ---

func TestRunStats_ExitCode(t *testing.T) {
	tests := []struct {
		stats RunStats
		want  int
	}{
		{RunStats{Succeeded: 3}, 0},
		{RunStats{Succeeded: 1, Skipped: 2}, 0},
		{RunStats{Succeeded: 2, Failed: 1}, 1},
	}
	for _, tc := range tests {
		if got := tc.stats.ExitCode(); got != tc.want {
			t.Errorf("%+v: ExitCode() = %d, want %d", tc.stats, got, tc.want)
		}
	}
}

// --- Scan declaration tests ---

func TestScanMismatch(t *testing.T) {
	top := metadata.Interlaced(metadata.TopFirst)
	bottom := metadata.Interlaced(metadata.BottomFirst)
	tests := []struct {
		name     string
		declared opt.Value[metadata.ScanType]
		detected metadata.ScanType
		want     bool
	}{
		{"agree progressive", opt.Some(metadata.Progressive), metadata.Progressive, false},
		{"agree interlaced", opt.Some(top), top, false},
		{"field order differs", opt.Some(top), bottom, true},
		{"declared progressive", opt.Some(metadata.Progressive), top, true},
		{"declared interlaced", opt.Some(bottom), metadata.Progressive, true},
		{"telecined not compared", opt.Some(metadata.Progressive), metadata.Telecined, false},
		{"undetected", opt.Some(top), metadata.Unknown, false},
		{"undeclared", opt.None[metadata.ScanType](), metadata.Progressive, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vs := &metadata.VideoStream{DeclaredScan: tc.declared, ScanType: tc.detected}
			if _, got := scanMismatch(vs); got != tc.want {
				t.Errorf("scanMismatch = %v, want %v", got, tc.want)
			}
		})
	}
}

// --- Run tests ---

func quietLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRun_MissingInputsFail(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Progress = config.ProgressOff
	dir := t.TempDir()
	cfg.Inputs = []string{filepath.Join(dir, "a.mkv"), filepath.Join(dir, "b.mkv")}

	var out bytes.Buffer
	stats := Run(context.Background(), &cfg, quietLogger(t, &cfg), Options{Mode: ModeMetadata, Stdout: &out})

	if stats.Failed != 2 || stats.Succeeded != 0 {
		t.Errorf("stats = %+v, want 2 failed", stats)
	}
	if stats.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", stats.ExitCode())
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
}

func TestRun_ProbeFailureDoesNotStopBatch(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Progress = config.ProgressOff
	cfg.FFprobeBin = filepath.Join(t.TempDir(), "no-such-ffprobe")
	dir := t.TempDir()
	touch(t, dir, "a.mkv")
	touch(t, dir, "b.mkv")
	cfg.Inputs = []string{dir}

	stats := Run(context.Background(), &cfg, quietLogger(t, &cfg), Options{Mode: ModeMetadata, Stdout: &bytes.Buffer{}})

	if stats.Total != 2 || stats.Current != 2 || stats.Failed != 2 {
		t.Errorf("stats = %+v, want both files attempted and failed", stats)
	}
}

func TestRun_Canceled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Progress = config.ProgressOff
	dir := t.TempDir()
	touch(t, dir, "a.mkv")
	cfg.Inputs = []string{dir}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := Run(ctx, &cfg, quietLogger(t, &cfg), Options{Mode: ModeMetadata, Stdout: &bytes.Buffer{}})
	if stats.Succeeded != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want nothing processed", stats)
	}
}

// --- Integration test (needs ffmpeg) ---

func TestRun_Integration(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	clip := filepath.Join(inputDir, "clip.mp4")
	gen := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "testsrc=duration=2:size=128x72:rate=25",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-y", clip,
	)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("generate clip: %v\n%s", err, out)
	}

	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Progress = config.ProgressOff
	cfg.Inputs = []string{clip}
	log := quietLogger(t, &cfg)

	t.Run("metadata", func(t *testing.T) {
		var out bytes.Buffer
		stats := Run(context.Background(), &cfg, log, Options{Mode: ModeMetadata, Stdout: &out})
		if stats.Succeeded != 1 {
			t.Fatalf("stats = %+v", stats)
		}
		for _, want := range []string{
			fmt.Sprintf("%-24s%s\n", "Filename:", "clip.mp4"),
			fmt.Sprintf("%-24s%s\n", "Pixel dimensions:", "128x72"),
			fmt.Sprintf("%-24s%s\n", "Scan type:", "Progressive scan"),
			"    #0: Video, H.264",
		} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("report missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("storyboard", func(t *testing.T) {
		sb := cfg
		sb.OutputDir = outputDir
		sb.ThumbnailCount = 4
		sb.ThumbnailWidth = 0
		sb.MaxWidth = 2*128 + sb.ColGap

		var out bytes.Buffer
		stats := Run(context.Background(), &sb, log, Options{Mode: ModeStoryboard, Version: "test", Stdout: &out})
		if stats.Succeeded != 1 || stats.Placeholders != 0 {
			t.Fatalf("stats = %+v", stats)
		}

		path := strings.TrimSpace(out.String())
		if want := filepath.Join(outputDir, "clip.storyboard.jpg"); path != want {
			t.Errorf("output path = %q, want %q", path, want)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		img, format, err := image.Decode(f)
		if err != nil {
			t.Fatalf("decode storyboard: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("format = %q, want jpeg", format)
		}
		// 2x2 grid of native 128x72 thumbnails.
		if w := img.Bounds().Dx(); w != 2*128+sb.ColGap+2*sb.Margin {
			t.Errorf("width = %d, want %d", w, 2*128+sb.ColGap+2*sb.Margin)
		}
	})
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func mkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
