package ffmpeg

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

// fakeFFmpeg writes an executable shell script standing in for ffmpeg. It
// records its arguments in the returned args file and then runs body.
func fakeFFmpeg(t *testing.T, body string) (bin, argsFile string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	bin = filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho \"$@\" > '" + argsFile + "'\n" + body + "\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return bin, argsFile
}

func TestExtractor_BMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}
	frame := filepath.Join(t.TempDir(), "frame.bmp")
	f, err := os.Create(frame)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	bin, argsFile := fakeFFmpeg(t, "cat '"+frame+"'")
	ex := NewExtractor(bin, false)
	ex.Codec = CodecBMP

	img, err := ex.Extract(context.Background(), Request{Path: "in.mkv", Seconds: 1}, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 4x2", b)
	}
	if r, g, b, _ := img.At(1, 1).RGBA(); r != 0xffff || g != 0 || b != 0 {
		t.Errorf("pixel = %04x %04x %04x, want red", r, g, b)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(args), "-c:v bmp") {
		t.Errorf("args = %s, want -c:v bmp", args)
	}
}

func TestExtractor_RequestCodecWins(t *testing.T) {
	bin, argsFile := fakeFFmpeg(t, "exit 0")
	ex := NewExtractor(bin, false)
	ex.Codec = CodecBMP

	_, err := ex.Extract(context.Background(), Request{Path: "in.mkv", Codec: CodecPNG}, nil)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed for empty output", err)
	}
	args, _ := os.ReadFile(argsFile)
	if !strings.Contains(string(args), "-c:v png") {
		t.Errorf("args = %s, want -c:v png", args)
	}
}

func TestExtractor_Failure(t *testing.T) {
	bin, _ := fakeFFmpeg(t, "echo 'in.mkv: Invalid data found when processing input' >&2\nexit 1")
	ex := NewExtractor(bin, false)

	_, err := ex.Extract(context.Background(), Request{Path: "in.mkv", Seconds: 2}, nil)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
	var xe *ExtractError
	if !errors.As(err, &xe) {
		t.Fatalf("err = %T, want *ExtractError", err)
	}
	if !strings.Contains(xe.Stderr, "Invalid data") {
		t.Errorf("Stderr = %q", xe.Stderr)
	}
}
