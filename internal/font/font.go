// Package font loads the face used to rasterize storyboard text.
package font

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Face measures and draws single lines of text.
type Face struct {
	face    xfont.Face
	metrics xfont.Metrics
	name    string
}

// Default returns the built-in 7x13 bitmap face.
func Default() *Face {
	return newFace(basicfont.Face7x13, "basic 7x13")
}

// Load reads a TrueType or OpenType file at size points (72 DPI, so points
// equal pixels). An empty path returns Default.
func Load(path string, size float64) (*Face, error) {
	if path == "" {
		return Default(), nil
	}
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %s: %w", path, err)
	}
	return newFace(face, path), nil
}

func newFace(face xfont.Face, name string) *Face {
	return &Face{face: face, metrics: face.Metrics(), name: name}
}

// Name identifies the face in logs.
func (f *Face) Name() string { return f.name }

// LineHeight is the distance between consecutive baselines in pixels.
func (f *Face) LineHeight() int {
	return f.metrics.Height.Ceil()
}

// Ascent is the distance from the top of a line to its baseline.
func (f *Face) Ascent() int {
	return f.metrics.Ascent.Ceil()
}

// Measure returns the advance width of s in pixels.
func (f *Face) Measure(s string) int {
	return xfont.MeasureString(f.face, s).Ceil()
}

// Draw renders s with its line box's top-left corner at (x, y).
func (f *Face) Draw(dst draw.Image, x, y int, s string, c color.Color) {
	d := &xfont.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.P(x, y+f.Ascent()),
	}
	d.DrawString(s)
}

// Close releases the underlying face.
func (f *Face) Close() error {
	return f.face.Close()
}
