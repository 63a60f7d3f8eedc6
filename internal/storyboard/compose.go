package storyboard

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/backmassage/storyboard/internal/display"
	"github.com/backmassage/storyboard/internal/layout"
)

var (
	background      = color.White
	textColor       = color.Black
	placeholderFill = color.Gray{Y: 0xd8}
)

// overlayInset is the distance of the timestamp overlay from the cell's
// bottom-right corner.
const overlayInset = 5

func (b *Builder) compose(l layout.Layout, lines []string, thumbs []Thumbnail) *image.RGBA {
	canvas := image.NewRGBA(l.Bounds())
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	lh := b.text.LineHeight()
	for i, line := range lines {
		b.text.Draw(canvas, l.TextRect.Min.X, l.TextRect.Min.Y+i*lh, line, textColor)
	}

	for i, t := range thumbs {
		cell := l.Cells[i]
		if t.Placeholder {
			b.drawPlaceholder(canvas, cell)
		} else {
			xdraw.CatmullRom.Scale(canvas, cell, t.Image, t.Image.Bounds(), xdraw.Src, nil)
		}
		if b.cfg.DrawTimestamps {
			if label := t.Label(func(s float64) string { return display.HumanTime(s, 0) }); label != "" {
				b.drawOverlay(canvas, cell, label)
			}
		}
	}

	if !l.FooterRect.Empty() {
		w := b.text.Measure(b.BannerText)
		x := l.FooterRect.Min.X + (l.FooterRect.Dx()-w)/2
		b.text.Draw(canvas, max(l.FooterRect.Min.X, x), l.FooterRect.Min.Y, b.BannerText, textColor)
	}
	return canvas
}

func (b *Builder) drawPlaceholder(canvas *image.RGBA, cell image.Rectangle) {
	draw.Draw(canvas, cell, image.NewUniform(placeholderFill), image.Point{}, draw.Src)
	const msg = "frame unavailable"
	x := cell.Min.X + (cell.Dx()-b.text.Measure(msg))/2
	y := cell.Min.Y + (cell.Dy()-b.text.LineHeight())/2
	b.text.Draw(canvas.SubImage(cell).(*image.RGBA), x, y, msg, textColor)
}

// drawOverlay writes label white on a one-pixel black outline in the
// bottom-right corner of cell.
func (b *Builder) drawOverlay(canvas *image.RGBA, cell image.Rectangle, label string) {
	dst := canvas.SubImage(cell).(*image.RGBA)
	x := cell.Max.X - b.text.Measure(label) - overlayInset
	y := cell.Max.Y - b.text.LineHeight() - overlayInset
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			b.text.Draw(dst, x+dx, y+dy, label, color.Black)
		}
	}
	b.text.Draw(dst, x, y, label, color.White)
}
