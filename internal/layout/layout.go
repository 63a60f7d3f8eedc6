// Package layout computes the geometry of a storyboard: the thumbnail grid,
// the header text block above it and the footer below it.
//
// Columns are maximised under the width cap, so the grid never has more
// rows than the cap forces. Cells are filled row-major in timestamp order;
// an incomplete last row stays left-aligned and its trailing cells blank.
package layout

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidThumbnailCount is returned for a count below one.
	ErrInvalidThumbnailCount = errors.New("invalid thumbnail count")
	// ErrInvalidCell is returned for a non-positive cell size.
	ErrInvalidCell = errors.New("invalid cell size")
)

// Params are the inputs of Compute. All sizes are pixels.
type Params struct {
	Count      int
	CellWidth  int
	CellHeight int
	MaxWidth   int // Grid width cap, excluding margins.

	TextHeight   int // Header text block; 0 for none.
	FooterHeight int // Footer line; 0 for none.

	Margin     int // Outer margin on every side.
	ColGap     int
	RowGap     int
	SectionGap int // Between the grid and the text blocks.
}

// Layout is the computed storyboard geometry.
type Layout struct {
	Cols, Rows            int
	CellWidth, CellHeight int
	Margin                int
	ColGap, RowGap        int
	TextHeight            int
	FooterHeight          int
	Width, Height         int

	TextRect   image.Rectangle
	GridRect   image.Rectangle
	FooterRect image.Rectangle
	Cells      []image.Rectangle // One per thumbnail, row-major.
}

// Columns returns the largest column count in [1, count] whose grid width
// fits maxWidth.
func Columns(count, cellWidth, gap, maxWidth int) int {
	cols := (maxWidth + gap) / (cellWidth + gap)
	return max(1, min(cols, count))
}

// Compute lays out p.Count cells.
func Compute(p Params) (Layout, error) {
	if p.Count < 1 {
		return Layout{}, fmt.Errorf("%w: %d", ErrInvalidThumbnailCount, p.Count)
	}
	if p.CellWidth <= 0 || p.CellHeight <= 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d", ErrInvalidCell, p.CellWidth, p.CellHeight)
	}

	cols := Columns(p.Count, p.CellWidth, p.ColGap, p.MaxWidth)
	rows := (p.Count + cols - 1) / cols

	gridW := cols*p.CellWidth + (cols-1)*p.ColGap
	gridH := rows*p.CellHeight + (rows-1)*p.RowGap

	l := Layout{
		Cols: cols, Rows: rows,
		CellWidth: p.CellWidth, CellHeight: p.CellHeight,
		Margin: p.Margin,
		ColGap: p.ColGap, RowGap: p.RowGap,
		TextHeight: p.TextHeight, FooterHeight: p.FooterHeight,
		Width: 2*p.Margin + gridW,
	}

	y := p.Margin
	if p.TextHeight > 0 {
		l.TextRect = image.Rect(p.Margin, y, p.Margin+gridW, y+p.TextHeight)
		y += p.TextHeight + p.SectionGap
	}
	l.GridRect = image.Rect(p.Margin, y, p.Margin+gridW, y+gridH)
	for i := range p.Count {
		r, c := i/cols, i%cols
		x0 := p.Margin + c*(p.CellWidth+p.ColGap)
		y0 := y + r*(p.CellHeight+p.RowGap)
		l.Cells = append(l.Cells, image.Rect(x0, y0, x0+p.CellWidth, y0+p.CellHeight))
	}
	y += gridH
	if p.FooterHeight > 0 {
		y += p.SectionGap
		l.FooterRect = image.Rect(p.Margin, y, p.Margin+gridW, y+p.FooterHeight)
		y += p.FooterHeight
	}
	l.Height = y + p.Margin
	return l, nil
}

// Bounds returns the canvas rectangle.
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.Width, l.Height)
}

// ScaleCell returns the cell size for a frame of w x h pixels shown at
// display aspect ratio darNum:darDen, scaled to width target. A
// non-positive target keeps the frame's native width. The height is kept
// even and at least 1.
func ScaleCell(w, h, target int, darNum, darDen int64) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if target <= 0 {
		target = w
	}
	ratio := float64(w) / float64(h)
	if darNum > 0 && darDen > 0 {
		ratio = float64(darNum) / float64(darDen)
	}
	ch := int(float64(target)/ratio + 0.5)
	if ch > 1 && ch%2 == 1 {
		ch--
	}
	return target, max(1, ch)
}
