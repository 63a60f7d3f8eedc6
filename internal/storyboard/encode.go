package storyboard

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/backmassage/storyboard/internal/config"
)

// Encode writes img as JPEG at quality (1-100) or as best-compression PNG.
func Encode(w io.Writer, img image.Image, format config.OutputFormat, quality int) error {
	switch format {
	case config.FormatJPEG, "":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case config.FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	}
	return fmt.Errorf("unsupported output format %q", format)
}
