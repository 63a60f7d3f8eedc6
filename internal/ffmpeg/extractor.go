package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // Pipe codec.

	_ "golang.org/x/image/bmp" // Pipe codec.
)

// Extractor captures single frames with ffmpeg.
type Extractor struct {
	Bin     string
	Verbose bool

	// Codec is used for every request that does not set its own.
	Codec string
}

// NewExtractor returns an extractor using the given ffmpeg binary.
func NewExtractor(bin string, verbose bool) *Extractor {
	return &Extractor{Bin: bin, Verbose: verbose, Codec: CodecPNG}
}

// Extract captures one frame. rs may be nil for a first attempt.
func (e *Extractor) Extract(ctx context.Context, req Request, rs *RetryState) (image.Image, error) {
	if req.Codec == "" {
		req.Codec = e.Codec
	}

	var out bytes.Buffer
	res := Execute(ctx, Build(e.Bin, req, rs), &out, e.Verbose)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if res.Err != nil {
		err := res.Err
		if line := lastLine(res.Stderr); line != "" {
			err = fmt.Errorf("%w: %s", res.Err, line)
		}
		return nil, &ExtractError{Request: req, Stderr: res.Stderr, Err: err}
	}
	if out.Len() == 0 {
		return nil, &ExtractError{Request: req, Stderr: res.Stderr, Err: errors.New("no frame at position")}
	}
	img, _, err := image.Decode(&out)
	if err != nil {
		return nil, &ExtractError{Request: req, Stderr: res.Stderr, Err: fmt.Errorf("decode %s frame: %w", req.codec(), err)}
	}
	return img, nil
}
