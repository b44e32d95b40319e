// Package backend defines the representation tags and shared result types
// used by the concrete backend adapter packages (codec, raster, vips, ocr).
//
// Keeping the tags in one place lets adapters register converters into each
// other's representations without import cycles: the codec package decodes
// into Raster, the raster package encodes back into the byte
// representations, and the optional vips backend bridges both.
package backend

import (
	"io"

	"github.com/ironsheep/image-router/internal/engine"
)

// Byte representations: undecoded file data, tagged by sniffed format.
const (
	PNGBytes  engine.Representation = "png-bytes"
	JPEGBytes engine.Representation = "jpeg-bytes"
	GIFBytes  engine.Representation = "gif-bytes"
	BMPBytes  engine.Representation = "bmp-bytes"
	TIFFBytes engine.Representation = "tiff-bytes"
	WebPBytes engine.Representation = "webp-bytes"
)

// In-memory representations.
const (
	// Raster is a decoded image.Image held by the std raster backend.
	Raster engine.Representation = "raster"

	// Vips is a libvips-backed buffer, available only in builds with the
	// vips tag.
	Vips engine.Representation = "vips"
)

// Dimensions is the result of the "dimensions" operation.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SaveResult is the terminal result of the save/write operations.
type SaveResult struct {
	Format string `json:"format"`
	Bytes  int64  `json:"bytes"`
}

// IntArg extracts an integer argument at position i. JSON-sourced callers
// hand over float64, typed callers hand over int; both are accepted.
func IntArg(op string, args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, &engine.BadArgumentError{Name: op, Reason: "missing argument"}
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, &engine.BadArgumentError{Name: op, Reason: "argument is not an integer"}
	}
}

// FloatArg extracts a float argument at position i.
func FloatArg(op string, args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, &engine.BadArgumentError{Name: op, Reason: "missing argument"}
	}
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, &engine.BadArgumentError{Name: op, Reason: "argument is not a number"}
	}
}

// WriterArg extracts the output sink argument at position i.
func WriterArg(op string, args []any, i int) (io.Writer, error) {
	if i >= len(args) {
		return nil, &engine.BadArgumentError{Name: op, Reason: "missing output sink"}
	}
	w, ok := args[i].(io.Writer)
	if !ok {
		return nil, &engine.BadArgumentError{Name: op, Reason: "argument is not an io.Writer"}
	}
	return w, nil
}

// CountingWriter wraps an output sink and counts the bytes written through
// it, so save operations can report sizes without buffering.
type CountingWriter struct {
	W io.Writer
	N int64
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.W.Write(p)
	c.N += int64(n)
	return n, err
}
