package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// defaultJPEGQuality applies when the caller does not specify one.
const defaultJPEGQuality = 85

func encode(format string, w io.Writer, img image.Image, quality int) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, nil)
	default:
		return fmt.Errorf("no encoder for format %q", format)
	}
}

// saveOp builds a terminal save-as-* operation that encodes to the sink
// passed as the first argument.
func saveOp(name, format string) engine.OperationFunc {
	return func(v engine.Value, args ...any) (any, error) {
		img, err := rasterImage(v)
		if err != nil {
			return nil, err
		}
		w, err := backend.WriterArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		counting := &backend.CountingWriter{W: w}
		if err := encode(format, counting, img, defaultJPEGQuality); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", format, err)
		}
		return &backend.SaveResult{Format: format, Bytes: counting.N}, nil
	}
}

var (
	saveAsPNG  = saveOp("save-as-png", "png")
	saveAsGIF  = saveOp("save-as-gif", "gif")
	saveAsBMP  = saveOp("save-as-bmp", "bmp")
	saveAsTIFF = saveOp("save-as-tiff", "tiff")
)

// saveAsJPEG takes an optional quality argument after the sink.
func saveAsJPEG(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	w, err := backend.WriterArg("save-as-jpeg", args, 0)
	if err != nil {
		return nil, err
	}
	quality := defaultJPEGQuality
	if len(args) > 1 {
		quality, err = backend.IntArg("save-as-jpeg", args, 1)
		if err != nil {
			return nil, err
		}
		if quality < 1 || quality > 100 {
			return nil, &engine.BadArgumentError{Name: "save-as-jpeg", Reason: "quality must be in 1..100"}
		}
	}
	counting := &backend.CountingWriter{W: w}
	if err := jpeg.Encode(counting, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return &backend.SaveResult{Format: "jpeg", Bytes: counting.N}, nil
}

// encodeConverter turns the raster image back into an owned byte
// representation, enabling round-trips such as png-bytes -> raster ->
// png-bytes.
func encodeConverter(format string) engine.ConverterFunc {
	target := map[string]engine.Representation{
		"png":  backend.PNGBytes,
		"jpeg": backend.JPEGBytes,
		"gif":  backend.GIFBytes,
		"bmp":  backend.BMPBytes,
		"tiff": backend.TIFFBytes,
	}[format]

	return func(v engine.Value) (engine.Value, error) {
		img, err := rasterImage(v)
		if err != nil {
			return engine.Value{}, err
		}
		var buf bytes.Buffer
		if err := encode(format, &buf, img, defaultJPEGQuality); err != nil {
			return engine.Value{}, fmt.Errorf("encoding %s: %w", format, err)
		}
		return engine.Value{Rep: target, Data: buf.Bytes()}, nil
	}
}
