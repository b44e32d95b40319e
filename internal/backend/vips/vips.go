//go:build vips

// Package vips is the optional libvips backend adapter, built with the
// "vips" tag. libvips decodes substantially faster than the pure-Go path,
// so its converters undercut the codec costs, and it is the only backend
// that can encode WebP. Without the tag the stub variant registers nothing
// and webp export resolves to UnsupportedOperationError.
package vips

import (
	"bytes"
	"fmt"
	"image"

	bimg "gopkg.in/h2non/bimg.v1"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// Decoding through libvips is roughly twice as cheap as the pure-Go
// decoders; leaving vips for the raster world costs a PNG round-trip.
const (
	openCost   = 50
	bridgeCost = 25
)

const defaultWebPQuality = 80

// Available reports whether this build carries the libvips backend.
func Available() bool { return true }

// Register records the libvips capabilities into reg.
func Register(reg *engine.Registry) error {
	sources := []engine.Representation{
		backend.PNGBytes,
		backend.JPEGBytes,
		backend.GIFBytes,
		backend.TIFFBytes,
		backend.WebPBytes,
	}
	for _, source := range sources {
		if err := reg.RegisterConverter(source, backend.Vips, openCost, openConverter); err != nil {
			return err
		}
	}
	if err := reg.RegisterConverter(backend.Vips, backend.Raster, bridgeCost, toRaster); err != nil {
		return err
	}

	ops := []struct {
		name      string
		signature string
		fn        engine.OperationFunc
	}{
		{"dimensions", "", dimensionsOp},
		{"resize", "width int, height int", resizeOp},
		{"save-as-webp", "sink io.Writer, quality int (optional, default 80)", saveAsWebP},
	}
	for _, op := range ops {
		if err := reg.RegisterOperation(backend.Vips, op.name, op.signature, op.fn); err != nil {
			return err
		}
	}
	return nil
}

func vipsImage(v engine.Value) (*bimg.Image, error) {
	img, ok := v.Data.(*bimg.Image)
	if !ok {
		return nil, fmt.Errorf("value is not a libvips image")
	}
	return img, nil
}

// openConverter wraps byte data in a libvips image. libvips sniffs the
// buffer itself, so one converter serves every source format.
func openConverter(v engine.Value) (engine.Value, error) {
	data, ok := v.Data.([]byte)
	if !ok {
		return engine.Value{}, fmt.Errorf("value is not byte data")
	}
	img := bimg.NewImage(data)
	if _, err := img.Size(); err != nil {
		return engine.Value{}, fmt.Errorf("libvips rejected input: %w", err)
	}
	return engine.Value{Rep: backend.Vips, Data: img}, nil
}

// toRaster bridges into the std raster backend via a lossless PNG pass.
func toRaster(v engine.Value) (engine.Value, error) {
	img, err := vipsImage(v)
	if err != nil {
		return engine.Value{}, err
	}
	buf, err := img.Convert(bimg.PNG)
	if err != nil {
		return engine.Value{}, fmt.Errorf("libvips png export: %w", err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return engine.Value{}, fmt.Errorf("decoding libvips output: %w", err)
	}
	return engine.Value{Rep: backend.Raster, Data: decoded}, nil
}

func dimensionsOp(v engine.Value, args ...any) (any, error) {
	img, err := vipsImage(v)
	if err != nil {
		return nil, err
	}
	size, err := img.Size()
	if err != nil {
		return nil, fmt.Errorf("reading libvips image size: %w", err)
	}
	return &backend.Dimensions{Width: size.Width, Height: size.Height}, nil
}

func resizeOp(v engine.Value, args ...any) (any, error) {
	img, err := vipsImage(v)
	if err != nil {
		return nil, err
	}
	width, err := backend.IntArg("resize", args, 0)
	if err != nil {
		return nil, err
	}
	height, err := backend.IntArg("resize", args, 1)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, &engine.BadArgumentError{Name: "resize", Reason: "width and height must be positive"}
	}
	buf, err := img.Resize(width, height)
	if err != nil {
		return nil, fmt.Errorf("libvips resize: %w", err)
	}
	return engine.Value{Rep: backend.Vips, Data: bimg.NewImage(buf)}, nil
}

func saveAsWebP(v engine.Value, args ...any) (any, error) {
	img, err := vipsImage(v)
	if err != nil {
		return nil, err
	}
	w, err := backend.WriterArg("save-as-webp", args, 0)
	if err != nil {
		return nil, err
	}
	quality := defaultWebPQuality
	if len(args) > 1 {
		quality, err = backend.IntArg("save-as-webp", args, 1)
		if err != nil {
			return nil, err
		}
		if quality < 1 || quality > 100 {
			return nil, &engine.BadArgumentError{Name: "save-as-webp", Reason: "quality must be in 1..100"}
		}
	}
	buf, err := img.Process(bimg.Options{Type: bimg.WEBP, Quality: quality})
	if err != nil {
		return nil, fmt.Errorf("libvips webp export: %w", err)
	}
	n, err := w.Write(buf)
	if err != nil {
		return nil, fmt.Errorf("writing webp data: %w", err)
	}
	return &backend.SaveResult{Format: "webp", Bytes: int64(n)}, nil
}
