// Package raster is the standard in-memory backend adapter. It operates on
// decoded image.Image values, delegating geometry to disintegration/imaging
// and filters to anthonynsimon/bild, and it registers the encode converters
// that turn a raster image back into the byte representations.
package raster

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// encodeCost prices re-encoding a raster image into a byte representation.
// Symmetric with the codec decode cost, so round-trips are routable but
// never free.
const encodeCost = 100

// Register records the raster backend's capabilities into reg.
func Register(reg *engine.Registry) error {
	ops := []struct {
		name      string
		signature string
		fn        engine.OperationFunc
	}{
		{"dimensions", "", dimensionsOp},
		{"resize", "width int, height int", resizeOp},
		{"crop", "left int, top int, right int, bottom int", cropOp},
		{"rotate", "degrees float", rotateOp},
		{"flip-h", "", flipHOp},
		{"flip-v", "", flipVOp},
		{"blur", "radius float (optional, default 3)", blurOp},
		{"sharpen", "", sharpenOp},
		{"grayscale", "", grayscaleOp},
		{"edge-detect", "radius float (optional, default 1)", edgeDetectOp},
		{"dominant-colors", "count int (optional, default 5)", dominantColorsOp},
		{"save-as-png", "sink io.Writer", saveAsPNG},
		{"save-as-jpeg", "sink io.Writer, quality int (optional, default 85)", saveAsJPEG},
		{"save-as-gif", "sink io.Writer", saveAsGIF},
		{"save-as-bmp", "sink io.Writer", saveAsBMP},
		{"save-as-tiff", "sink io.Writer", saveAsTIFF},
	}
	for _, op := range ops {
		if err := reg.RegisterOperation(backend.Raster, op.name, op.signature, op.fn); err != nil {
			return err
		}
	}

	encoders := []struct {
		target engine.Representation
		fn     engine.ConverterFunc
	}{
		{backend.PNGBytes, encodeConverter("png")},
		{backend.JPEGBytes, encodeConverter("jpeg")},
		{backend.GIFBytes, encodeConverter("gif")},
		{backend.BMPBytes, encodeConverter("bmp")},
		{backend.TIFFBytes, encodeConverter("tiff")},
	}
	for _, enc := range encoders {
		if err := reg.RegisterConverter(backend.Raster, enc.target, encodeCost, enc.fn); err != nil {
			return err
		}
	}
	return nil
}

// rasterImage unwraps the Session value for this backend.
func rasterImage(v engine.Value) (image.Image, error) {
	img, ok := v.Data.(image.Image)
	if !ok {
		return nil, fmt.Errorf("value is not a raster image")
	}
	return img, nil
}

func rasterValue(img image.Image) engine.Value {
	return engine.Value{Rep: backend.Raster, Data: img}
}

func dimensionsOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &backend.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
