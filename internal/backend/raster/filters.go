package raster

import (
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// blurOp applies a Gaussian blur. Radius is optional and defaults to 3.
func blurOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	radius := 3.0
	if len(args) > 0 {
		radius, err = backend.FloatArg("blur", args, 0)
		if err != nil {
			return nil, err
		}
	}
	if radius <= 0 {
		return nil, &engine.BadArgumentError{Name: "blur", Reason: "radius must be positive"}
	}
	return rasterValue(blur.Gaussian(img, radius)), nil
}

func sharpenOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	return rasterValue(effect.Sharpen(img)), nil
}

func grayscaleOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	return rasterValue(effect.Grayscale(img)), nil
}

// edgeDetectOp highlights edges using bild's convolution-based detector.
// Radius is optional and defaults to 1.
func edgeDetectOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	radius := 1.0
	if len(args) > 0 {
		radius, err = backend.FloatArg("edge-detect", args, 0)
		if err != nil {
			return nil, err
		}
	}
	if radius <= 0 {
		return nil, &engine.BadArgumentError{Name: "edge-detect", Reason: "radius must be positive"}
	}
	return rasterValue(effect.EdgeDetection(img, radius)), nil
}
