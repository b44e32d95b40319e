package raster

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// resizeOp scales the image to exactly width x height using Lanczos
// resampling.
func resizeOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
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
	return rasterValue(imaging.Resize(img, width, height, imaging.Lanczos)), nil
}

// cropOp extracts the rectangle (left, top)-(right, bottom). The rectangle
// is clamped to the image bounds; a rectangle that is empty or lies
// entirely outside the image is a bad argument, reported before any pixel
// work.
func cropOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	var coords [4]int
	for i := range coords {
		coords[i], err = backend.IntArg("crop", args, i)
		if err != nil {
			return nil, err
		}
	}
	left, top, right, bottom := coords[0], coords[1], coords[2], coords[3]

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if left >= right || left >= width || right <= 0 ||
		top >= bottom || top >= height || bottom <= 0 {
		return nil, &engine.BadArgumentError{
			Name:   "crop",
			Reason: "rectangle is empty or entirely outside the image",
		}
	}
	left = max(0, left)
	top = max(0, top)
	right = min(right, width)
	bottom = min(bottom, height)

	rect := image.Rect(bounds.Min.X+left, bounds.Min.Y+top, bounds.Min.X+right, bounds.Min.Y+bottom)
	return rasterValue(imaging.Crop(img, rect)), nil
}

// rotateOp rotates counterclockwise by the given degrees. Right-angle
// rotations take the lossless fast path; any other angle goes through
// bild's resampling rotate with the canvas grown to fit.
func rotateOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	degrees, err := backend.FloatArg("rotate", args, 0)
	if err != nil {
		return nil, err
	}

	normalized := math.Mod(degrees, 360)
	if normalized < 0 {
		normalized += 360
	}
	switch normalized {
	case 0:
		return rasterValue(img), nil
	case 90:
		return rasterValue(imaging.Rotate90(img)), nil
	case 180:
		return rasterValue(imaging.Rotate180(img)), nil
	case 270:
		return rasterValue(imaging.Rotate270(img)), nil
	}

	rotated := transform.Rotate(img, -normalized, &transform.RotationOptions{ResizeBounds: true})
	return rasterValue(rotated), nil
}

func flipHOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	return rasterValue(imaging.FlipH(img)), nil
}

func flipVOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	return rasterValue(imaging.FlipV(img)), nil
}
