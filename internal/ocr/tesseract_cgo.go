//go:build cgo && linux

package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// Available reports whether this build carries the Tesseract bindings.
func Available() bool { return true }

// Register records the extract-text operation on the raster
// representation.
func Register(reg *engine.Registry) error {
	return reg.RegisterOperation(backend.Raster, "extract-text",
		"language string (optional, default \"eng\")", extractTextOp)
}

// extractTextOp runs Tesseract over the whole image. Tesseract wants a
// file path, so the image takes a detour through a temporary PNG.
func extractTextOp(v engine.Value, args ...any) (any, error) {
	img, ok := v.Data.(image.Image)
	if !ok {
		return nil, fmt.Errorf("value is not a raster image")
	}

	language := "eng"
	if len(args) > 0 {
		s, ok := args[0].(string)
		if !ok {
			return nil, &engine.BadArgumentError{Name: "extract-text", Reason: "language must be a string"}
		}
		language = s
	}

	tmpFile, err := os.CreateTemp("", "extract-text-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just the text if box extraction fails.
		return &Result{FullText: text, Regions: []TextRegion{}}, nil
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Result{FullText: text, Regions: regions}, nil
}
