// Package ocr contributes an "extract-text" operation on the raster
// representation, backed by Tesseract through gosseract. The native
// bindings need CGO and Linux; other builds register nothing, so the
// operation simply resolves as unsupported there.
package ocr

// Bounds is a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// TextRegion is one recognized word with its location and confidence.
type TextRegion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Bounds     Bounds  `json:"bounds"`
}

// Result contains the text extracted from an image.
type Result struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Regions lists individual words with bounding boxes. May be empty if
	// box extraction fails; FullText is still populated in that case.
	Regions []TextRegion `json:"regions"`
}
