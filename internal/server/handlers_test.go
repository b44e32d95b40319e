package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-router/internal/backend/raster"
	"github.com/ironsheep/image-router/internal/backend/vips"
	"github.com/ironsheep/image-router/internal/ocr"
)

// createTestImageFile writes a solid-color png into a test temp dir and
// returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func toolArgs(t *testing.T, args map[string]interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal arguments: %v", err)
	}
	return data
}

func TestExecuteTool_ImageInfo(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	result, err := s.executeTool("image_info", toolArgs(t, map[string]interface{}{
		"path": imgPath,
	}))
	if err != nil {
		t.Fatalf("image_info failed: %v", err)
	}

	info := result.(*InfoResult)
	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Representation != "png-bytes" {
		t.Errorf("representation: got %s, want png-bytes", info.Representation)
	}
	if info.Path != imgPath {
		t.Errorf("path: got %s, want %s", info.Path, imgPath)
	}
}

func TestExecuteTool_ImageInfo_MissingFile(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("image_info", toolArgs(t, map[string]interface{}{
		"path": filepath.Join(t.TempDir(), "does-not-exist.png"),
	}))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestExecuteTool_ImageConvert(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 60, 40, color.RGBA{0, 0, 255, 255})
	outPath := filepath.Join(t.TempDir(), "out.jpg")

	result, err := s.executeTool("image_convert", toolArgs(t, map[string]interface{}{
		"path":        imgPath,
		"output_path": outPath,
		"quality":     90,
	}))
	if err != nil {
		t.Fatalf("image_convert failed: %v", err)
	}

	converted := result.(*TransformResult)
	if converted.Format != "jpeg" {
		t.Errorf("format: got %s, want jpeg (from .jpg extension)", converted.Format)
	}
	if converted.Bytes == 0 {
		t.Error("no bytes reported written")
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	defer f.Close()
	decoded, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("output is not valid jpeg: %v", err)
	}
	if decoded.Bounds().Dx() != 60 || decoded.Bounds().Dy() != 40 {
		t.Errorf("output dimensions: got %v, want 60x40", decoded.Bounds())
	}
}

func TestExecuteTool_ImageConvert_MissingOutputPath(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 8, 8, color.RGBA{A: 255})

	_, err := s.executeTool("image_convert", toolArgs(t, map[string]interface{}{
		"path": imgPath,
	}))
	if err == nil {
		t.Fatal("expected an error without output_path")
	}
}

func TestExecuteTool_ImageConvert_UnknownExtension(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 8, 8, color.RGBA{A: 255})

	_, err := s.executeTool("image_convert", toolArgs(t, map[string]interface{}{
		"path":        imgPath,
		"output_path": filepath.Join(t.TempDir(), "out.xyz"),
	}))
	if err == nil {
		t.Fatal("expected an error for an unrecognized extension with no format")
	}
}

func TestExecuteTool_ImageTransform(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 64, 64, color.RGBA{200, 100, 50, 255})
	outPath := filepath.Join(t.TempDir(), "out.png")

	result, err := s.executeTool("image_transform", toolArgs(t, map[string]interface{}{
		"path":        imgPath,
		"output_path": outPath,
		"steps": []map[string]interface{}{
			{"op": "resize", "args": []float64{32, 24}},
			{"op": "grayscale"},
		},
	}))
	if err != nil {
		t.Fatalf("image_transform failed: %v", err)
	}

	transformed := result.(*TransformResult)
	if transformed.StepsApplied != 2 {
		t.Errorf("steps applied: got %d, want 2", transformed.StepsApplied)
	}
	if transformed.Format != "png" {
		t.Errorf("format: got %s, want png", transformed.Format)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	if decoded.Bounds().Dx() != 32 || decoded.Bounds().Dy() != 24 {
		t.Errorf("output dimensions: got %v, want 32x24", decoded.Bounds())
	}
}

func TestExecuteTool_ImageTransform_BadStep(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 16, 16, color.RGBA{A: 255})

	_, err := s.executeTool("image_transform", toolArgs(t, map[string]interface{}{
		"path":        imgPath,
		"output_path": filepath.Join(t.TempDir(), "out.png"),
		"steps": []map[string]interface{}{
			{"op": "resize", "args": []float64{0, 0}},
		},
	}))
	if err == nil {
		t.Fatal("expected an error for a zero-size resize")
	}
}

func TestExecuteTool_ImageDominantColors(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 20, 20, color.RGBA{255, 0, 0, 255})

	result, err := s.executeTool("image_dominant_colors", toolArgs(t, map[string]interface{}{
		"path":  imgPath,
		"count": 3,
	}))
	if err != nil {
		t.Fatalf("image_dominant_colors failed: %v", err)
	}

	colors := result.(*raster.DominantColorsResult).Colors
	if len(colors) != 1 {
		t.Fatalf("a solid image has one dominant color, got %d", len(colors))
	}
	if colors[0].Hex != "#F00000" {
		t.Errorf("dominant color: got %s, want quantized red #F00000", colors[0].Hex)
	}
	if colors[0].Percentage != 100 {
		t.Errorf("percentage: got %v, want 100", colors[0].Percentage)
	}
}

func TestExecuteTool_ImageOCR_Unavailable(t *testing.T) {
	if ocr.Available() {
		t.Skip("text extraction is wired in this build; exercising it needs system language data")
	}

	s := newTestServer(t)
	imgPath := createTestImageFile(t, 20, 20, color.RGBA{A: 255})

	_, err := s.executeTool("image_ocr", toolArgs(t, map[string]interface{}{
		"path": imgPath,
	}))
	if err == nil {
		t.Fatal("expected an error when no backend provides extract-text")
	}
}

func TestExecuteTool_CapabilitiesList(t *testing.T) {
	s := newTestServer(t)

	result, err := s.executeTool("capabilities_list", nil)
	if err != nil {
		t.Fatalf("capabilities_list failed: %v", err)
	}
	caps := result.(*CapabilitiesResult)

	reps := make(map[string]bool)
	for _, rep := range caps.Representations {
		reps[rep] = true
	}
	for _, want := range []string{"png-bytes", "jpeg-bytes", "raster"} {
		if !reps[want] {
			t.Errorf("representations missing %q", want)
		}
	}

	foundResize := false
	for _, op := range caps.Operations {
		if op.Representation == "raster" && op.Name == "resize" {
			foundResize = true
			if op.Signature == "" {
				t.Error("resize should carry a signature")
			}
		}
	}
	if !foundResize {
		t.Error("operations missing resize on raster")
	}

	if len(caps.Converters) == 0 {
		t.Error("converter listing is empty")
	}
	for _, conv := range caps.Converters {
		if conv.Cost < 0 {
			t.Errorf("converter %s->%s has negative cost %d", conv.Source, conv.Target, conv.Cost)
		}
	}

	if caps.VipsAvailable != vips.Available() {
		t.Errorf("vips availability: got %v, want %v", caps.VipsAvailable, vips.Available())
	}
	if caps.OCRAvailable != ocr.Available() {
		t.Errorf("ocr availability: got %v, want %v", caps.OCRAvailable, ocr.Available())
	}
}

func TestSessionCache_ReusesOpenSessions(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{A: 255})

	first, err := s.sessions.Open(imgPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	second, err := s.sessions.Open(imgPath)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if first != second {
		t.Error("cache should hand back the same session for the same path")
	}

	s.sessions.Evict(imgPath)
	third, err := s.sessions.Open(imgPath)
	if err != nil {
		t.Fatalf("Open after Evict failed: %v", err)
	}
	if third == first {
		t.Error("evicted path should be re-opened fresh")
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b.png", "png"},
		{"/a/b.jpg", "jpeg"},
		{"/a/b.JPEG", "jpeg"},
		{"/a/b.gif", "gif"},
		{"/a/b.tif", "tiff"},
		{"/a/b.webp", "webp"},
		{"/a/b.txt", ""},
		{"/a/b", ""},
	}
	for _, tt := range tests {
		if got := formatFromExt(tt.path); got != tt.want {
			t.Errorf("formatFromExt(%s): got %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNormalizeFormat(t *testing.T) {
	if got := normalizeFormat("JPG"); got != "jpeg" {
		t.Errorf("normalizeFormat(JPG): got %s, want jpeg", got)
	}
	if got := normalizeFormat("png"); got != "png" {
		t.Errorf("normalizeFormat(png): got %s, want png", got)
	}
}

func TestMustMarshalJSON(t *testing.T) {
	out := mustMarshalJSON(map[string]int{"n": 1})
	var decoded map[string]int
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["n"] != 1 {
		t.Errorf("round trip: got %v", decoded)
	}

	// Unmarshalable values degrade to an empty string, not a panic.
	if got := mustMarshalJSON(func() {}); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
