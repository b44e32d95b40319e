package raster

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// ColorFrequency is one entry of a dominant-colors result.
type ColorFrequency struct {
	Hex        string  `json:"hex"`        // "#RRGGBB", quantized
	Percentage float64 `json:"percentage"` // share of pixels (0-100)
}

// DominantColorsResult lists the most frequent colors, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// quantStep collapses each 8-bit channel to 16 levels before counting, so
// near-identical pixels land in the same bin.
const quantStep = 16

// mergeDistance is the CIE-Lab distance below which two quantized bins are
// considered the same perceived color and merged.
const mergeDistance = 0.08

// dominantColorsOp extracts the N most common colors. Bins are counted
// after quantization, then merged by perceptual (Lab) distance so that a
// gradient does not flood the result with near-duplicates.
func dominantColorsOp(v engine.Value, args ...any) (any, error) {
	img, err := rasterImage(v)
	if err != nil {
		return nil, err
	}
	count := 5
	if len(args) > 0 {
		count, err = backend.IntArg("dominant-colors", args, 0)
		if err != nil {
			return nil, err
		}
	}
	if count <= 0 {
		return nil, &engine.BadArgumentError{Name: "dominant-colors", Reason: "count must be positive"}
	}

	bounds := img.Bounds()
	bins := make(map[[3]uint8]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			key := [3]uint8{
				uint8(r>>8) / quantStep * quantStep,
				uint8(g>>8) / quantStep * quantStep,
				uint8(b>>8) / quantStep * quantStep,
			}
			bins[key]++
			total++
		}
	}
	if total == 0 {
		return &DominantColorsResult{Colors: []ColorFrequency{}}, nil
	}

	type bin struct {
		rgb   [3]uint8
		color colorful.Color
		count int
	}
	sorted := make([]bin, 0, len(bins))
	for rgb, n := range bins {
		sorted = append(sorted, bin{
			rgb: rgb,
			color: colorful.Color{
				R: float64(rgb[0]) / 255,
				G: float64(rgb[1]) / 255,
				B: float64(rgb[2]) / 255,
			},
			count: n,
		})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].rgb[0] < sorted[j].rgb[0] // stable order for equal counts
	})

	// Greedy merge into the most frequent perceptually-distinct bins.
	var kept []bin
	for _, candidate := range sorted {
		merged := false
		for i := range kept {
			if kept[i].color.DistanceLab(candidate.color) < mergeDistance {
				kept[i].count += candidate.count
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, candidate)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].count > kept[j].count })
	if len(kept) > count {
		kept = kept[:count]
	}

	colors := make([]ColorFrequency, len(kept))
	for i, b := range kept {
		colors[i] = ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", b.rgb[0], b.rgb[1], b.rgb[2]),
			Percentage: float64(b.count) / float64(total) * 100,
		}
	}
	return &DominantColorsResult{Colors: colors}, nil
}
