// Package warp distorts a flat label raster so it reads as wrapped around a
// cylindrical surface. Two interchangeable strategies honour the same
// contract: pixels near the horizontal centre are least distorted, pixels
// near the edges are compressed and offset vertically, and no sample is ever
// taken outside the source raster (edges replicate). An optional alpha fade
// toward the left/right borders hides the seam where the label leaves the
// visible face of the container.
package warp

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ekarev/label-mockup/pkg/errors"
)

// Strategy selects the warp algorithm.
type Strategy string

const (
	// StrategyMesh slices the label into vertical bands and maps each band
	// through a source quadrilateral.
	StrategyMesh Strategy = "mesh"
	// StrategyRemap projects destination columns onto a cylinder per pixel.
	StrategyRemap Strategy = "remap"
)

// ParseStrategy converts a config string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mesh":
		return StrategyMesh, nil
	case "remap", "spherical":
		return StrategyRemap, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidStrategy,
			"unknown warp strategy %q (expected \"mesh\" or \"remap\")", s)
	}
}

// Options configures a warp pass.
//
// VerticalBulge scales the barrel offset: for the mesh strategy it
// multiplies the pixel offset applied to slice corners, for the remap
// strategy it is the fraction of the label height shifted at the extreme
// edge. Passes repeats the warp for a stronger curl.
type Options struct {
	Strategy      Strategy
	Curvature     float64 // 0 = flat, 1 = strongest curl
	VerticalBulge float64
	Passes        int     // minimum 1
	FadeWidth     float64 // fraction of width faded per side, 0 disables
	FadeStrength  float64 // alpha reduction at the outermost column, 0 to 1
}

// DefaultOptions returns the warp settings used when no overrides are given.
func DefaultOptions() Options {
	return Options{
		Strategy:      StrategyMesh,
		Curvature:     0.45,
		VerticalBulge: 1.0,
		Passes:        1,
		FadeWidth:     0.2,
		FadeStrength:  0.7,
	}
}

// Apply warps img according to opts and returns a new raster of the same
// size. The input is never mutated.
func Apply(img image.Image, opts Options) (*image.NRGBA, error) {
	src := toNRGBA(img)
	passes := opts.Passes
	if passes < 1 {
		passes = 1
	}

	switch opts.Strategy {
	case StrategyMesh:
		for p := 0; p < passes; p++ {
			src = warpMesh(src, opts.Curvature, opts.VerticalBulge)
		}
	case StrategyRemap:
		for p := 0; p < passes; p++ {
			src = warpRemap(src, opts.Curvature, opts.VerticalBulge)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown warp strategy %q", opts.Strategy)
	}

	if opts.FadeWidth > 0 && opts.FadeStrength > 0 {
		src = applyEdgeFade(src, opts.FadeWidth, opts.FadeStrength)
	}
	return src, nil
}

// toNRGBA returns img as a zero-origin NRGBA raster, copying only when the
// representation does not already match.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
