package warp

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// PrepareLabel fits src into a targetW x targetH window ahead of warping.
// The source is scaled up just enough to cover the window, then cropped;
// the anchor picks which horizontal band survives the crop: 0 keeps the
// left edge, 0.5 the centre, 1 the right edge. Vertical overflow is always
// cropped around the centre. Rendering several anchors from one oversized
// label produces the different "viewing angle" variants.
func PrepareLabel(src image.Image, targetW, targetH int, anchor float64) *image.NRGBA {
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	}
	anchor = clampFloat(anchor, 0, 1)

	scale := math.Max(float64(targetW)/float64(b.Dx()), float64(targetH)/float64(b.Dy()))
	scaledW := int(math.Ceil(float64(b.Dx()) * scale))
	scaledH := int(math.Ceil(float64(b.Dy()) * scale))
	resized := imaging.Resize(src, scaledW, scaledH, imaging.Lanczos)

	x0 := int(math.Round(float64(scaledW-targetW) * anchor))
	y0 := (scaledH - targetH) / 2
	return imaging.Crop(resized, image.Rect(x0, y0, x0+targetW, y0+targetH))
}
