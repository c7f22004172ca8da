package warp

import (
	"image"

	"github.com/disintegration/imaging"
)

// fadeProfile returns the per-column alpha multiplier in [0, 1]. Columns
// inside the gradient ramp linearly from (1 - strength) at the outermost
// pixel up to full opacity where the ramp ends; the mask is symmetric and
// never dips below an earlier value on the way to the centre.
func fadeProfile(width int, widthFrac, strength float64) []float64 {
	mask := make([]float64, width)
	for i := range mask {
		mask[i] = 1
	}

	gw := int(float64(width) * widthFrac)
	if gw < 1 {
		gw = 1
	}
	for i := 0; i < gw && i < width; i++ {
		f := 1 - strength*(1-float64(i)/float64(gw))
		if f < 0 {
			f = 0
		}
		if f < mask[i] {
			mask[i] = f
		}
		if j := width - 1 - i; f < mask[j] {
			mask[j] = f
		}
	}
	return mask
}

// applyEdgeFade multiplies the alpha channel by the horizontal fade mask,
// returning a new raster.
func applyEdgeFade(img *image.NRGBA, widthFrac, strength float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	mask := fadeProfile(w, widthFrac, strength)
	out := imaging.Clone(img)
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			i := x*4 + 3
			row[i] = uint8(float64(row[i])*mask[x] + 0.5)
		}
	}
	return out
}
