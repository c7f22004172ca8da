package warp

import (
	"image"
	"math"
)

// flatThreshold is the angle below which the cylinder is treated as flat
// and the column mapping collapses to the identity.
const flatThreshold = 1e-6

// warpRemap treats the label's horizontal axis as an angle around a
// cylinder viewed head-on. Each destination column is mapped back to the
// source column whose angular position it shows, which compresses content
// toward the limbs, and rows are shifted down by a bulge term that grows
// with the angle.
func warpRemap(src *image.NRGBA, curvature, bulge float64) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	fw, fh := float64(w), float64(h)
	thetaMax := curvature * math.Pi / 2
	sinMax := math.Sin(thetaMax)

	for x := 0; x < w; x++ {
		nx := (float64(x)+0.5)/fw - 0.5

		theta := 0.0
		u := nx + 0.5
		if thetaMax >= flatThreshold {
			s := clampFloat(nx/0.5*sinMax, -0.999999, 0.999999)
			theta = math.Asin(s)
			u = (theta + thetaMax) / (2 * thetaMax)
		}
		dy := bulge * (1 - math.Cos(theta))
		srcX := u*fw - 0.5

		for y := 0; y < h; y++ {
			v := clampFloat((float64(y)+0.5)/fh-dy, 0, 1)
			c := sampleBicubic(src, srcX, v*fh-0.5)

			i := y*dst.Stride + x*4
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = c.A
		}
	}
	return dst
}
