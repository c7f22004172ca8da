package warp

import (
	"image"
	"math"
)

const (
	minSlices     = 10   // lower bound on vertical slices per label
	sliceWidthPx  = 20   // target destination width per slice
	minSliceScale = 0.55 // horizontal scale floor at the cylinder limb
	bulgePixels   = 18   // base vertical corner offset at full curvature
)

type point struct {
	x, y float64
}

// meshSlice pairs a destination column span with the source quadrilateral
// whose content fills it. Corners are ordered top-left, bottom-left,
// bottom-right, top-right.
type meshSlice struct {
	left  int
	right int
	nw    point
	sw    point
	se    point
	ne    point
}

func sliceCount(width int) int {
	n := width / sliceWidthPx
	if n < minSlices {
		n = minSlices
	}
	return n
}

// buildMesh splits a w x h raster into vertical slices. Each slice draws
// from a source window whose width is the destination width over the local
// foreshortening scale, so slices near the limbs compress more content than
// slices near the centre. The windows tile the source monotonically and are
// normalized to cover it exactly, pinning the label corners in place; the
// per-slice compression ratios are preserved. Source corners additionally
// bow outward by a bulge offset that is strongest at the centre.
func buildMesh(w, h int, curvature, bulge float64) []meshSlice {
	n := sliceCount(w)
	sw := float64(w) / float64(n)
	cx := float64(w) / 2
	fh := float64(h)

	widths := make([]float64, n)
	rels := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		mid := (float64(i) + 0.5) * sw
		rel := 0.0
		if cx > 0 {
			rel = (mid - cx) / cx
		}
		rels[i] = rel
		scale := clampFloat(1-curvature*rel*rel, minSliceScale, 1.0)
		widths[i] = sw / scale
		total += widths[i]
	}
	factor := float64(w) / total

	slices := make([]meshSlice, 0, n)
	srcPos := 0.0
	for i := 0; i < n; i++ {
		dl := float64(i) * sw
		dr := dl + sw

		sl := srcPos
		sr := srcPos + widths[i]*factor
		if i == n-1 {
			// Accumulated float drift must not push the last window past
			// the source edge.
			sr = float64(w)
		}
		srcPos = sr

		off := curvature * bulgePixels * (1 - math.Abs(rels[i])) * bulge

		slices = append(slices, meshSlice{
			left:  int(math.Round(dl)),
			right: int(math.Round(dr)),
			nw:    point{sl, -off},
			sw:    point{sl, fh + off},
			se:    point{sr, fh + off},
			ne:    point{sr, -off},
		})
	}
	return slices
}

// stabiliseMesh corrects rounding artefacts in the destination spans.
// Left edges never move backwards, every slice keeps at least one pixel of
// width, and the final slice ends exactly at width so no seam is left open.
func stabiliseMesh(slices []meshSlice, width int) []meshSlice {
	previousRight := 0
	for i := range slices {
		left := slices[i].left
		if left < previousRight {
			left = previousRight
		}
		right := slices[i].right
		if right <= left {
			right = left + 1
		}
		previousRight = right
		slices[i].left, slices[i].right = left, right
	}
	if n := len(slices); n > 0 && slices[n-1].right != width {
		slices[n-1].right = width
	}
	return slices
}

func warpMesh(src *image.NRGBA, curvature, bulge float64) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	for _, s := range stabiliseMesh(buildMesh(w, h, curvature, bulge), w) {
		drawSlice(dst, src, s)
	}
	return dst
}

// drawSlice fills the destination span of s by bilinear interpolation
// between the left and right edges of its source quadrilateral.
func drawSlice(dst, src *image.NRGBA, s meshSlice) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()

	// The stabilised span is kept for interpolation, the written range is
	// clipped to the raster. Degenerate inputs can push spans past the
	// right edge.
	spanW := s.right - s.left
	left, right := s.left, s.right
	if left < 0 {
		left = 0
	}
	if right > w {
		right = w
	}
	if spanW <= 0 || left >= right {
		return
	}

	fh := float64(h)
	fw := float64(spanW)
	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / fh
		lx := s.nw.x + (s.sw.x-s.nw.x)*v
		ly := s.nw.y + (s.sw.y-s.nw.y)*v
		rx := s.ne.x + (s.se.x-s.ne.x)*v
		ry := s.ne.y + (s.se.y-s.ne.y)*v

		row := dst.Pix[y*dst.Stride:]
		for x := left; x < right; x++ {
			u := (float64(x-s.left) + 0.5) / fw
			sx := lx + (rx-lx)*u
			sy := ly + (ry-ly)*u
			c := sampleBilinear(src, sx-0.5, sy-0.5)

			i := x * 4
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}
