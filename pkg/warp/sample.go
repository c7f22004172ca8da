package warp

import (
	"image"
	"image/color"
	"math"
)

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sampleBilinear reads src at fractional pixel index (fx, fy). Coordinates
// outside the raster replicate the nearest edge pixel.
func sampleBilinear(src *image.NRGBA, fx, fy float64) color.NRGBA {
	w := src.Rect.Dx()
	h := src.Rect.Dy()

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clampInt(x0+1, 0, w-1)
	y1 := clampInt(y0+1, 0, h-1)
	x0 = clampInt(x0, 0, w-1)
	y0 = clampInt(y0, 0, h-1)

	i00 := y0*src.Stride + x0*4
	i10 := y0*src.Stride + x1*4
	i01 := y1*src.Stride + x0*4
	i11 := y1*src.Stride + x1*4

	var out [4]uint8
	for c := 0; c < 4; c++ {
		top := float64(src.Pix[i00+c])*(1-tx) + float64(src.Pix[i10+c])*tx
		bottom := float64(src.Pix[i01+c])*(1-tx) + float64(src.Pix[i11+c])*tx
		out[c] = uint8(top*(1-ty) + bottom*ty + 0.5)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

// sampleBicubic reads src at fractional pixel index (fx, fy) with a
// Catmull-Rom kernel. Coordinates outside the raster replicate the nearest
// edge pixel; overshoot is clamped per channel.
func sampleBicubic(src *image.NRGBA, fx, fy float64) color.NRGBA {
	w := src.Rect.Dx()
	h := src.Rect.Dy()

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	var wx, wy [4]float64
	for k := 0; k < 4; k++ {
		wx[k] = catmullRom(tx - float64(k-1))
		wy[k] = catmullRom(ty - float64(k-1))
	}

	var acc [4]float64
	for j := 0; j < 4; j++ {
		if wy[j] == 0 {
			continue
		}
		sy := clampInt(y0+j-1, 0, h-1)
		row := src.Pix[sy*src.Stride:]
		for i := 0; i < 4; i++ {
			weight := wx[i] * wy[j]
			if weight == 0 {
				continue
			}
			o := clampInt(x0+i-1, 0, w-1) * 4
			acc[0] += float64(row[o]) * weight
			acc[1] += float64(row[o+1]) * weight
			acc[2] += float64(row[o+2]) * weight
			acc[3] += float64(row[o+3]) * weight
		}
	}
	return color.NRGBA{
		R: roundChannel(acc[0]),
		G: roundChannel(acc[1]),
		B: roundChannel(acc[2]),
		A: roundChannel(acc[3]),
	}
}

// catmullRom is the cubic interpolation kernel with a = -0.5.
func catmullRom(d float64) float64 {
	d = math.Abs(d)
	if d < 1 {
		return 1.5*d*d*d - 2.5*d*d + 1
	}
	if d < 2 {
		return -0.5*d*d*d + 2.5*d*d - 4*d + 2
	}
	return 0
}

func roundChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
