// Package palette handles colour parsing and the small colour adjustments
// used by the bottle renderer. Colours are accepted as SVG 1.1 names or hex
// notation and are carried as straight (non-premultiplied) NRGBA.
package palette

import (
	"image"
	"image/color"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/ekarev/label-mockup/pkg/errors"
)

// Parse returns the colour named by s. It accepts the SVG 1.1 colour names
// ("navy", "whitesmoke") and hex notation ("#rrggbb" or "#rgb"). Names are
// matched case-insensitively.
func Parse(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "empty colour")
	}

	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex colour %q", s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	}

	return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor,
		"unknown colour %q (expected a name like \"navy\" or hex like \"#48a9e6\")", s)
}

// WithAlpha returns c with its alpha channel replaced by a.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Lighten raises the HSL lightness of c by amount (0 to 1), clamped to white.
// The alpha channel is preserved.
func Lighten(c color.NRGBA, amount float64) color.NRGBA {
	return shiftLightness(c, amount)
}

// Darken lowers the HSL lightness of c by amount (0 to 1), clamped to black.
// The alpha channel is preserved.
func Darken(c color.NRGBA, amount float64) color.NRGBA {
	return shiftLightness(c, -amount)
}

func shiftLightness(c color.NRGBA, delta float64) color.NRGBA {
	// MakeColor needs a non-zero alpha to recover the RGB channels, so the
	// conversion runs on the opaque colour and the alpha is reattached after.
	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	h, s, l := cf.Hsl()
	l = math.Min(1, math.Max(0, l+delta))
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}

// Average returns the alpha-weighted mean colour of img. Each pixel's RGB
// contribution is weighted by its alpha, so transparent padding around a
// logo does not skew the result. A fully transparent raster falls back to
// the unweighted channel mean. The returned colour is opaque.
func Average(img image.Image) color.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return averageNRGBA(nrgba)
	}

	b := img.Bounds()
	var sumR, sumG, sumB, sumA float64
	var plainR, plainG, plainB float64
	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			a := float64(c.A)
			sumR += float64(c.R) * a
			sumG += float64(c.G) * a
			sumB += float64(c.B) * a
			sumA += a
			plainR += float64(c.R)
			plainG += float64(c.G)
			plainB += float64(c.B)
			count++
		}
	}
	return meanColor(sumR, sumG, sumB, sumA, plainR, plainG, plainB, count)
}

func averageNRGBA(img *image.NRGBA) color.NRGBA {
	b := img.Bounds()
	var sumR, sumG, sumB, sumA float64
	var plainR, plainG, plainB float64
	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			i := x * 4
			a := float64(row[i+3])
			sumR += float64(row[i]) * a
			sumG += float64(row[i+1]) * a
			sumB += float64(row[i+2]) * a
			sumA += a
			plainR += float64(row[i])
			plainG += float64(row[i+1])
			plainB += float64(row[i+2])
			count++
		}
	}
	return meanColor(sumR, sumG, sumB, sumA, plainR, plainG, plainB, count)
}

func meanColor(sumR, sumG, sumB, sumA, plainR, plainG, plainB float64, count int) color.NRGBA {
	if count == 0 {
		return color.NRGBA{A: 255}
	}
	if sumA == 0 {
		n := float64(count)
		return color.NRGBA{
			R: clampChannel(plainR / n),
			G: clampChannel(plainG / n),
			B: clampChannel(plainB / n),
			A: 255,
		}
	}
	return color.NRGBA{
		R: clampChannel(sumR / sumA),
		G: clampChannel(sumG / sumA),
		B: clampChannel(sumB / sumA),
		A: 255,
	}
}

func clampChannel(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
