// Package silhouette renders the flat-colour container layers: body, neck,
// shoulder and cap, plus the soft lighting features that sell the "glass"
// look. Every feature with a blur is drawn on its own transparent layer and
// alpha-composited over the accumulating result, so the output is a single
// canvas-sized RGBA raster that is transparent outside the container.
package silhouette

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/ekarev/label-mockup/pkg/geometry"
	"github.com/ekarev/label-mockup/pkg/palette"
)

// Config holds the colours, texture toggles and blur radii of the renderer.
// Blur radii are tunable constants, not derived quantities.
type Config struct {
	BodyColor color.NRGBA // body, neck and shoulder fill
	CapColor  color.NRGBA

	Glass      bool  // translucent body fills instead of opaque
	GlassAlpha uint8 // body fill alpha when Glass is set

	GripStripes    int  // vertical stripe count on the cap, 0 disables
	ThreadRidges   int  // horizontal ridge count on the cap, 0 disables
	RefractionGlow bool // interior white glow inside the body

	HighlightBlur float64 // body highlight ellipse
	ShadowBlur    float64 // body shadow ellipse
	GlowBlur      float64 // refraction glow
	CapDetailBlur float64 // cap stripes, ridges and volume shading
}

// DefaultConfig returns the renderer settings used when no overrides are
// given: a light blue bottle with a darker blue cap, opaque fills and all
// texture features enabled.
func DefaultConfig() Config {
	return Config{
		BodyColor:      color.NRGBA{R: 0x48, G: 0xa9, B: 0xe6, A: 255},
		CapColor:       color.NRGBA{R: 0x24, G: 0x5b, B: 0x96, A: 255},
		Glass:          false,
		GlassAlpha:     102,
		GripStripes:    6,
		ThreadRidges:   3,
		RefractionGlow: true,
		HighlightBlur:  40,
		ShadowBlur:     50,
		GlowBlur:       60,
		CapDetailBlur:  3,
	}
}

// Renderer produces silhouette layers for a geometry descriptor.
type Renderer struct {
	cfg Config
}

// New creates a renderer with default settings.
func New() *Renderer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a renderer with the given settings.
func NewWithConfig(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render draws the container silhouette for d and returns it as a
// canvas-sized RGBA layer. The result is deterministic for equal inputs.
func (r *Renderer) Render(d geometry.Descriptor) *image.NRGBA {
	w, h := d.CanvasWidth, d.CanvasHeight

	bodyFill := r.cfg.BodyColor
	if r.cfg.Glass {
		bodyFill.A = r.cfg.GlassAlpha
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(bodyFill)

	body := d.BodyBox()
	dc.DrawRoundedRectangle(body.Left, body.Top, body.Width(), body.Height(), body.Width()*0.18)
	dc.Fill()

	neck := d.NeckBox()
	dc.DrawRoundedRectangle(neck.Left, neck.Top, neck.Width(), neck.Height(), neck.Width()*0.30)
	dc.Fill()

	shoulder := d.ShoulderBox()
	dc.DrawEllipse(shoulder.CenterX(), shoulder.CenterY(), shoulder.Width()/2, shoulder.Height()/2)
	dc.Fill()

	layer := imaging.Clone(dc.Image())
	layer = imaging.Overlay(layer, r.renderCap(d), image.Pt(0, 0), 1.0)

	if r.cfg.RefractionGlow {
		layer = imaging.Overlay(layer, r.renderGlow(d), image.Pt(0, 0), 1.0)
	}

	layer = imaging.Overlay(layer, r.renderHighlight(d), image.Pt(0, 0), 1.0)
	layer = imaging.Overlay(layer, r.renderShadow(d), image.Pt(0, 0), 1.0)
	return layer
}

// renderCap draws the cap with its texture details on a transparent
// canvas-sized sub-layer.
func (r *Renderer) renderCap(d geometry.Descriptor) *image.NRGBA {
	w, h := d.CanvasWidth, d.CanvasHeight
	capBox := d.CapBox()

	dc := gg.NewContext(w, h)
	dc.SetColor(r.cfg.CapColor)
	dc.DrawRoundedRectangle(capBox.Left, capBox.Top, capBox.Width(), capBox.Height(), capBox.Width()*0.25)
	dc.Fill()
	layer := imaging.Clone(dc.Image())

	// Sheen across the top of the cap.
	sheen := gg.NewContext(w, h)
	sheen.SetColor(palette.WithAlpha(palette.Lighten(r.cfg.CapColor, 0.18), 90))
	sheen.DrawEllipse(capBox.CenterX(), capBox.Top+capBox.Height()*0.3, capBox.Width()*0.42, capBox.Height()*0.28)
	sheen.Fill()
	layer = imaging.Overlay(layer, imaging.Clone(sheen.Image()), image.Pt(0, 0), 1.0)

	if r.cfg.GripStripes > 0 {
		layer = imaging.Overlay(layer, r.renderGrips(d, capBox), image.Pt(0, 0), 1.0)
	}
	if r.cfg.ThreadRidges > 0 {
		layer = imaging.Overlay(layer, r.renderRidges(d, capBox), image.Pt(0, 0), 1.0)
	}

	// Left highlight and right shade give the cap some volume.
	volume := gg.NewContext(w, h)
	volume.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 60})
	volume.DrawEllipse(capBox.Left+capBox.Width()*0.22, capBox.CenterY(), capBox.Width()*0.14, capBox.Height()*0.36)
	volume.Fill()
	volume.SetColor(color.NRGBA{A: 55})
	volume.DrawRectangle(capBox.Right-capBox.Width()*0.2, capBox.Top+capBox.Height()*0.1, capBox.Width()*0.16, capBox.Height()*0.8)
	volume.Fill()
	layer = imaging.Overlay(layer, imaging.GaussianBlur(volume.Image(), r.cfg.CapDetailBlur), image.Pt(0, 0), 1.0)

	return layer
}

// renderGrips draws the vertical grip stripes, clipped to the cap shape so
// the bars never poke past the rounded corners.
func (r *Renderer) renderGrips(d geometry.Descriptor, capBox geometry.Box) *image.NRGBA {
	dc := gg.NewContext(d.CanvasWidth, d.CanvasHeight)
	dc.DrawRoundedRectangle(capBox.Left, capBox.Top, capBox.Width(), capBox.Height(), capBox.Width()*0.25)
	dc.Clip()

	n := r.cfg.GripStripes
	step := capBox.Width() / float64(n)
	barW := step * 0.45
	top := capBox.Top + capBox.Height()*0.18
	barH := capBox.Height() * 0.64
	stripe := palette.Darken(r.cfg.CapColor, 0.12)

	for i := 0; i < n; i++ {
		alpha := uint8(70)
		if i%2 == 0 {
			alpha = 110
		}
		dc.SetColor(palette.WithAlpha(stripe, alpha))
		x := capBox.Left + (float64(i)+0.5)*step - barW/2
		dc.DrawRoundedRectangle(x, top, barW, barH, barW/2)
		dc.Fill()
	}
	return imaging.GaussianBlur(dc.Image(), r.cfg.CapDetailBlur)
}

// renderRidges draws the horizontal thread ridge lines with alternating
// opacity.
func (r *Renderer) renderRidges(d geometry.Descriptor, capBox geometry.Box) *image.NRGBA {
	dc := gg.NewContext(d.CanvasWidth, d.CanvasHeight)
	dc.DrawRoundedRectangle(capBox.Left, capBox.Top, capBox.Width(), capBox.Height(), capBox.Width()*0.25)
	dc.Clip()

	n := r.cfg.ThreadRidges
	step := capBox.Height() / float64(n+1)
	lineH := math.Max(1.5, capBox.Height()*0.06)
	ridge := palette.Darken(r.cfg.CapColor, 0.2)

	for i := 1; i <= n; i++ {
		alpha := uint8(45)
		if i%2 == 1 {
			alpha = 80
		}
		dc.SetColor(palette.WithAlpha(ridge, alpha))
		y := capBox.Top + float64(i)*step - lineH/2
		dc.DrawRectangle(capBox.Left+capBox.Width()*0.06, y, capBox.Width()*0.88, lineH)
		dc.Fill()
	}
	return imaging.GaussianBlur(dc.Image(), r.cfg.CapDetailBlur)
}

// renderGlow draws the interior refraction glow: a large inset rounded
// rectangle, white at low opacity, heavily blurred.
func (r *Renderer) renderGlow(d geometry.Descriptor) *image.NRGBA {
	body := d.BodyBox()
	inset := body.Inset(body.Width()*0.08, body.Height()*0.06)

	dc := gg.NewContext(d.CanvasWidth, d.CanvasHeight)
	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 26})
	dc.DrawRoundedRectangle(inset.Left, inset.Top, inset.Width(), inset.Height(), inset.Width()*0.18)
	dc.Fill()
	return imaging.GaussianBlur(dc.Image(), r.cfg.GlowBlur)
}

// renderHighlight draws the soft left-side highlight that fakes an
// off-axis light source.
func (r *Renderer) renderHighlight(d geometry.Descriptor) *image.NRGBA {
	body := d.BodyBox()
	box := geometry.Box{
		Left:   body.Left + body.Width()*0.05,
		Top:    body.Top + body.Height()*0.05,
		Right:  body.Left + body.Width()*0.35,
		Bottom: body.Bottom - body.Height()*0.15,
	}

	dc := gg.NewContext(d.CanvasWidth, d.CanvasHeight)
	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 120})
	dc.DrawEllipse(box.CenterX(), box.CenterY(), box.Width()/2, box.Height()/2)
	dc.Fill()
	return imaging.GaussianBlur(dc.Image(), r.cfg.HighlightBlur)
}

// renderShadow draws the darker right edge that gives the body depth.
func (r *Renderer) renderShadow(d geometry.Descriptor) *image.NRGBA {
	body := d.BodyBox()
	box := geometry.Box{
		Left:   body.Right - body.Width()*0.3,
		Top:    body.Top + body.Height()*0.1,
		Right:  body.Right + body.Width()*0.1,
		Bottom: body.Bottom,
	}

	dc := gg.NewContext(d.CanvasWidth, d.CanvasHeight)
	dc.SetColor(color.NRGBA{A: 90})
	dc.DrawEllipse(box.CenterX(), box.CenterY(), box.Width()/2, box.Height()/2)
	dc.Fill()
	return imaging.GaussianBlur(dc.Image(), r.cfg.ShadowBlur)
}
