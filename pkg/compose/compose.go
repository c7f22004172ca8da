// Package compose assembles the final scene: a background, an optional drop
// shadow under the container, the container silhouette and the warped label
// placed in the label area.
package compose

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/ekarev/label-mockup/pkg/geometry"
)

// Config holds the scene settings.
type Config struct {
	BackgroundColor color.NRGBA // used when no background image is given
	ShadowColor     color.NRGBA
	ShadowBlur      float64
	DropShadow      bool
}

// DefaultConfig returns the studio-style defaults: a near-white backdrop and
// a soft drop shadow.
func DefaultConfig() Config {
	return Config{
		BackgroundColor: color.NRGBA{R: 0xf2, G: 0xf4, B: 0xf8, A: 255},
		ShadowColor:     color.NRGBA{A: 120},
		ShadowBlur:      30,
		DropShadow:      true,
	}
}

// Compositor builds scenes for a geometry descriptor.
type Compositor struct {
	cfg Config
}

// New creates a compositor with default settings.
func New() *Compositor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a compositor with the given settings.
func NewWithConfig(cfg Config) *Compositor {
	return &Compositor{cfg: cfg}
}

// Scene composites the full mockup. background may be nil, in which case the
// configured flat colour is used; a non-nil background is cover-scaled and
// centre-cropped to the canvas. label may be nil to render the bare
// container. The silhouette and label must already be rendered at the sizes
// derived from d.
func (c *Compositor) Scene(d geometry.Descriptor, silhouette *image.NRGBA, label *image.NRGBA, background image.Image) *image.NRGBA {
	scene := c.backdrop(d, background)

	if c.cfg.DropShadow {
		scene = imaging.Overlay(scene, c.shadowLayer(d), image.Pt(0, 0), 1.0)
	}
	if silhouette != nil {
		scene = imaging.Overlay(scene, silhouette, image.Pt(0, 0), 1.0)
	}
	if label != nil {
		lb := d.LabelBox()
		x := int(lb.Left + (lb.Width()-float64(label.Bounds().Dx()))/2 + 0.5)
		y := int(lb.Top + (lb.Height()-float64(label.Bounds().Dy()))/2 + 0.5)
		scene = imaging.Overlay(scene, label, image.Pt(x, y), 1.0)
	}
	return scene
}

// backdrop returns the canvas-sized background layer.
func (c *Compositor) backdrop(d geometry.Descriptor, background image.Image) *image.NRGBA {
	if background == nil {
		return imaging.New(d.CanvasWidth, d.CanvasHeight, c.cfg.BackgroundColor)
	}
	return imaging.Fill(background, d.CanvasWidth, d.CanvasHeight, imaging.Center, imaging.Lanczos)
}

// shadowLayer draws the blurred ground shadow under the container. The
// ellipse hugs the floor line, slightly wider than the body.
func (c *Compositor) shadowLayer(d geometry.Descriptor) *image.NRGBA {
	body := d.BodyBox()
	below := float64(d.CanvasHeight) - body.Bottom

	box := geometry.Box{
		Left:   body.Left - body.Width()*0.1,
		Top:    body.Bottom + below*0.02,
		Right:  body.Right + body.Width()*0.1,
		Bottom: body.Bottom + below*0.08,
	}

	dc := gg.NewContext(d.CanvasWidth, d.CanvasHeight)
	dc.SetColor(c.cfg.ShadowColor)
	dc.DrawEllipse(box.CenterX(), box.CenterY(), box.Width()/2, box.Height()/2)
	dc.Fill()
	return imaging.GaussianBlur(dc.Image(), c.cfg.ShadowBlur)
}
