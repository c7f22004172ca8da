// Package geometry derives the bottle silhouette layout from a small set of
// dimensionless ratios. All boxes are computed in canvas pixel coordinates
// with float precision; callers rasterize them with Box.Rect when needed.
package geometry

import (
	"image"
	"math"
)

// bodyTopRatio fixes the body's top edge at this fraction of canvas height.
const bodyTopRatio = 0.32

// Box is an axis-aligned rectangle in canvas coordinates.
type Box struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.Bottom - b.Top
}

// CenterX returns the horizontal centre of the box.
func (b Box) CenterX() float64 {
	return (b.Left + b.Right) / 2
}

// CenterY returns the vertical centre of the box.
func (b Box) CenterY() float64 {
	return (b.Top + b.Bottom) / 2
}

// Inset shrinks the box by dx on the left/right and dy on the top/bottom.
func (b Box) Inset(dx, dy float64) Box {
	return Box{
		Left:   b.Left + dx,
		Top:    b.Top + dy,
		Right:  b.Right - dx,
		Bottom: b.Bottom - dy,
	}
}

// Rect rounds the box to integer pixel coordinates. Degenerate boxes are
// clamped to at least one pixel per axis so raster operations never receive
// an empty rectangle.
func (b Box) Rect() image.Rectangle {
	x0 := int(math.Round(b.Left))
	y0 := int(math.Round(b.Top))
	x1 := int(math.Round(b.Right))
	y1 := int(math.Round(b.Bottom))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1)
}

// Descriptor holds the canvas size and the ratios that shape the bottle.
// The zero value is not useful; start from Default and override fields.
type Descriptor struct {
	CanvasWidth  int // canvas width in pixels
	CanvasHeight int // canvas height in pixels

	BodyWidthRatio      float64 // body width as a fraction of canvas width
	BodyHeightRatio     float64 // body height as a fraction of canvas height
	NeckWidthRatio      float64 // neck width as a fraction of canvas width
	NeckHeightRatio     float64 // neck height as a fraction of canvas height
	ShoulderHeightRatio float64 // shoulder half-height as a fraction of canvas height
	ShoulderFlareRatio  float64 // shoulder overhang as a fraction of body width
	CapHeightRatio      float64 // cap height as a fraction of canvas height
	CapWidthRatio       float64 // cap width as a fraction of neck width

	LabelWidthRatio  float64 // label window width as a fraction of body width
	LabelHeightRatio float64 // label window height as a fraction of body height
	LabelTopRatio    float64 // label top offset as a fraction of body height
}

// Default returns the descriptor used when no overrides are given.
// The proportions produce a tall bottle with the label in the upper
// third of the body.
func Default() Descriptor {
	return Descriptor{
		CanvasWidth:         900,
		CanvasHeight:        1400,
		BodyWidthRatio:      0.38,
		BodyHeightRatio:     0.52,
		NeckWidthRatio:      0.22,
		NeckHeightRatio:     0.16,
		ShoulderHeightRatio: 0.08,
		ShoulderFlareRatio:  0.12,
		CapHeightRatio:      0.055,
		CapWidthRatio:       0.8,
		LabelWidthRatio:     0.88,
		LabelHeightRatio:    0.4,
		LabelTopRatio:       0.32,
	}
}

// BodyBox returns the main body rectangle, horizontally centred with its
// top edge fixed at 32% of the canvas height.
func (d Descriptor) BodyBox() Box {
	w := float64(d.CanvasWidth)
	h := float64(d.CanvasHeight)
	bw := w * d.BodyWidthRatio
	bh := h * d.BodyHeightRatio
	top := h * bodyTopRatio
	left := (w - bw) / 2
	return Box{Left: left, Top: top, Right: left + bw, Bottom: top + bh}
}

// NeckBox returns the neck rectangle sitting directly on the body; its
// bottom edge coincides exactly with the body's top edge.
func (d Descriptor) NeckBox() Box {
	w := float64(d.CanvasWidth)
	h := float64(d.CanvasHeight)
	nw := w * d.NeckWidthRatio
	nh := h * d.NeckHeightRatio
	bottom := d.BodyBox().Top
	left := (w - nw) / 2
	return Box{Left: left, Top: bottom - nh, Right: left + nw, Bottom: bottom}
}

// ShoulderBox returns the bounding box of the shoulder ellipse. It is wider
// than the body by the flare ratio on each side and straddles the body's
// top edge.
func (d Descriptor) ShoulderBox() Box {
	h := float64(d.CanvasHeight)
	body := d.BodyBox()
	flare := body.Width() * d.ShoulderFlareRatio
	sh := h * d.ShoulderHeightRatio
	return Box{
		Left:   body.Left - flare,
		Top:    body.Top - sh,
		Right:  body.Right + flare,
		Bottom: body.Top + sh*0.35,
	}
}

// CapBox returns the cap rectangle centred on the neck; its bottom edge
// coincides with the neck's top edge.
func (d Descriptor) CapBox() Box {
	h := float64(d.CanvasHeight)
	neck := d.NeckBox()
	ch := h * d.CapHeightRatio
	cw := neck.Width() * d.CapWidthRatio
	left := neck.CenterX() - cw/2
	return Box{Left: left, Top: neck.Top - ch, Right: left + cw, Bottom: neck.Top}
}

// LabelBox returns the window on the body where the label is placed,
// horizontally centred and anchored below the body's top edge by the
// label top ratio.
func (d Descriptor) LabelBox() Box {
	body := d.BodyBox()
	lw := body.Width() * d.LabelWidthRatio
	lh := body.Height() * d.LabelHeightRatio
	left := body.CenterX() - lw/2
	top := body.Top + body.Height()*d.LabelTopRatio
	return Box{Left: left, Top: top, Right: left + lw, Bottom: top + lh}
}
