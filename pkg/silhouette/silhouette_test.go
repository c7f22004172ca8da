package silhouette

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/ekarev/label-mockup/pkg/geometry"
)

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestRenderDimensions(t *testing.T) {
	d := geometry.Default()
	img := New().Render(d)

	if img.Bounds().Dx() != d.CanvasWidth || img.Bounds().Dy() != d.CanvasHeight {
		t.Fatalf("canvas = %dx%d, want %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), d.CanvasWidth, d.CanvasHeight)
	}
	if img.Bounds().Min.X != 0 || img.Bounds().Min.Y != 0 {
		t.Errorf("bounds not zero-origin: %v", img.Bounds())
	}
}

func TestTransparentOutsideContainer(t *testing.T) {
	d := geometry.Default()
	img := New().Render(d)

	corners := [][2]int{
		{2, 2},
		{d.CanvasWidth - 3, 2},
		{2, d.CanvasHeight - 3},
		{d.CanvasWidth - 3, d.CanvasHeight - 3},
	}
	for _, c := range corners {
		if a := img.NRGBAAt(c[0], c[1]).A; a != 0 {
			t.Errorf("corner (%d,%d) alpha = %d, want 0", c[0], c[1], a)
		}
	}
}

func TestBodyOpaqueByDefault(t *testing.T) {
	d := geometry.Default()
	cfg := DefaultConfig()
	img := NewWithConfig(cfg).Render(d)

	body := d.BodyBox()
	px := img.NRGBAAt(int(body.CenterX()), int(body.CenterY()))

	if px.A != 255 {
		t.Fatalf("body centre alpha = %d, want 255", px.A)
	}
	// Lighting layers shift the fill a little but it must stay recognisably
	// the body colour.
	if absDiff(px.R, cfg.BodyColor.R) > 80 || absDiff(px.G, cfg.BodyColor.G) > 80 || absDiff(px.B, cfg.BodyColor.B) > 80 {
		t.Errorf("body centre = %v, too far from body colour %v", px, cfg.BodyColor)
	}
	if px.B <= px.R {
		t.Errorf("body centre = %v, expected blue-dominant fill", px)
	}
}

func TestGlassBodyTranslucent(t *testing.T) {
	d := geometry.Default()
	cfg := DefaultConfig()
	cfg.Glass = true
	img := NewWithConfig(cfg).Render(d)

	body := d.BodyBox()
	a := img.NRGBAAt(int(body.CenterX()), int(body.CenterY())).A
	if a == 0 || a >= 240 {
		t.Errorf("glass body centre alpha = %d, want translucent", a)
	}

	opaque := New().Render(d)
	if opaque.NRGBAAt(int(body.CenterX()), int(body.CenterY())).A <= a {
		t.Errorf("opaque render should have higher body alpha than glass")
	}
}

func TestCapUsesCapColor(t *testing.T) {
	d := geometry.Default()
	cfg := DefaultConfig()
	img := NewWithConfig(cfg).Render(d)

	capBox := d.CapBox()
	px := img.NRGBAAt(int(capBox.CenterX()), int(capBox.CenterY()))

	if px.A != 255 {
		t.Fatalf("cap centre alpha = %d, want 255", px.A)
	}
	if absDiff(px.R, cfg.CapColor.R) > 60 || absDiff(px.G, cfg.CapColor.G) > 60 || absDiff(px.B, cfg.CapColor.B) > 60 {
		t.Errorf("cap centre = %v, too far from cap colour %v", px, cfg.CapColor)
	}
	if !(px.B > px.G && px.G > px.R) {
		t.Errorf("cap centre = %v, expected dark blue ordering B > G > R", px)
	}
}

func TestCustomBodyColor(t *testing.T) {
	d := geometry.Default()
	cfg := DefaultConfig()
	cfg.BodyColor = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	img := NewWithConfig(cfg).Render(d)

	body := d.BodyBox()
	px := img.NRGBAAt(int(body.CenterX()), int(body.CenterY()))
	if px.R <= px.B {
		t.Errorf("body centre = %v, expected red-dominant fill", px)
	}
}

func TestTextureTogglesChangeOutput(t *testing.T) {
	d := geometry.Default()

	plain := DefaultConfig()
	plain.GripStripes = 0
	plain.ThreadRidges = 0
	plain.RefractionGlow = false

	full := New().Render(d)
	bare := NewWithConfig(plain).Render(d)

	if bytes.Equal(full.Pix, bare.Pix) {
		t.Errorf("disabling cap texture and glow did not change the render")
	}
}

func TestRenderDeterministic(t *testing.T) {
	d := geometry.Default()
	r := New()

	first := r.Render(d)
	second := r.Render(d)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Errorf("repeated renders differ")
	}
}

func TestRenderTinyCanvas(t *testing.T) {
	d := geometry.Default()
	d.CanvasWidth = 8
	d.CanvasHeight = 12

	img := New().Render(d)
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 12 {
		t.Fatalf("canvas = %v, want 8x12", img.Bounds())
	}
}

func BenchmarkRender(b *testing.B) {
	d := geometry.Default()
	d.CanvasWidth = 300
	d.CanvasHeight = 467
	r := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(d)
	}
}
