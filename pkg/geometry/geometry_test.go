package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestDefaultBoxes(t *testing.T) {
	d := Default()

	body := d.BodyBox()
	if !approxEqual(body.Width(), 900*0.38) {
		t.Errorf("body width = %v, want %v", body.Width(), 900*0.38)
	}
	if !approxEqual(body.Top, 1400*0.32) {
		t.Errorf("body top = %v, want %v", body.Top, 1400*0.32)
	}
	if !approxEqual(body.CenterX(), 450) {
		t.Errorf("body centre = %v, want 450", body.CenterX())
	}

	neck := d.NeckBox()
	if !approxEqual(neck.Width(), 900*0.22) {
		t.Errorf("neck width = %v, want %v", neck.Width(), 900*0.22)
	}
	if !approxEqual(neck.Height(), 1400*0.16) {
		t.Errorf("neck height = %v, want %v", neck.Height(), 1400*0.16)
	}

	cap := d.CapBox()
	if !approxEqual(cap.Width(), neck.Width()*0.8) {
		t.Errorf("cap width = %v, want %v", cap.Width(), neck.Width()*0.8)
	}
	if !approxEqual(cap.Height(), 1400*0.055) {
		t.Errorf("cap height = %v, want %v", cap.Height(), 1400*0.055)
	}
}

func TestNeckMeetsBodyExactly(t *testing.T) {
	// The neck bottom and body top must share the same float value so the
	// two fills join without a seam.
	d := Default()
	if d.NeckBox().Bottom != d.BodyBox().Top {
		t.Errorf("neck bottom = %v, body top = %v", d.NeckBox().Bottom, d.BodyBox().Top)
	}
	if d.CapBox().Bottom != d.NeckBox().Top {
		t.Errorf("cap bottom = %v, neck top = %v", d.CapBox().Bottom, d.NeckBox().Top)
	}
}

func TestLabelInsideBody(t *testing.T) {
	// Across the documented ratio ranges the label window must stay inside
	// the body rectangle.
	for _, lw := range []float64{0.5, 0.7, 0.88, 1.0} {
		for _, lh := range []float64{0.2, 0.3, 0.4} {
			for _, lt := range []float64{0.1, 0.32, 0.5} {
				if lt+lh > 1 {
					continue
				}
				d := Default()
				d.LabelWidthRatio = lw
				d.LabelHeightRatio = lh
				d.LabelTopRatio = lt

				body := d.BodyBox()
				label := d.LabelBox()
				if label.Left < body.Left-eps || label.Right > body.Right+eps ||
					label.Top < body.Top-eps || label.Bottom > body.Bottom+eps {
					t.Errorf("label %+v escapes body %+v (lw=%v lh=%v lt=%v)",
						label, body, lw, lh, lt)
				}
			}
		}
	}
}

func TestShoulderStraddlesBody(t *testing.T) {
	d := Default()
	body := d.BodyBox()
	shoulder := d.ShoulderBox()

	if shoulder.Top >= body.Top || shoulder.Bottom <= body.Top {
		t.Errorf("shoulder [%v, %v] does not straddle body top %v",
			shoulder.Top, shoulder.Bottom, body.Top)
	}
	if shoulder.Left >= body.Left || shoulder.Right <= body.Right {
		t.Errorf("shoulder [%v, %v] not wider than body [%v, %v]",
			shoulder.Left, shoulder.Right, body.Left, body.Right)
	}
}

func TestDeterministic(t *testing.T) {
	a := Default()
	b := Default()

	if a.BodyBox() != b.BodyBox() || a.NeckBox() != b.NeckBox() ||
		a.ShoulderBox() != b.ShoulderBox() || a.CapBox() != b.CapBox() ||
		a.LabelBox() != b.LabelBox() {
		t.Error("identical descriptors produced different boxes")
	}
}

func TestScalesWithCanvas(t *testing.T) {
	small := Default()
	big := Default()
	big.CanvasWidth *= 2
	big.CanvasHeight *= 2

	if !approxEqual(big.BodyBox().Width(), 2*small.BodyBox().Width()) {
		t.Errorf("body width did not scale: %v vs %v",
			big.BodyBox().Width(), small.BodyBox().Width())
	}
	if !approxEqual(big.LabelBox().Height(), 2*small.LabelBox().Height()) {
		t.Errorf("label height did not scale: %v vs %v",
			big.LabelBox().Height(), small.LabelBox().Height())
	}
}

func TestRectClampsDegenerateBoxes(t *testing.T) {
	tests := []struct {
		name string
		box  Box
	}{
		{"zero area", Box{Left: 10, Top: 10, Right: 10, Bottom: 10}},
		{"sub-pixel", Box{Left: 10, Top: 10, Right: 10.2, Bottom: 10.4}},
		{"inverted", Box{Left: 10, Top: 10, Right: 8, Bottom: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.box.Rect()
			if r.Dx() < 1 || r.Dy() < 1 {
				t.Errorf("Rect() = %v, want at least 1x1", r)
			}
		})
	}
}

func TestTinyRatiosProduceUsableRects(t *testing.T) {
	d := Default()
	d.CapHeightRatio = 0.00001
	d.NeckHeightRatio = 0.00001
	d.ShoulderHeightRatio = 0.00001

	for name, box := range map[string]Box{
		"body":     d.BodyBox(),
		"neck":     d.NeckBox(),
		"shoulder": d.ShoulderBox(),
		"cap":      d.CapBox(),
		"label":    d.LabelBox(),
	} {
		r := box.Rect()
		if r.Dx() < 1 || r.Dy() < 1 {
			t.Errorf("%s Rect() = %v, want at least 1x1", name, r)
		}
	}
}
