package camera

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
)

func TestFrustumsMirror(t *testing.T) {
	tests := []StereoParams{
		DefaultStereoParams(16.0 / 9.0),
		{EyeSeparation: 0.5, Convergence: 3, AspectRatio: 1, FOV: 1.2, Near: 0.1, Far: 50},
		{EyeSeparation: 2, Convergence: 100, AspectRatio: 0.5, FOV: 0.3, Near: 5, Far: 500},
	}

	for _, p := range tests {
		l, r := p.LeftFrustum(), p.RightFrustum()

		if l.Left != -r.Right || l.Right != -r.Left {
			t.Errorf("%+v: frustums not mirrored: left=%+v right=%+v", p, l, r)
		}
		if l.Top != r.Top || l.Bottom != r.Bottom || l.Near != r.Near || l.Far != r.Far {
			t.Errorf("%+v: vertical/depth extents differ: left=%+v right=%+v", p, l, r)
		}
		if l.Bottom != -l.Top {
			t.Errorf("%+v: bottom %f should be -top %f", p, l.Bottom, l.Top)
		}
	}
}

func TestFrustumValues(t *testing.T) {
	p := StereoParams{EyeSeparation: 2, Convergence: 10, AspectRatio: 1, FOV: math32.Pi / 2, Near: 1, Far: 100}

	// tan(45°) = 1, so a = 10, b = 9, c = 11
	l := p.LeftFrustum()
	r := p.RightFrustum()

	approx := func(got, want float32) bool { return math32.Abs(got-want) < 1e-5 }
	if !approx(l.Top, 1) || !approx(l.Bottom, -1) {
		t.Errorf("top/bottom = %f/%f, want 1/-1", l.Top, l.Bottom)
	}
	if !approx(l.Left, -0.9) || !approx(l.Right, 1.1) {
		t.Errorf("left frustum = [%f, %f], want [-0.9, 1.1]", l.Left, l.Right)
	}
	if !approx(r.Left, -1.1) || !approx(r.Right, 0.9) {
		t.Errorf("right frustum = [%f, %f], want [-1.1, 0.9]", r.Left, r.Right)
	}
}

func TestZeroSeparationIsSymmetric(t *testing.T) {
	p := DefaultStereoParams(1.5)
	p.EyeSeparation = 0

	l := p.LeftFrustum()
	if l != p.RightFrustum() || l.Left != -l.Right {
		t.Errorf("zero separation should give identical symmetric frustums, got %+v", l)
	}
}

func TestEyeOffset(t *testing.T) {
	p := DefaultStereoParams(1)
	p.EyeSeparation = 0.4

	if got := p.EyeOffset(LeftEye); got != 0.2 {
		t.Errorf("left offset = %f, want 0.2", got)
	}
	if got := p.EyeOffset(RightEye); got != -0.2 {
		t.Errorf("right offset = %f, want -0.2", got)
	}
	if p.Frustum(LeftEye) != p.LeftFrustum() || p.Frustum(RightEye) != p.RightFrustum() {
		t.Error("Frustum(eye) should dispatch to the eye's frustum")
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultStereoParams(1.6)
	if err := valid.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*StereoParams)
	}{
		{"zero separation", func(p *StereoParams) { p.EyeSeparation = 0 }},
		{"negative convergence", func(p *StereoParams) { p.Convergence = -1 }},
		{"zero aspect", func(p *StereoParams) { p.AspectRatio = 0 }},
		{"fov pi", func(p *StereoParams) { p.FOV = math32.Pi }},
		{"fov nan", func(p *StereoParams) { p.FOV = math32.NaN() }},
		{"zero near", func(p *StereoParams) { p.Near = 0 }},
		{"far before near", func(p *StereoParams) { p.Far = p.Near }},
	}

	for _, tt := range tests {
		p := valid
		tt.mutate(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: err = %v, want ErrInvalidParams", tt.name, err)
		}
	}
}
