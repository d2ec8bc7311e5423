package math

import "testing"

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}

	if got := x.Cross(y); got != (Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, want (0, 0, 1)", got)
	}
	if got := y.Cross(x); got != (Vec3{0, 0, -1}) {
		t.Errorf("y cross x = %v, want (0, 0, -1)", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}.Normalize()
	if abs(v.Length()-1) > 1e-6 {
		t.Errorf("normalized length = %f, want 1", v.Length())
	}
	if abs(v.X-0.6) > 1e-6 || abs(v.Z-0.8) > 1e-6 {
		t.Errorf("Normalize(3,0,4) = %v, want (0.6, 0, 0.8)", v)
	}
}

func TestVec3NormalizeDegenerate(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector should pass through, got %v", got)
	}

	fallback := Vec3{1, 0, 0}
	tiny := Vec3{1e-7, -1e-7, 0}
	if got := tiny.NormalizeOr(fallback); got != fallback {
		t.Errorf("tiny vector should return fallback, got %v", got)
	}
	if got := (Vec3{0, 2, 0}).NormalizeOr(fallback); got != (Vec3{0, 1, 0}) {
		t.Errorf("NormalizeOr(0,2,0) = %v, want (0, 1, 0)", got)
	}
}
