package vector3

import (
	"math"
	"testing"
)

func TestPlusMinus(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)
	sum := a.Plus(b)
	if sum != New(5, 7, 9) {
		t.Errorf("Plus = %v, want (5,7,9)", sum)
	}
	diff := b.Minus(a)
	if diff != New(3, 3, 3) {
		t.Errorf("Minus = %v, want (3,3,3)", diff)
	}
}

func TestScale(t *testing.T) {
	v := New(1, -2, 3).Scale(2)
	if v != New(2, -4, 6) {
		t.Errorf("Scale = %v, want (2,-4,6)", v)
	}
}

func TestDotCross(t *testing.T) {
	x := New(1, 0, 0)
	y := New(0, 1, 0)
	if x.Dot(y) != 0 {
		t.Errorf("Dot = %v, want 0", x.Dot(y))
	}
	z := x.Cross(y)
	if z != New(0, 0, 1) {
		t.Errorf("Cross = %v, want (0,0,1)", z)
	}
}

func TestNorm(t *testing.T) {
	v := New(3, 4, 0)
	if v.Norm() != 5 {
		t.Errorf("Norm = %v, want 5", v.Norm())
	}
}

func TestArrayRoundTrip(t *testing.T) {
	v := New(1.5, -2.5, 3.5)
	a := v.Array()
	if FromArray(a) != v {
		t.Errorf("FromArray(Array()) = %v, want %v", FromArray(a), v)
	}
}

func TestDistanceConversions(t *testing.T) {
	d := DistanceFromAU(1)
	if math.Abs(d.Km()-AUToKm) > 1e-6 {
		t.Errorf("DistanceFromAU(1).Km() = %v, want %v", d.Km(), AUToKm)
	}
	d2 := DistanceFromMeters(1000)
	if math.Abs(d2.Km()-1) > 1e-12 {
		t.Errorf("DistanceFromMeters(1000).Km() = %v, want 1", d2.Km())
	}
	if math.Abs(d2.M()-1000) > 1e-9 {
		t.Errorf("DistanceFromMeters(1000).M() = %v, want 1000", d2.M())
	}
}

func TestAngleConversions(t *testing.T) {
	a := AngleFromDegrees(180)
	if math.Abs(a.Radians()-math.Pi) > 1e-12 {
		t.Errorf("AngleFromDegrees(180).Radians() = %v, want Pi", a.Radians())
	}
	b := NewAngle(math.Pi / 2)
	if math.Abs(b.Degrees()-90) > 1e-9 {
		t.Errorf("NewAngle(Pi/2).Degrees() = %v, want 90", b.Degrees())
	}
}
