package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	got := Vec2{1, 2}.Add(Vec2{3, 4})
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	got := Vec2{3, 4}.Length()
	if got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestBarycentric(t *testing.T) {
	a, b, c := Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1}
	got := Barycentric(a, b, c, 0.5, 0.25, 0.25)
	if got != (Vec2{0.25, 0.25}) {
		t.Errorf("Barycentric() = %v, want (0.25, 0.25)", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3MinMax(t *testing.T) {
	a, b := Vec3{1, 5, -2}, Vec3{3, -1, 0}
	if a.Min(b) != (Vec3{1, -1, -2}) || a.Max(b) != (Vec3{3, 5, 0}) {
		t.Errorf("Min/Max: %v %v", a.Min(b), a.Max(b))
	}
}
