package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := math32.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)
	if abs(length-1) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4Identity(t *testing.T) {
	m := QuatIdentity().ToMat4()
	id := Identity()
	for i := 0; i < 16; i++ {
		if abs(m[i]-id[i]) > 0.0001 {
			t.Errorf("element %d: got %v, want %v", i, m[i], id[i])
		}
	}
}

func TestQuatFromEulerMatchesAxisAngle(t *testing.T) {
	tests := []struct {
		name             string
		pitch, yaw, roll float32
		axis             Vec3
		angle            float32
	}{
		{"yaw 180", 0, math32.Pi, 0, Vec3{0, 1, 0}, math32.Pi},
		{"yaw -90", 0, -math32.Pi / 2, 0, Vec3{0, 1, 0}, -math32.Pi / 2},
		{"pitch -90", -math32.Pi / 2, 0, 0, Vec3{1, 0, 0}, -math32.Pi / 2},
		{"roll 45", 0, 0, math32.Pi / 4, Vec3{0, 0, 1}, math32.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := QuatFromEuler(tt.pitch, tt.yaw, tt.roll)
			b := QuatFromAxisAngle(tt.axis, tt.angle)
			if abs(a.X-b.X) > 1e-5 || abs(a.Y-b.Y) > 1e-5 || abs(a.Z-b.Z) > 1e-5 || abs(a.W-b.W) > 1e-5 {
				t.Errorf("got %+v, want %+v", a, b)
			}
		})
	}
}

func TestQuatRotate(t *testing.T) {
	// 90 degrees around Y maps +X onto -Z
	q := QuatFromAxisAngle(Vec3{0, 1, 0}, math32.Pi/2)
	got := q.Rotate(Vec3{1, 0, 0})
	if abs(got.X) > 1e-5 || abs(got.Y) > 1e-5 || abs(got.Z+1) > 1e-5 {
		t.Errorf("Rotate: got %v, want (0, 0, -1)", got)
	}
}

func TestQuatMulComposes(t *testing.T) {
	half := QuatFromAxisAngle(Vec3{0, 0, 1}, math32.Pi/4)
	full := QuatFromAxisAngle(Vec3{0, 0, 1}, math32.Pi/2)
	got := half.Mul(half)
	if abs(got.Z-full.Z) > 1e-5 || abs(got.W-full.W) > 1e-5 {
		t.Errorf("q*q: got %+v, want %+v", got, full)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp out of range")
	}
}
