package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()
	length := math32.Sqrt(n.Dot(n))
	if math32.Abs(length-1.0) > 0.0001 {
		t.Errorf("normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatRotateVec3(t *testing.T) {
	// 90 degrees around Y carries +X onto -Z.
	q := QuatFromAxisAngle(Vec3{Y: 1}, math32.Pi/2)
	got := q.RotateVec3(Vec3{X: 1})
	want := Vec3{Z: -1}
	if got.Distance(want) > 0.0001 {
		t.Errorf("RotateVec3() = %v, want %v", got, want)
	}
}

func TestQuatBetweenVectors(t *testing.T) {
	from := Vec3{Y: 1}
	to := Vec3{X: 1}
	q := QuatBetweenVectors(from, to)
	got := q.RotateVec3(from)
	if got.Distance(to) > 0.0001 {
		t.Errorf("QuatBetweenVectors rotation carried %v to %v, want %v", from, got, to)
	}
}

func TestQuatBetweenVectorsParallel(t *testing.T) {
	v := Vec3{Y: 1}
	q := QuatBetweenVectors(v, v)
	if q != QuatIdentity() {
		t.Errorf("parallel vectors should give identity, got %v", q)
	}
}

func TestQuatBetweenVectorsOpposite(t *testing.T) {
	from := Vec3{Y: 1}
	to := Vec3{Y: -1}
	q := QuatBetweenVectors(from, to)
	got := q.RotateVec3(from)
	if got.Distance(to) > 0.001 {
		t.Errorf("opposite vectors: rotation carried %v to %v, want %v", from, got, to)
	}
}

func TestQuatFromEulerYaw(t *testing.T) {
	// Pure yaw of 90 degrees carries +Z onto +X.
	q := QuatFromEuler(math32.Pi/2, 0, 0)
	got := q.RotateVec3(Vec3{Z: 1})
	want := Vec3{X: 1}
	if got.Distance(want) > 0.0001 {
		t.Errorf("QuatFromEuler yaw: got %v, want %v", got, want)
	}
}

func TestQuatSlerpEndpoints(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{Y: 1}, math32.Pi/2)

	r0 := q1.Slerp(q2, 0)
	if math32.Abs(r0.W-q1.W) > 0.001 {
		t.Error("Slerp at t=0 should equal first quaternion")
	}

	r1 := q1.Slerp(q2, 1)
	if math32.Abs(r1.W-q2.W) > 0.001 {
		t.Error("Slerp at t=1 should equal second quaternion")
	}
}
