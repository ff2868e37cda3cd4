package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/verdant/pkg/math"
)

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 1, Y: 10, Z: 2}, Direction: math.Vec3{Y: -1}}
	p, ok := r.IntersectPlaneY(4)
	if !ok {
		t.Fatal("vertical ray missed the plane")
	}
	if p.X != 1 || p.Y != 4 || p.Z != 2 {
		t.Errorf("hit = %+v, want (1, 4, 2)", p)
	}

	if _, ok := r.IntersectPlaneY(20); ok {
		t.Error("plane behind the origin reported a hit")
	}
	flat := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1}}
	if _, ok := flat.IntersectPlaneY(4); ok {
		t.Error("parallel ray reported a hit")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	r := Ray{Origin: math.Vec3{X: -5}, Direction: math.Vec3{X: 1}}
	d, hit := r.IntersectAABB(box)
	if !hit || math32.Abs(d-4) > 1e-5 {
		t.Errorf("entry distance = %v (hit %v), want 4", d, hit)
	}

	// Origin inside: expect the exit distance.
	inside := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}
	d, hit = inside.IntersectAABB(box)
	if !hit || math32.Abs(d-1) > 1e-5 {
		t.Errorf("exit distance = %v (hit %v), want 1", d, hit)
	}

	miss := Ray{Origin: math.Vec3{X: -5, Y: 3}, Direction: math.Vec3{X: 1}}
	if _, hit := miss.IntersectAABB(box); hit {
		t.Error("offset ray reported a hit")
	}
	behind := Ray{Origin: math.Vec3{X: 5}, Direction: math.Vec3{X: 1}}
	if _, hit := behind.IntersectAABB(box); hit {
		t.Error("box behind the ray reported a hit")
	}
}

func TestNewAABBSwapsCorners(t *testing.T) {
	box := NewAABB(math.Vec3{X: 2, Y: -3, Z: 5}, math.Vec3{X: -2, Y: 3, Z: -5})
	if box.Min.X != -2 || box.Min.Y != -3 || box.Min.Z != -5 {
		t.Errorf("Min = %+v", box.Min)
	}
	if box.Max.X != 2 || box.Max.Y != 3 || box.Max.Z != 5 {
		t.Errorf("Max = %+v", box.Max)
	}
}

func TestScreenToRayCenter(t *testing.T) {
	proj := math.Perspective(math32.Pi/4, 16.0/9.0, 0.1, 1000)
	view := math.LookAt(math.Vec3{Y: 10, Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	inv := proj.Mul(view).Inverse()

	// The screen-center ray must run from the camera toward the look-at
	// target.
	r := ScreenToRay(640, 360, 1280, 720, inv)
	want := math.Vec3{}.Sub(math.Vec3{Y: 10, Z: 10}).Normalize()
	if r.Direction.Sub(want).Length() > 1e-3 {
		t.Errorf("center ray direction = %+v, want %+v", r.Direction, want)
	}
}
