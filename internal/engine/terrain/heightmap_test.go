package terrain

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/verdant/pkg/math"
)

func testMap() *Heightmap {
	return Generate(7, 64, 2, 12)
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(3, 32, 2, 10)
	b := Generate(3, 32, 2, 10)
	for i := range a.heights {
		if a.heights[i] != b.heights[i] {
			t.Fatalf("same seed produced different terrain at corner %d", i)
		}
	}

	c := Generate(4, 32, 2, 10)
	same := true
	for i := range a.heights {
		if a.heights[i] != c.heights[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical terrain")
	}
}

func TestHeightAtMatchesCorners(t *testing.T) {
	h := testMap()
	for z := 0; z <= h.Size(); z += 8 {
		for x := 0; x <= h.Size(); x += 8 {
			wx := float32(x) * h.CellSize()
			wz := float32(z) * h.CellSize()
			got := h.HeightAt(wx, wz)
			want := h.cornerHeight(x, z)
			if math32.Abs(got-want) > 1e-4 {
				t.Errorf("HeightAt(%v, %v) = %v, want corner height %v", wx, wz, got, want)
			}
		}
	}
}

func TestHeightAtInterpolatesBetweenCorners(t *testing.T) {
	h := testMap()
	// A cell-center sample must lie within the cell's corner height range.
	for z := 0; z < h.Size(); z += 5 {
		for x := 0; x < h.Size(); x += 5 {
			lo, hi := h.cornerHeight(x, z), h.cornerHeight(x, z)
			for _, c := range [][2]int{{x + 1, z}, {x, z + 1}, {x + 1, z + 1}} {
				v := h.cornerHeight(c[0], c[1])
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			mid := h.HeightAt((float32(x)+0.5)*h.CellSize(), (float32(z)+0.5)*h.CellSize())
			if mid < lo-1e-4 || mid > hi+1e-4 {
				t.Errorf("cell (%d,%d) center height %v outside corner range [%v, %v]",
					x, z, mid, lo, hi)
			}
		}
	}
}

func TestHeightAtClampsOutside(t *testing.T) {
	h := testMap()
	inside := h.HeightAt(0, 10)
	outside := h.HeightAt(-50, 10)
	if math32.Abs(inside-outside) > 1e-4 {
		t.Errorf("outside sample %v differs from clamped border %v", outside, inside)
	}
}

func TestNormalAtIsUnitAndUpFacing(t *testing.T) {
	h := testMap()
	for z := float32(1); z < h.Extent(); z += 13 {
		for x := float32(1); x < h.Extent(); x += 13 {
			n := h.NormalAt(x, z)
			if math32.Abs(n.Length()-1) > 1e-4 {
				t.Errorf("NormalAt(%v, %v) not unit: %+v", x, z, n)
			}
			if n.Y <= 0 {
				t.Errorf("NormalAt(%v, %v) not up-facing: %+v", x, z, n)
			}
		}
	}
}

func TestRaycastHitsSurface(t *testing.T) {
	h := testMap()
	for _, target := range []math.Vec3{
		{X: 20, Z: 20},
		{X: 100, Z: 37},
		{X: 63.5, Z: 99.1},
	} {
		origin := math.Vec3{X: target.X, Y: 200, Z: target.Z}
		hit, ok := h.Raycast(origin, math.Vec3{Y: -1}, LayerGround)
		if !ok {
			t.Fatalf("vertical ray at (%v, %v) missed", target.X, target.Z)
		}
		want := h.HeightAt(target.X, target.Z)
		if math32.Abs(hit.Point.Y-want) > 0.05 {
			t.Errorf("hit height %v, want %v", hit.Point.Y, want)
		}
		if hit.Point.XZ().Sub(target.XZ()).Length() > 0.05 {
			t.Errorf("hit drifted horizontally: %+v, want (%v, %v)", hit.Point, target.X, target.Z)
		}
	}
}

func TestRaycastOblique(t *testing.T) {
	h := testMap()
	origin := math.Vec3{X: 10, Y: 100, Z: 10}
	dir := math.Vec3{X: 1, Y: -1, Z: 0.5}
	hit, ok := h.Raycast(origin, dir, LayerGround)
	if !ok {
		t.Fatal("oblique ray missed")
	}
	if math32.Abs(hit.Point.Y-h.HeightAt(hit.Point.X, hit.Point.Z)) > 0.05 {
		t.Errorf("oblique hit not on surface: %+v", hit.Point)
	}
}

func TestRaycastMaskAndMisses(t *testing.T) {
	h := testMap()
	origin := math.Vec3{X: 20, Y: 200, Z: 20}

	if _, ok := h.Raycast(origin, math.Vec3{Y: -1}, 2); ok {
		t.Error("ray on a foreign layer hit the ground")
	}
	if _, ok := h.Raycast(origin, math.Vec3{Y: 1}, LayerGround); ok {
		t.Error("upward ray hit the ground")
	}
	below := math.Vec3{X: 20, Y: -200, Z: 20}
	if _, ok := h.Raycast(below, math.Vec3{Y: -1}, LayerGround); ok {
		t.Error("ray starting under the surface hit the ground")
	}
}

func TestBuildMesh(t *testing.T) {
	h := Generate(7, 16, 2, 12)
	mesh := BuildMesh(h)

	wantVerts := 17 * 17
	if len(mesh.Vertices) != wantVerts {
		t.Errorf("vertices = %d, want %d", len(mesh.Vertices), wantVerts)
	}
	wantIndices := 16 * 16 * 6
	if len(mesh.Indices) != wantIndices {
		t.Errorf("indices = %d, want %d", len(mesh.Indices), wantIndices)
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
	if mesh.Bounds.Min[0] != 0 || mesh.Bounds.Max[0] != h.Extent() {
		t.Errorf("X bounds = [%v, %v], want [0, %v]",
			mesh.Bounds.Min[0], mesh.Bounds.Max[0], h.Extent())
	}
}
