// Package debug builds the editor's overlay geometry: octree wireframes and
// the brush cursor disc.
package debug

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/pkg/math"
)

// BoxWireframeVertexCount is the vertex count of one box wireframe
// (12 edges, 2 endpoints each).
const BoxWireframeVertexCount = 24

// BoxWireframeVertices returns line-list vertices for a wireframe box,
// packed as [x, y, z] per vertex.
func BoxWireframeVertices(min, max math.Vec3) []float32 {
	return []float32{
		// Bottom face
		min.X, min.Y, min.Z, max.X, min.Y, min.Z,
		max.X, min.Y, min.Z, max.X, min.Y, max.Z,
		max.X, min.Y, max.Z, min.X, min.Y, max.Z,
		min.X, min.Y, max.Z, min.X, min.Y, min.Z,
		// Top face
		min.X, max.Y, min.Z, max.X, max.Y, min.Z,
		max.X, max.Y, min.Z, max.X, max.Y, max.Z,
		max.X, max.Y, max.Z, min.X, max.Y, max.Z,
		min.X, max.Y, max.Z, min.X, max.Y, min.Z,
		// Vertical edges
		min.X, min.Y, min.Z, min.X, max.Y, min.Z,
		max.X, min.Y, min.Z, max.X, max.Y, min.Z,
		max.X, min.Y, max.Z, max.X, max.Y, max.Z,
		min.X, min.Y, max.Z, min.X, max.Y, max.Z,
	}
}

// OctreeWireframe returns line-list vertices outlining every node of the
// tree. Empty leaves are skipped to keep the overlay readable.
func OctreeWireframe(tree *octree.Tree) []float32 {
	var verts []float32
	tree.WalkNodes(func(b octree.Bounds, depth, count int, leaf bool) bool {
		if leaf && count == 0 {
			return true
		}
		ext := math.Vec3{X: b.HalfExtent, Y: b.HalfExtent, Z: b.HalfExtent}
		verts = append(verts, BoxWireframeVertices(b.Center.Sub(ext), b.Center.Add(ext))...)
		return true
	})
	return verts
}

// BrushDiscSegments is the segment count of the brush cursor ring.
const BrushDiscSegments = 48

// BrushDisc returns line-list vertices for a circle of the given radius
// around center, lying in the plane perpendicular to normal.
func BrushDisc(center math.Vec3, radius float32, normal math.Vec3) []float32 {
	if normal.LengthSq() < 1e-8 {
		normal = math.Vec3{Y: 1}
	}
	normal = normal.Normalize()

	// Build a tangent basis around the normal.
	ref := math.Vec3{X: 1}
	if math32.Abs(normal.X) > 0.9 {
		ref = math.Vec3{Z: 1}
	}
	u := normal.Cross(ref).Normalize()
	v := normal.Cross(u)

	verts := make([]float32, 0, BrushDiscSegments*6)
	prev := center.Add(u.Scale(radius))
	for i := 1; i <= BrushDiscSegments; i++ {
		angle := float32(i) / BrushDiscSegments * 2 * math32.Pi
		p := center.
			Add(u.Scale(radius * math32.Cos(angle))).
			Add(v.Scale(radius * math32.Sin(angle)))
		verts = append(verts, prev.X, prev.Y, prev.Z, p.X, p.Y, p.Z)
		prev = p
	}
	return verts
}
