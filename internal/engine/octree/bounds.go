package octree

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/verdant/pkg/math"
)

// Bounds is an axis-aligned cube described by its center and half-extent.
type Bounds struct {
	Center     math.Vec3
	HalfExtent float32
}

// Contains reports whether p lies inside the cube. Both faces are closed so
// points on the boundary are never lost between sibling checks.
func (b Bounds) Contains(p math.Vec3) bool {
	return p.X >= b.Center.X-b.HalfExtent && p.X <= b.Center.X+b.HalfExtent &&
		p.Y >= b.Center.Y-b.HalfExtent && p.Y <= b.Center.Y+b.HalfExtent &&
		p.Z >= b.Center.Z-b.HalfExtent && p.Z <= b.Center.Z+b.HalfExtent
}

// Octant returns the child octant index for p as a 3-bit mask: bit 0 set when
// p.X >= center.X, bit 1 for Y, bit 2 for Z. A point exactly on a midpoint
// plane therefore always goes to the positive octant.
func (b Bounds) Octant(p math.Vec3) int {
	idx := 0
	if p.X >= b.Center.X {
		idx |= 1
	}
	if p.Y >= b.Center.Y {
		idx |= 2
	}
	if p.Z >= b.Center.Z {
		idx |= 4
	}
	return idx
}

// Child returns the bounds of the given octant.
func (b Bounds) Child(octant int) Bounds {
	h := b.HalfExtent / 2
	c := b.Center
	if octant&1 != 0 {
		c.X += h
	} else {
		c.X -= h
	}
	if octant&2 != 0 {
		c.Y += h
	} else {
		c.Y -= h
	}
	if octant&4 != 0 {
		c.Z += h
	} else {
		c.Z -= h
	}
	return Bounds{Center: c, HalfExtent: h}
}

// IntersectsSphere reports whether the cube intersects the sphere at center c
// with radius r, using the squared distance from c to the nearest point of
// the cube.
func (b Bounds) IntersectsSphere(c math.Vec3, r float32) bool {
	return b.distanceSqTo(c) <= r*r
}

// distanceSqTo returns the squared distance from p to the nearest point of
// the cube (zero when p is inside).
func (b Bounds) distanceSqTo(p math.Vec3) float32 {
	var d float32
	for _, axis := range [3][2]float32{
		{p.X, b.Center.X},
		{p.Y, b.Center.Y},
		{p.Z, b.Center.Z},
	} {
		delta := axis[0] - axis[1]
		if delta < 0 {
			delta = -delta
		}
		if excess := delta - b.HalfExtent; excess > 0 {
			d += excess * excess
		}
	}
	return d
}

// MinDistanceTo returns the distance from p to the nearest point of the cube
// (zero when p is inside).
func (b Bounds) MinDistanceTo(p math.Vec3) float32 {
	return math32.Sqrt(b.distanceSqTo(p))
}

// MaxDistanceTo returns the distance from p to the farthest corner of the cube.
func (b Bounds) MaxDistanceTo(p math.Vec3) float32 {
	var d float32
	for _, axis := range [3][2]float32{
		{p.X, b.Center.X},
		{p.Y, b.Center.Y},
		{p.Z, b.Center.Z},
	} {
		delta := axis[0] - axis[1]
		if delta < 0 {
			delta = -delta
		}
		far := delta + b.HalfExtent
		d += far * far
	}
	return math32.Sqrt(d)
}
