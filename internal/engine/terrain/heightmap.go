// Package terrain provides the demo ground surface: a procedurally generated
// heightmap with bilinear height lookup, normals, and the ray queries the
// paint brush places plants with.
package terrain

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/Faultbox/verdant/internal/engine/brush"
	"github.com/Faultbox/verdant/pkg/math"
)

// LayerGround is the collision layer bit the terrain answers rays on.
const LayerGround uint32 = 1

// Heightmap is a square grid of corner heights. Cell (x, z) spans world
// coordinates [x*CellSize, (x+1)*CellSize) on each axis; the grid has
// Size*Size cells and (Size+1)^2 corners.
type Heightmap struct {
	heights  []float32
	size     int
	cellSize float32
}

// Generate builds a heightmap from layered value noise. The same seed always
// produces the same terrain.
func Generate(seed int64, size int, cellSize, amplitude float32) *Heightmap {
	if size < 1 {
		size = 1
	}
	if cellSize <= 0 {
		cellSize = 1
	}

	h := &Heightmap{
		heights:  make([]float32, (size+1)*(size+1)),
		size:     size,
		cellSize: cellSize,
	}

	// Three octaves of value noise, each half the amplitude and twice the
	// frequency of the previous.
	rng := rand.New(rand.NewSource(seed))
	octaves := []struct {
		cells int
		amp   float32
	}{
		{8, amplitude},
		{16, amplitude / 2},
		{32, amplitude / 4},
	}

	for _, oct := range octaves {
		lattice := make([]float32, (oct.cells+1)*(oct.cells+1))
		for i := range lattice {
			lattice[i] = (rng.Float32()*2 - 1) * oct.amp
		}
		for z := 0; z <= size; z++ {
			for x := 0; x <= size; x++ {
				fx := float32(x) / float32(size) * float32(oct.cells)
				fz := float32(z) / float32(size) * float32(oct.cells)
				h.heights[z*(size+1)+x] += sampleLattice(lattice, oct.cells, fx, fz)
			}
		}
	}
	return h
}

// sampleLattice bilinearly interpolates a (cells+1)^2 value grid at (fx, fz).
func sampleLattice(lattice []float32, cells int, fx, fz float32) float32 {
	ix, iz := int(fx), int(fz)
	if ix >= cells {
		ix = cells - 1
	}
	if iz >= cells {
		iz = cells - 1
	}
	tx := smoothstep(fx - float32(ix))
	tz := smoothstep(fz - float32(iz))

	stride := cells + 1
	h00 := lattice[iz*stride+ix]
	h10 := lattice[iz*stride+ix+1]
	h01 := lattice[(iz+1)*stride+ix]
	h11 := lattice[(iz+1)*stride+ix+1]

	south := h00 + (h10-h00)*tx
	north := h01 + (h11-h01)*tx
	return south + (north-south)*tz
}

func smoothstep(t float32) float32 {
	return t * t * (3 - 2*t)
}

// Size returns the number of cells per side.
func (h *Heightmap) Size() int { return h.size }

// CellSize returns the world-unit width of one cell.
func (h *Heightmap) CellSize() float32 { return h.cellSize }

// Extent returns the world-unit length of one terrain side.
func (h *Heightmap) Extent() float32 { return float32(h.size) * h.cellSize }

// cornerHeight returns the stored height at a corner, clamped to the grid.
func (h *Heightmap) cornerHeight(x, z int) float32 {
	if x < 0 {
		x = 0
	}
	if z < 0 {
		z = 0
	}
	if x > h.size {
		x = h.size
	}
	if z > h.size {
		z = h.size
	}
	return h.heights[z*(h.size+1)+x]
}

// HeightAt returns the bilinearly interpolated surface height at a world
// position. Positions outside the grid clamp to the border.
func (h *Heightmap) HeightAt(x, z float32) float32 {
	fx := x / h.cellSize
	fz := z / h.cellSize

	cx := int(math32.Floor(fx))
	cz := int(math32.Floor(fz))
	if cx < 0 {
		cx = 0
	}
	if cz < 0 {
		cz = 0
	}
	if cx >= h.size {
		cx = h.size - 1
	}
	if cz >= h.size {
		cz = h.size - 1
	}

	tx := clamp01(fx - float32(cx))
	tz := clamp01(fz - float32(cz))

	h00 := h.cornerHeight(cx, cz)
	h10 := h.cornerHeight(cx+1, cz)
	h01 := h.cornerHeight(cx, cz+1)
	h11 := h.cornerHeight(cx+1, cz+1)

	south := h00 + (h10-h00)*tx
	north := h01 + (h11-h01)*tx
	return south + (north-south)*tz
}

// NormalAt returns the surface normal at a world position, from central
// differences of the height field.
func (h *Heightmap) NormalAt(x, z float32) math.Vec3 {
	eps := h.cellSize * 0.5
	dx := h.HeightAt(x+eps, z) - h.HeightAt(x-eps, z)
	dz := h.HeightAt(x, z+eps) - h.HeightAt(x, z-eps)
	return math.Vec3{X: -dx, Y: 2 * eps, Z: -dz}.Normalize()
}

// Raycast marches a ray against the height field and returns the first
// surface crossing, refined by bisection. It satisfies the brush collision
// interface; rays on other layers than LayerGround miss.
func (h *Heightmap) Raycast(origin, dir math.Vec3, mask uint32) (brush.Hit, bool) {
	if mask&LayerGround == 0 {
		return brush.Hit{}, false
	}
	if dir.LengthSq() < 1e-12 {
		return brush.Hit{}, false
	}
	dir = dir.Normalize()

	// March in steps of half a cell up to twice the terrain diagonal.
	step := h.cellSize * 0.5
	limit := h.Extent() * 2.83

	prev := origin
	prevAbove := origin.Y > h.HeightAt(origin.X, origin.Z)
	if !prevAbove {
		return brush.Hit{}, false
	}

	for t := step; t <= limit; t += step {
		p := origin.Add(dir.Scale(t))
		if p.Y > h.HeightAt(p.X, p.Z) {
			prev = p
			continue
		}

		// Bisect the crossing between prev (above) and p (below).
		a, b := prev, p
		for i := 0; i < 16; i++ {
			mid := a.Add(b).Scale(0.5)
			if mid.Y > h.HeightAt(mid.X, mid.Z) {
				a = mid
			} else {
				b = mid
			}
		}
		hit := a.Add(b).Scale(0.5)
		hit.Y = h.HeightAt(hit.X, hit.Z)
		return brush.Hit{Point: hit, Normal: h.NormalAt(hit.X, hit.Z)}, true
	}
	return brush.Hit{}, false
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
