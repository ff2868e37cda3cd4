package terrain

// Vertex is one terrain mesh vertex ready for GPU upload.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

// Mesh holds the terrain render mesh.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds is the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// BuildMesh triangulates the heightmap into an indexed mesh with smooth
// per-vertex normals and a height-tinted color ramp.
func BuildMesh(h *Heightmap) *Mesh {
	size := h.Size()
	stride := size + 1

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, stride*stride),
		Indices:  make([]uint32, 0, size*size*6),
		Bounds: Bounds{
			Min: [3]float32{1e10, 1e10, 1e10},
			Max: [3]float32{-1e10, -1e10, -1e10},
		},
	}

	minH, maxH := h.cornerHeight(0, 0), h.cornerHeight(0, 0)
	for z := 0; z <= size; z++ {
		for x := 0; x <= size; x++ {
			y := h.cornerHeight(x, z)
			if y < minH {
				minH = y
			}
			if y > maxH {
				maxH = y
			}
		}
	}
	span := maxH - minH
	if span <= 0 {
		span = 1
	}

	for z := 0; z <= size; z++ {
		for x := 0; x <= size; x++ {
			wx := float32(x) * h.CellSize()
			wz := float32(z) * h.CellSize()
			wy := h.cornerHeight(x, z)
			n := h.NormalAt(wx, wz)

			// Low ground dark green, ridges light brown.
			t := (wy - minH) / span
			color := [4]float32{0.18 + 0.35*t, 0.38 + 0.12*t, 0.15 + 0.1*t, 1}

			v := Vertex{
				Position: [3]float32{wx, wy, wz},
				Normal:   [3]float32{n.X, n.Y, n.Z},
				Color:    color,
			}
			updateBounds(&mesh.Bounds, v.Position)
			mesh.Vertices = append(mesh.Vertices, v)
		}
	}

	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			i00 := uint32(z*stride + x)
			i10 := i00 + 1
			i01 := i00 + uint32(stride)
			i11 := i01 + 1
			mesh.Indices = append(mesh.Indices,
				i00, i01, i10,
				i10, i01, i11,
			)
		}
	}
	return mesh
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
