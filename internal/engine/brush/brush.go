// Package brush turns stroke events from the painter into octree mutations:
// painting places new plants on the collision surface, erasing removes them,
// reapplying re-rolls their randomized transform in place.
package brush

import "github.com/Faultbox/verdant/pkg/math"

// Mode selects what a stroke does to the records under it.
type Mode int

const (
	ModePaint Mode = iota
	ModeErase
	ModeReapply
)

// String returns the mode name for logging and UI.
func (m Mode) String() string {
	switch m {
	case ModePaint:
		return "paint"
	case ModeErase:
		return "erase"
	case ModeReapply:
		return "reapply"
	}
	return "unknown"
}

// Brush describes one stroke's shape and intensity.
type Brush struct {
	Mode     Mode
	Radius   float32
	Strength float32 // scales paint density, 0..1
}

// Hit is a collision query result.
type Hit struct {
	Point  math.Vec3
	Normal math.Vec3
}

// Raycaster is the external collision provider used for surface placement.
type Raycaster interface {
	// Raycast traces from origin along dir and returns the first surface
	// hit whose layer intersects mask, if any.
	Raycast(origin, dir math.Vec3, mask uint32) (Hit, bool)
}
