// Package lod selects which representation each painted plant should show
// based on its distance to the camera.
package lod

import (
	"github.com/Faultbox/verdant/internal/engine/octree"
)

// Variant is one representation of a category, from most detailed (index 0)
// to least detailed (last index).
type Variant struct {
	Mesh string `yaml:"mesh"`
	// Companion names an optional spatial that is swapped alongside the
	// mesh (collision shape, impostor billboard).
	Companion string `yaml:"companion,omitempty"`
}

// Config holds the distance thresholds for one category.
type Config struct {
	Variants []Variant `yaml:"variants"`

	// MaxDistance spans the variant bands: band i covers
	// [i, i+1) * MaxDistance / len(Variants). Records beyond MaxDistance
	// stay at the last (lowest-detail) variant unless killed.
	MaxDistance float32 `yaml:"max_distance"`

	// KillDistance hides records entirely beyond it. Negative disables
	// killing.
	KillDistance float32 `yaml:"kill_distance"`
}

// KillEnabled reports whether the kill distance is active.
func (c Config) KillEnabled() bool {
	return c.KillDistance >= 0
}

// IndexFor maps a camera distance to a variant index, or octree.LODHidden
// when the record should show nothing. The mapping is linear across
// len(Variants) bands spanning [0, MaxDistance]; more distant always means a
// higher index (lower detail).
func (c Config) IndexFor(dist float32) int {
	n := len(c.Variants)
	if n == 0 {
		// No variants configured: a valid empty-category state, not an
		// error.
		return octree.LODHidden
	}
	if c.KillEnabled() && dist > c.KillDistance {
		return octree.LODHidden
	}
	if c.MaxDistance <= 0 {
		return n - 1
	}
	idx := int(dist / c.MaxDistance * float32(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
