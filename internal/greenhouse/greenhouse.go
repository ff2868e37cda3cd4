// Package greenhouse is the per-category configuration store: LOD variant
// lists, distance thresholds, paint density and randomization ranges. The
// core reads it; the host editor mutates it through typed setters that emit
// discrete change events.
package greenhouse

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/verdant/internal/engine/lod"
	"github.com/Faultbox/verdant/pkg/math"
)

// UpVector selects a reference up direction for placed plants: either a
// fixed world direction or the surface normal at the hit point.
type UpVector struct {
	UseNormal bool      `yaml:"use_normal"`
	Direction math.Vec3 `yaml:"direction"`
}

// Resolve returns the effective up direction given the surface normal.
func (u UpVector) Resolve(normal math.Vec3) math.Vec3 {
	if u.UseNormal {
		return normal
	}
	return u.Direction
}

// ScaleRange bounds the random scale applied on paint. With Uniform set, a
// single factor is sampled between Min.X and Max.X and applied to all axes;
// otherwise each axis samples its own range.
type ScaleRange struct {
	Uniform bool      `yaml:"uniform"`
	Min     math.Vec3 `yaml:"min"`
	Max     math.Vec3 `yaml:"max"`
}

// RotationRange bounds random rotation per axis in radians; each angle is
// sampled from [-value, +value].
type RotationRange struct {
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
	Roll  float32 `yaml:"roll"`
}

// Placement holds everything the paint brush needs to turn a surface hit
// into a plant transform.
type Placement struct {
	// PlantsPer100Units is the nominal density: expected plant count on a
	// 100x100 unit patch.
	PlantsPer100Units float32       `yaml:"plants_per_100_units"`
	Scale             ScaleRange    `yaml:"scale"`
	Rotation          RotationRange `yaml:"rotation"`

	// PrimaryUp and SecondaryUp are blended by UpVectorBlending:
	// 0 keeps the primary only, 1 the secondary only.
	PrimaryUp        UpVector `yaml:"primary_up"`
	SecondaryUp      UpVector `yaml:"secondary_up"`
	UpVectorBlending float32  `yaml:"up_vector_blending"`

	// CollisionMask limits which surface layers candidates may land on.
	CollisionMask uint32 `yaml:"collision_mask"`
}

// CategoryConfig is the full configuration of one plant category.
type CategoryConfig struct {
	Name      string     `yaml:"name"`
	LOD       lod.Config `yaml:"lod"`
	Placement Placement  `yaml:"placement"`

	// Version increments on every mutation through the store, so
	// consumers can cheaply detect staleness.
	Version int `yaml:"-"`
}

// DefaultCategory returns a category with workable paint and LOD defaults.
func DefaultCategory(name string) CategoryConfig {
	return CategoryConfig{
		Name: name,
		LOD: lod.Config{
			MaxDistance:  100,
			KillDistance: -1,
		},
		Placement: Placement{
			PlantsPer100Units: 400,
			Scale: ScaleRange{
				Uniform: true,
				Min:     math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
				Max:     math.Vec3{X: 1.2, Y: 1.2, Z: 1.2},
			},
			Rotation: RotationRange{
				Yaw: math32.Pi,
			},
			PrimaryUp:        UpVector{Direction: math.Vec3{Y: 1}},
			SecondaryUp:      UpVector{UseNormal: true},
			UpVectorBlending: 0.5,
			CollisionMask:    1,
		},
	}
}
