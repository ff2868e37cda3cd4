package math

// Transform is a 3D affine transform decomposed into position, rotation and
// per-axis scale.
type Transform struct {
	Position Vec3 `yaml:"position"`
	Rotation Quat `yaml:"rotation"`
	Scale    Vec3 `yaml:"scale"`
}

// NewTransform returns a transform at the given position with identity
// rotation and unit scale.
func NewTransform(position Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: QuatIdentity(),
		Scale:    Vec3{1, 1, 1},
	}
}

// Mat4 composes the transform into a matrix (scale, then rotate, then translate).
func (t Transform) Mat4() Mat4 {
	return Translate(t.Position).Mul(t.Rotation.ToMat4()).Mul(ScaleMat(t.Scale))
}

// IsFinite reports whether every component of the transform is finite.
func (t Transform) IsFinite() bool {
	return t.Position.IsFinite() && t.Rotation.IsFinite() && t.Scale.IsFinite()
}
