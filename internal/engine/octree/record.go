package octree

import "github.com/Faultbox/verdant/pkg/math"

// Record is a single placed plant. The pointer itself is the stable handle
// used for removal and in-place updates.
//
// Transform.Position must not change while the record is stored: removal and
// rebuilds locate the record by descending on its position. Rotation and
// scale may be rewritten freely (the reapply brush does exactly that).
type Record struct {
	Transform math.Transform

	// LOD is the index of the active representation, or one of the
	// LODUnset/LODHidden sentinels. Mutated only by the LOD evaluator.
	LOD int

	// Category is a weak back-reference to the owning category, kept for
	// lookup only; it carries no ownership.
	Category string
}
