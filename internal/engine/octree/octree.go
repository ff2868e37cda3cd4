// Package octree implements the spatial index used for painted vegetation.
//
// Each plant category owns one Tree. A Tree stores Records (one per placed
// plant) in axis-aligned cubic nodes that subdivide into eight octants when a
// leaf exceeds its configured capacity. Queries descend only into nodes whose
// bounds intersect the query sphere, so localized lookups stay sublinear in
// the total record count.
package octree

import "github.com/pkg/errors"

// DefaultCapacity is the leaf capacity used when none is configured.
const DefaultCapacity = 75

// LOD sentinel values stored in Record.LOD.
const (
	// LODUnset marks a record that has never been through LOD evaluation.
	LODUnset = -2
	// LODHidden marks a record beyond its category's kill distance (or in a
	// category with no variants); it has no representation at all.
	LODHidden = -1
)

// Errors reported by Tree mutations.
var (
	// ErrInvalidTransform is returned when an insert carries NaN or
	// infinite components. The tree is left unchanged.
	ErrInvalidTransform = errors.New("octree: transform has non-finite components")

	// ErrNotFound is returned when a removal targets a record that is not
	// (or no longer) stored in the tree.
	ErrNotFound = errors.New("octree: record not found")

	// ErrBoundsExpansion is returned when growing the root bounds toward an
	// insert position fails to converge. Coordinates are assumed to stay
	// within a bounded working volume, so this indicates corrupt input.
	ErrBoundsExpansion = errors.New("octree: bounds expansion did not converge")
)
