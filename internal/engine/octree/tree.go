package octree

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/verdant/pkg/math"
)

// Root growth wraps the current tree in a doubled parent; 64 doublings from
// any sane starting extent covers far more than the float32 range, so hitting
// the cap means the input was corrupt.
const maxGrowthSteps = 64

const defaultHalfExtent = 64

// Tree is the octree manager for one plant category. All mutations take the
// exclusive lock; queries take the shared lock, so query callbacks must not
// mutate the tree.
type Tree struct {
	mu       sync.RWMutex
	root     *node
	capacity int
	category string
	origin   math.Vec3
	log      *zap.SugaredLogger
}

// New creates an empty tree for a category, centered at center with the
// given half-extent. Non-positive capacity falls back to DefaultCapacity,
// non-positive halfExtent to a default working volume. A nil logger is
// replaced with a no-op one.
func New(category string, center math.Vec3, halfExtent float32, capacity int, log *zap.SugaredLogger) *Tree {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if halfExtent <= 0 {
		halfExtent = defaultHalfExtent
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Tree{
		root:     &node{bounds: Bounds{Center: center, HalfExtent: halfExtent}},
		capacity: capacity,
		category: category,
		origin:   center,
		log:      log.With("category", category),
	}
}

// Insert stores a new record at the given transform and returns its handle.
// The root bounds grow (doubling toward the position, keeping the existing
// subtree intact as one octant) until the position fits.
func (t *Tree) Insert(tr math.Transform) (*Record, error) {
	if !tr.IsFinite() {
		return nil, ErrInvalidTransform
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.growToInclude(tr.Position); err != nil {
		return nil, err
	}

	rec := &Record{Transform: tr, LOD: LODUnset, Category: t.category}
	t.root.insert(rec, t.capacity)
	return rec, nil
}

// Remove deletes a record by handle. Stale or foreign handles report
// ErrNotFound and leave the tree unchanged.
func (t *Tree) Remove(rec *Record) error {
	if rec == nil {
		return ErrNotFound
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.root.bounds.Contains(rec.Transform.Position) {
		return ErrNotFound
	}
	if !t.root.remove(rec, t.capacity) {
		return ErrNotFound
	}
	return nil
}

// Reconfigure rebuilds the whole tree with a new leaf capacity. Capacity
// changes invalidate every split decision, so this is a full O(N log N)
// rebuild rather than an incremental fix-up. Record handles stay valid.
func (t *Tree) Reconfigure(capacity int) error {
	if capacity <= 0 {
		return errors.Errorf("octree: invalid leaf capacity %d", capacity)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	recs := make([]*Record, 0, t.root.count)
	t.root.collect(&recs)

	t.capacity = capacity
	t.rebuild(t.root.bounds, recs)
	t.log.Debugw("reconfigured octree", "capacity", capacity, "records", len(recs))
	return nil
}

// Recenter recomputes a tight root cube around the stored records and
// rebuilds, reclaiming empty space accumulated through edits. No record
// transform changes; only bounds and internal structure do.
func (t *Tree) Recenter() {
	t.mu.Lock()
	defer t.mu.Unlock()

	recs := make([]*Record, 0, t.root.count)
	t.root.collect(&recs)

	if len(recs) == 0 {
		t.rebuild(Bounds{Center: t.origin, HalfExtent: defaultHalfExtent}, nil)
		return
	}

	min := recs[0].Transform.Position
	max := min
	for _, r := range recs[1:] {
		p := r.Transform.Position
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}

	size := max.Sub(min)
	half := size.X / 2
	if size.Y/2 > half {
		half = size.Y / 2
	}
	if size.Z/2 > half {
		half = size.Z / 2
	}
	// Slight padding keeps boundary records strictly inside after float
	// rounding.
	half = half*1.001 + 1e-3

	center := min.Add(max).Scale(0.5)
	t.origin = center
	t.rebuild(Bounds{Center: center, HalfExtent: half}, recs)
	t.log.Debugw("recentered octree", "center", center, "half_extent", half, "records", len(recs))
}

// rebuild replaces the node structure, reinserting the given records.
// Handles are preserved: the same *Record values land in the new nodes.
func (t *Tree) rebuild(b Bounds, recs []*Record) {
	t.root = &node{bounds: b}
	for _, r := range recs {
		t.root.insert(r, t.capacity)
	}
}

// growToInclude doubles the root bounds toward p until it is contained.
func (t *Tree) growToInclude(p math.Vec3) error {
	for steps := 0; !t.root.bounds.Contains(p); steps++ {
		if steps >= maxGrowthSteps {
			return errors.Wrapf(ErrBoundsExpansion, "growing toward (%g, %g, %g)", p.X, p.Y, p.Z)
		}
		t.grow(p)
	}
	return nil
}

// grow wraps the current root as one octant of a parent cube with twice the
// half-extent, shifted toward p. The existing subtree structure is untouched.
func (t *Tree) grow(p math.Vec3) {
	old := t.root
	b := old.bounds

	newCenter := b.Center
	if p.X >= b.Center.X {
		newCenter.X += b.HalfExtent
	} else {
		newCenter.X -= b.HalfExtent
	}
	if p.Y >= b.Center.Y {
		newCenter.Y += b.HalfExtent
	} else {
		newCenter.Y -= b.HalfExtent
	}
	if p.Z >= b.Center.Z {
		newCenter.Z += b.HalfExtent
	} else {
		newCenter.Z -= b.HalfExtent
	}

	parent := &node{
		bounds: Bounds{Center: newCenter, HalfExtent: b.HalfExtent * 2},
		count:  old.count,
	}
	children := new([8]*node)
	for i := range children {
		children[i] = &node{bounds: parent.bounds.Child(i)}
	}
	// The old root's center is exactly one octant center of the parent.
	children[parent.bounds.Octant(b.Center)] = old
	parent.children = children

	t.root = parent
	t.log.Debugw("expanded octree bounds", "center", newCenter, "half_extent", parent.bounds.HalfExtent)
}

// ForEachInRadius visits every record whose position lies within radius of
// center, pruning subtrees whose bounds miss the sphere. Return false from
// fn to stop early.
func (t *Tree) ForEachInRadius(center math.Vec3, radius float32, fn func(*Record) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.root.forEachInRadius(center, radius, fn)
}

// ForEach visits every stored record. Return false from fn to stop early.
func (t *Tree) ForEach(fn func(*Record) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.root.forEach(fn)
}

// WalkNodes visits every node of the tree (internal and leaf) for debug
// visualization. Return false from fn to stop early.
func (t *Tree) WalkNodes(fn func(b Bounds, depth, count int, leaf bool) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.root.walk(0, fn)
}

// EvaluateNodes exposes a pruning traversal for per-frame LOD evaluation:
// fn is called for each node top-down with its bounds and leaf payload and
// returns whether to descend into the node's children.
func (t *Tree) EvaluateNodes(fn func(b Bounds, records []*Record, leaf bool) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var visit func(n *node)
	visit = func(n *node) {
		if !fn(n.bounds, n.records, n.children == nil) {
			return
		}
		if n.children != nil {
			for _, c := range n.children {
				visit(c)
			}
		}
	}
	visit(t.root)
}

// Len returns the number of stored records.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.count
}

// Bounds returns the current root bounds.
func (t *Tree) Bounds() Bounds {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.bounds
}

// Capacity returns the configured leaf capacity.
func (t *Tree) Capacity() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.capacity
}

// Category returns the owning category's identifier.
func (t *Tree) Category() string {
	return t.category
}
