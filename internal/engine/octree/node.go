package octree

import "github.com/Faultbox/verdant/pkg/math"

// Leaves stop subdividing once their half-extent reaches this value, so a
// pile of coincident records degrades to one oversized leaf instead of
// recursing forever.
const minSplitExtent = 1e-3

// node is one cube of the spatial partition. A node is either a leaf
// (children == nil, records holds the payload) or internal (children set,
// records empty). count is the number of records in the whole subtree.
type node struct {
	bounds   Bounds
	count    int
	records  []*Record
	children *[8]*node
}

func (n *node) insert(rec *Record, capacity int) {
	n.count++
	if n.children == nil {
		n.records = append(n.records, rec)
		if len(n.records) > capacity && n.bounds.HalfExtent > minSplitExtent {
			n.subdivide(capacity)
		}
		return
	}
	n.children[n.bounds.Octant(rec.Transform.Position)].insert(rec, capacity)
}

// subdivide turns a leaf into an internal node with eight child leaves and
// redistributes its records. Children that still exceed capacity subdivide
// again until the geometric limit.
func (n *node) subdivide(capacity int) {
	children := new([8]*node)
	for i := range children {
		children[i] = &node{bounds: n.bounds.Child(i)}
	}

	recs := n.records
	n.records = nil
	n.children = children

	for _, r := range recs {
		c := children[n.bounds.Octant(r.Transform.Position)]
		c.count++
		c.records = append(c.records, r)
	}
	for _, c := range children {
		if len(c.records) > capacity && c.bounds.HalfExtent > minSplitExtent {
			c.subdivide(capacity)
		}
	}
}

// remove descends by the record's position and removes it from its leaf.
// Internal nodes whose subtree shrinks to at most capacity records coalesce
// their children back into a single leaf.
func (n *node) remove(rec *Record, capacity int) bool {
	if n.children == nil {
		for i, r := range n.records {
			if r == rec {
				n.records = append(n.records[:i], n.records[i+1:]...)
				n.count--
				return true
			}
		}
		return false
	}

	if !n.children[n.bounds.Octant(rec.Transform.Position)].remove(rec, capacity) {
		return false
	}
	n.count--
	if n.count <= capacity {
		n.merge()
	}
	return true
}

// merge collapses an internal node back into a leaf holding its subtree's
// records.
func (n *node) merge() {
	recs := make([]*Record, 0, n.count)
	n.collect(&recs)
	n.children = nil
	n.records = recs
}

func (n *node) collect(into *[]*Record) {
	if n.children == nil {
		*into = append(*into, n.records...)
		return
	}
	for _, c := range n.children {
		c.collect(into)
	}
}

func (n *node) forEach(fn func(*Record) bool) bool {
	if n.children == nil {
		for _, r := range n.records {
			if !fn(r) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		if !c.forEach(fn) {
			return false
		}
	}
	return true
}

func (n *node) forEachInRadius(center math.Vec3, radius float32, fn func(*Record) bool) bool {
	if !n.bounds.IntersectsSphere(center, radius) {
		return true
	}
	if n.children == nil {
		rr := radius * radius
		for _, r := range n.records {
			if r.Transform.Position.DistanceSq(center) <= rr {
				if !fn(r) {
					return false
				}
			}
		}
		return true
	}
	for _, c := range n.children {
		if !c.forEachInRadius(center, radius, fn) {
			return false
		}
	}
	return true
}

func (n *node) walk(depth int, fn func(b Bounds, depth, count int, leaf bool) bool) bool {
	if !fn(n.bounds, depth, n.count, n.children == nil) {
		return false
	}
	if n.children != nil {
		for _, c := range n.children {
			if !c.walk(depth+1, fn) {
				return false
			}
		}
	}
	return true
}
