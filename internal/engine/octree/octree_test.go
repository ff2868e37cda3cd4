package octree

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/Faultbox/verdant/pkg/math"
)

func newTestTree(capacity int) *Tree {
	return New("pine", math.Vec3{}, 50, capacity, nil)
}

func randomPos(rng *rand.Rand, extent float32) math.Vec3 {
	return math.Vec3{
		X: (rng.Float32()*2 - 1) * extent,
		Y: (rng.Float32()*2 - 1) * extent,
		Z: (rng.Float32()*2 - 1) * extent,
	}
}

func collectAll(t *Tree) []*Record {
	var recs []*Record
	t.ForEach(func(r *Record) bool {
		recs = append(recs, r)
		return true
	})
	return recs
}

func TestInsertAndLen(t *testing.T) {
	tree := newTestTree(4)
	for i := 0; i < 10; i++ {
		if _, err := tree.Insert(math.NewTransform(math.Vec3{X: float32(i)})); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}
	if tree.Len() != 10 {
		t.Errorf("Len() = %d, want 10", tree.Len())
	}
}

func TestInsertInvalidTransform(t *testing.T) {
	tree := newTestTree(4)
	tr := math.NewTransform(math.Vec3{X: math32.NaN()})
	if _, err := tree.Insert(tr); !errors.Is(err, ErrInvalidTransform) {
		t.Errorf("Insert(NaN) error = %v, want ErrInvalidTransform", err)
	}
	tr = math.NewTransform(math.Vec3{Y: 1})
	tr.Scale.Z = math32.Inf(1)
	if _, err := tree.Insert(tr); !errors.Is(err, ErrInvalidTransform) {
		t.Errorf("Insert(Inf scale) error = %v, want ErrInvalidTransform", err)
	}
	if tree.Len() != 0 {
		t.Errorf("failed insert mutated the tree: Len() = %d", tree.Len())
	}
}

func TestInsertOutsideBoundsGrows(t *testing.T) {
	tree := newTestTree(4)
	before := tree.Bounds()

	rec, err := tree.Insert(math.NewTransform(math.Vec3{X: 500, Y: -300, Z: 120}))
	if err != nil {
		t.Fatalf("Insert() outside bounds error: %v", err)
	}

	after := tree.Bounds()
	if after.HalfExtent <= before.HalfExtent {
		t.Errorf("bounds did not grow: half extent %v -> %v", before.HalfExtent, after.HalfExtent)
	}
	if !after.Contains(rec.Transform.Position) {
		t.Error("grown bounds do not contain the inserted position")
	}
	// The original record volume is still reachable.
	if _, err := tree.Insert(math.NewTransform(math.Vec3{X: 1})); err != nil {
		t.Fatalf("Insert() near origin after growth: %v", err)
	}
	if tree.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tree.Len())
	}
}

func TestRemove(t *testing.T) {
	tree := newTestTree(4)
	rec, err := tree.Insert(math.NewTransform(math.Vec3{X: 3, Y: 4, Z: 5}))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	if err := tree.Remove(rec); err != nil {
		t.Errorf("Remove() error: %v", err)
	}
	if tree.Len() != 0 {
		t.Errorf("Len() after remove = %d, want 0", tree.Len())
	}

	// Stale handle: second removal reports ErrNotFound and is a no-op.
	if err := tree.Remove(rec); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(stale) error = %v, want ErrNotFound", err)
	}
	if err := tree.Remove(nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(nil) error = %v, want ErrNotFound", err)
	}
}

func TestRecordsReachableExactlyOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := newTestTree(8)

	live := map[*Record]bool{}
	for i := 0; i < 2000; i++ {
		if len(live) > 0 && rng.Float32() < 0.3 {
			// Remove a random live record.
			for rec := range live {
				if err := tree.Remove(rec); err != nil {
					t.Fatalf("Remove() error: %v", err)
				}
				delete(live, rec)
				break
			}
			continue
		}
		rec, err := tree.Insert(math.NewTransform(randomPos(rng, 200)))
		if err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
		live[rec] = true
	}

	bounds := tree.Bounds()
	seen := map[*Record]int{}
	tree.ForEach(func(r *Record) bool {
		seen[r]++
		if !bounds.Contains(r.Transform.Position) {
			t.Errorf("record at %v outside root bounds", r.Transform.Position)
		}
		return true
	})

	if len(seen) != len(live) {
		t.Fatalf("ForEach visited %d records, want %d", len(seen), len(live))
	}
	for rec, n := range seen {
		if n != 1 {
			t.Errorf("record visited %d times, want exactly once", n)
		}
		if !live[rec] {
			t.Error("ForEach returned a removed record")
		}
	}
}

func TestRadiusQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := newTestTree(6)

	for i := 0; i < 800; i++ {
		if _, err := tree.Insert(math.NewTransform(randomPos(rng, 100))); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	for trial := 0; trial < 20; trial++ {
		center := randomPos(rng, 100)
		radius := rng.Float32() * 60

		want := map[*Record]bool{}
		tree.ForEach(func(r *Record) bool {
			if r.Transform.Position.Distance(center) <= radius {
				want[r] = true
			}
			return true
		})

		got := map[*Record]bool{}
		tree.ForEachInRadius(center, radius, func(r *Record) bool {
			got[r] = true
			return true
		})

		if len(got) != len(want) {
			t.Fatalf("trial %d: radius query found %d records, brute force %d", trial, len(got), len(want))
		}
		for r := range want {
			if !got[r] {
				t.Errorf("trial %d: radius query missed record at %v", trial, r.Transform.Position)
			}
		}
	}
}

func TestReconfigurePreservesRecords(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tree := newTestTree(75)

	before := map[*Record]bool{}
	for i := 0; i < 500; i++ {
		rec, err := tree.Insert(math.NewTransform(randomPos(rng, 80)))
		if err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
		before[rec] = true
	}

	for _, capacity := range []int{1, 10, 200} {
		if err := tree.Reconfigure(capacity); err != nil {
			t.Fatalf("Reconfigure(%d) error: %v", capacity, err)
		}
		after := collectAll(tree)
		if len(after) != len(before) {
			t.Fatalf("after Reconfigure(%d): %d records, want %d", capacity, len(after), len(before))
		}
		for _, rec := range after {
			if !before[rec] {
				t.Fatalf("Reconfigure(%d) produced an unknown record handle", capacity)
			}
		}
	}

	if err := tree.Reconfigure(0); err == nil {
		t.Error("Reconfigure(0) should fail")
	}
	if err := tree.Reconfigure(-5); err == nil {
		t.Error("Reconfigure(-5) should fail")
	}
}

func TestRecenterKeepsTransforms(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	tree := newTestTree(10)

	type snapshot struct {
		rec *Record
		tr  math.Transform
	}
	var snaps []snapshot
	for i := 0; i < 300; i++ {
		// Cluster far from the original center so recentering has work to do.
		pos := randomPos(rng, 20).Add(math.Vec3{X: 400, Z: 400})
		rec, err := tree.Insert(math.NewTransform(pos))
		if err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
		snaps = append(snaps, snapshot{rec, rec.Transform})
	}

	oldHalf := tree.Bounds().HalfExtent
	tree.Recenter()
	newBounds := tree.Bounds()

	if newBounds.HalfExtent >= oldHalf {
		t.Errorf("Recenter did not tighten bounds: %v -> %v", oldHalf, newBounds.HalfExtent)
	}
	for _, s := range snaps {
		if s.rec.Transform != s.tr {
			t.Fatal("Recenter changed a record transform")
		}
		if !newBounds.Contains(s.rec.Transform.Position) {
			t.Fatal("record outside recentered bounds")
		}
	}
	if len(collectAll(tree)) != len(snaps) {
		t.Errorf("record count changed across Recenter")
	}
}

func TestRecenterEmptyTree(t *testing.T) {
	tree := newTestTree(10)
	tree.Recenter()
	if tree.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tree.Len())
	}
	if _, err := tree.Insert(math.NewTransform(math.Vec3{X: 1})); err != nil {
		t.Errorf("Insert() after empty Recenter: %v", err)
	}
}

func TestLeafCapacityScenario(t *testing.T) {
	// 1000 records in a 100x100x100 cube with capacity 75.
	rng := rand.New(rand.NewSource(42))
	tree := New("pine", math.Vec3{}, 50, 75, nil)

	for i := 0; i < 1000; i++ {
		pos := math.Vec3{
			X: rng.Float32()*100 - 50,
			Y: rng.Float32()*100 - 50,
			Z: rng.Float32()*100 - 50,
		}
		if _, err := tree.Insert(math.NewTransform(pos)); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	if got := len(collectAll(tree)); got != 1000 {
		t.Fatalf("query_all returned %d records, want 1000", got)
	}

	tree.WalkNodes(func(b Bounds, depth, count int, leaf bool) bool {
		if leaf && count > 75 && b.HalfExtent > minSplitExtent {
			t.Errorf("leaf at depth %d holds %d records with splittable extent %v", depth, count, b.HalfExtent)
		}
		return true
	})
}

func TestCoincidentRecordsDoNotSplitForever(t *testing.T) {
	tree := New("pine", math.Vec3{}, 1, 2, nil)
	pos := math.Vec3{X: 0.25, Y: 0.25, Z: 0.25}
	for i := 0; i < 50; i++ {
		if _, err := tree.Insert(math.NewTransform(pos)); err != nil {
			t.Fatalf("Insert() coincident error: %v", err)
		}
	}
	if tree.Len() != 50 {
		t.Errorf("Len() = %d, want 50", tree.Len())
	}
}

func TestMidpointTieBreakGoesPositive(t *testing.T) {
	b := Bounds{Center: math.Vec3{}, HalfExtent: 10}
	if got := b.Octant(math.Vec3{}); got != 7 {
		t.Errorf("Octant(center) = %d, want 7 (all-positive octant)", got)
	}
	if got := b.Octant(math.Vec3{X: -0.001, Y: 0, Z: 0}); got != 6 {
		t.Errorf("Octant(just negative X) = %d, want 6", got)
	}
}

func TestRemoveCoalescesLeaves(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tree := newTestTree(4)

	var recs []*Record
	for i := 0; i < 64; i++ {
		rec, err := tree.Insert(math.NewTransform(randomPos(rng, 40)))
		if err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
		recs = append(recs, rec)
	}

	for _, rec := range recs[:60] {
		if err := tree.Remove(rec); err != nil {
			t.Fatalf("Remove() error: %v", err)
		}
	}

	// With 4 records and capacity 4, the root should be a single leaf again.
	depths := 0
	tree.WalkNodes(func(b Bounds, depth, count int, leaf bool) bool {
		depths++
		if depth == 0 && !leaf {
			t.Error("expected root to coalesce back into a leaf")
		}
		return true
	})
	if depths != 1 {
		t.Errorf("expected exactly one node after coalescing, walked %d", depths)
	}
}

func TestBoundsMinMaxDistance(t *testing.T) {
	b := Bounds{Center: math.Vec3{}, HalfExtent: 1}

	if d := b.MinDistanceTo(math.Vec3{X: 0.5}); d != 0 {
		t.Errorf("MinDistanceTo(inside) = %v, want 0", d)
	}
	if d := b.MinDistanceTo(math.Vec3{X: 3}); math32.Abs(d-2) > 1e-5 {
		t.Errorf("MinDistanceTo(outside) = %v, want 2", d)
	}

	want := math32.Sqrt(3)
	if d := b.MaxDistanceTo(math.Vec3{}); math32.Abs(d-want) > 1e-5 {
		t.Errorf("MaxDistanceTo(center) = %v, want %v", d, want)
	}
}
