package lod

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/pkg/math"
)

func threeVariantConfig() Config {
	return Config{
		Variants: []Variant{
			{Mesh: "pine_high"},
			{Mesh: "pine_mid"},
			{Mesh: "pine_billboard", Companion: "pine_impostor"},
		},
		MaxDistance:  100,
		KillDistance: -1,
	}
}

func TestIndexForBands(t *testing.T) {
	cfg := threeVariantConfig()

	tests := []struct {
		dist float32
		want int
	}{
		{0, 0},
		{10, 0},
		{33.2, 0},
		{33.4, 1},
		{50, 1},
		{66.7, 2},
		{99, 2},
		{100, 2},
		{150, 2}, // beyond max distance: lowest detail, kill disabled
		{10000, 2},
	}
	for _, tt := range tests {
		if got := cfg.IndexFor(tt.dist); got != tt.want {
			t.Errorf("IndexFor(%v) = %d, want %d", tt.dist, got, tt.want)
		}
	}
}

func TestIndexForKillDistance(t *testing.T) {
	cfg := threeVariantConfig()
	cfg.KillDistance = 120

	if got := cfg.IndexFor(150); got != octree.LODHidden {
		t.Errorf("IndexFor(150) with kill 120 = %d, want LODHidden", got)
	}
	if got := cfg.IndexFor(119); got != 2 {
		t.Errorf("IndexFor(119) with kill 120 = %d, want 2", got)
	}
}

func TestIndexForEmptyConfiguration(t *testing.T) {
	cfg := Config{MaxDistance: 100, KillDistance: -1}
	if got := cfg.IndexFor(5); got != octree.LODHidden {
		t.Errorf("IndexFor with zero variants = %d, want LODHidden", got)
	}
}

func TestEvaluateScenario(t *testing.T) {
	// A record at distance 150 with kill disabled resolves to variant 2;
	// with kill distance 120 it resolves to no representation.
	tree := octree.New("pine", math.Vec3{}, 64, 0, nil)
	rec, err := tree.Insert(math.NewTransform(math.Vec3{X: 150}))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	ev := NewEvaluator(nil)
	camera := math.Vec3{}

	cfg := threeVariantConfig()
	ev.Evaluate(camera, tree, cfg, nil)
	if rec.LOD != 2 {
		t.Errorf("record at 150, kill disabled: LOD = %d, want 2", rec.LOD)
	}

	cfg.KillDistance = 120
	ev.Evaluate(camera, tree, cfg, nil)
	if rec.LOD != octree.LODHidden {
		t.Errorf("record at 150, kill 120: LOD = %d, want LODHidden", rec.LOD)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	tree := octree.New("fern", math.Vec3{}, 100, 8, nil)
	for i := 0; i < 500; i++ {
		pos := math.Vec3{
			X: (rng.Float32()*2 - 1) * 150,
			Y: (rng.Float32()*2 - 1) * 30,
			Z: (rng.Float32()*2 - 1) * 150,
		}
		if _, err := tree.Insert(math.NewTransform(pos)); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	cfg := threeVariantConfig()
	cfg.KillDistance = 140
	ev := NewEvaluator(nil)
	camera := math.Vec3{X: 20, Y: 10, Z: -5}

	first := ev.Evaluate(camera, tree, cfg, nil)
	if first != 500 {
		t.Errorf("first evaluation transitioned %d records, want 500 (all start unset)", first)
	}

	swaps := 0
	second := ev.Evaluate(camera, tree, cfg, func(rec *octree.Record, oldIdx, newIdx int) {
		swaps++
	})
	if second != 0 || swaps != 0 {
		t.Errorf("second evaluation with unchanged camera: %d transitions, %d swaps, want 0/0", second, swaps)
	}
}

func TestEvaluateMatchesPerRecordDistance(t *testing.T) {
	// Leaf-level band classification must agree with a brute-force
	// per-record computation.
	rng := rand.New(rand.NewSource(23))
	tree := octree.New("birch", math.Vec3{}, 200, 6, nil)

	var recs []*octree.Record
	for i := 0; i < 600; i++ {
		pos := math.Vec3{
			X: (rng.Float32()*2 - 1) * 200,
			Y: (rng.Float32()*2 - 1) * 200,
			Z: (rng.Float32()*2 - 1) * 200,
		}
		rec, err := tree.Insert(math.NewTransform(pos))
		if err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
		recs = append(recs, rec)
	}

	cfg := Config{
		Variants:     []Variant{{Mesh: "a"}, {Mesh: "b"}, {Mesh: "c"}, {Mesh: "d"}},
		MaxDistance:  120,
		KillDistance: 250,
	}
	camera := math.Vec3{X: 31, Y: -7, Z: 12}

	ev := NewEvaluator(nil)
	ev.Evaluate(camera, tree, cfg, nil)

	for _, rec := range recs {
		want := cfg.IndexFor(rec.Transform.Position.Distance(camera))
		if rec.LOD != want {
			t.Fatalf("record at %v: LOD = %d, want %d", rec.Transform.Position, rec.LOD, want)
		}
	}
}

func TestEvaluateEmptyConfigurationHidesAll(t *testing.T) {
	tree := octree.New("stump", math.Vec3{}, 64, 0, nil)
	rec, err := tree.Insert(math.NewTransform(math.Vec3{X: 5}))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	ev := NewEvaluator(nil)
	n := ev.Evaluate(math.Vec3{}, tree, Config{MaxDistance: 100, KillDistance: -1}, nil)
	if n != 1 {
		t.Errorf("expected 1 transition, got %d", n)
	}
	if rec.LOD != octree.LODHidden {
		t.Errorf("LOD = %d, want LODHidden for empty configuration", rec.LOD)
	}
}

func TestEvaluateSwapCallback(t *testing.T) {
	tree := octree.New("pine", math.Vec3{}, 64, 0, nil)
	rec, err := tree.Insert(math.NewTransform(math.Vec3{X: 10}))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	ev := NewEvaluator(nil)
	cfg := threeVariantConfig()

	var gotOld, gotNew int
	ev.Evaluate(math.Vec3{}, tree, cfg, func(r *octree.Record, oldIdx, newIdx int) {
		if r != rec {
			t.Error("swap callback received wrong record")
		}
		gotOld, gotNew = oldIdx, newIdx
	})
	if gotOld != octree.LODUnset {
		t.Errorf("first swap old index = %d, want LODUnset", gotOld)
	}
	if gotNew != 0 {
		t.Errorf("first swap new index = %d, want 0 (highest detail)", gotNew)
	}

	// Move the camera far away: the record cycles to the lowest band.
	ev.Evaluate(math.Vec3{X: 500}, tree, cfg, func(r *octree.Record, oldIdx, newIdx int) {
		gotOld, gotNew = oldIdx, newIdx
	})
	if gotOld != 0 || gotNew != 2 {
		t.Errorf("second swap = (%d -> %d), want (0 -> 2)", gotOld, gotNew)
	}
}
