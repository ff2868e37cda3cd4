package lod

import (
	"go.uber.org/zap"

	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/pkg/math"
)

// SwapFunc is invoked once per record whose representation changes.
// newIndex is a variant index or octree.LODHidden; oldIndex may additionally
// be octree.LODUnset for records that were never evaluated.
type SwapFunc func(rec *octree.Record, oldIndex, newIndex int)

// Evaluator re-evaluates per-frame which LOD variant each record displays.
type Evaluator struct {
	log *zap.SugaredLogger
}

// NewEvaluator returns an evaluator. A nil logger is replaced with a no-op
// one.
func NewEvaluator(log *zap.SugaredLogger) *Evaluator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Evaluator{log: log}
}

// Evaluate walks the category's octree and updates every record's LOD index
// for the given camera position, firing swap only for records whose index
// actually changes. It returns the number of transitions, so calling it again
// with an unchanged camera and no mutations returns zero.
//
// Whole leaves are classified by the min/max camera distance of their bounds:
// when both ends of that range land in the same band, every record in the
// leaf takes that band without a per-record distance computation. Only leaves
// straddling a band boundary pay per record.
func (e *Evaluator) Evaluate(camera math.Vec3, tree *octree.Tree, cfg Config, swap SwapFunc) int {
	transitions := 0
	apply := func(rec *octree.Record, idx int) {
		if rec.LOD == idx {
			return
		}
		old := rec.LOD
		rec.LOD = idx
		transitions++
		if swap != nil {
			swap(rec, old, idx)
		}
	}

	tree.EvaluateNodes(func(b octree.Bounds, records []*octree.Record, leaf bool) bool {
		if !leaf {
			return true
		}
		if len(records) == 0 {
			return true
		}

		lo := cfg.IndexFor(b.MinDistanceTo(camera))
		hi := cfg.IndexFor(b.MaxDistanceTo(camera))
		if lo == hi {
			for _, rec := range records {
				apply(rec, lo)
			}
			return true
		}

		for _, rec := range records {
			apply(rec, cfg.IndexFor(rec.Transform.Position.Distance(camera)))
		}
		return true
	})

	return transitions
}
