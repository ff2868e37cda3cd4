// Package arborist owns the per-category octrees and drives the editor's
// vegetation tick: it reacts to greenhouse configuration events, routes brush
// strokes into the trees, and re-evaluates LOD selection against the camera.
//
// The host loop applies pending stroke updates first and calls Tick after,
// so a frame's LOD selection always sees that frame's mutations.
package arborist

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/verdant/internal/engine/brush"
	"github.com/Faultbox/verdant/internal/engine/lod"
	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/internal/greenhouse"
	"github.com/Faultbox/verdant/pkg/math"
)

// Callbacks notify the host renderer of changes it must reflect. Nil fields
// are ignored.
type Callbacks struct {
	// VariantSwapped fires once per record whose LOD index changed during
	// a Tick. newIndex is a variant index or octree.LODHidden.
	VariantSwapped func(category string, rec *octree.Record, oldIndex, newIndex int)

	// MemberCountUpdated fires when a category's record count changed.
	MemberCountUpdated func(category string, count int)

	// DebugRedrawRequested fires when octree structure changed and any
	// debug visualization must be rebuilt.
	DebugRedrawRequested func()
}

// Orchestrator is the top-level vegetation manager. It is single-threaded:
// the host calls every method from its tick loop.
type Orchestrator struct {
	store      *greenhouse.Store
	applicator *brush.Applicator
	evaluator  *lod.Evaluator
	cb         Callbacks
	log        *zap.SugaredLogger

	trees map[string]*octree.Tree
	// dirty marks categories whose variant list or thresholds changed;
	// their records re-announce their LOD on the next Tick.
	dirty map[string]bool

	strokeCategories []string
}

// New creates an orchestrator over the given configuration store and
// collision provider, building a tree for every category already present.
// It subscribes to the store, so it must be created before any further store
// mutations. A nil logger is replaced with a no-op one.
func New(store *greenhouse.Store, caster brush.Raycaster, seed int64, cb Callbacks, log *zap.SugaredLogger) *Orchestrator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	o := &Orchestrator{
		store:      store,
		applicator: brush.NewApplicator(caster, seed, log),
		evaluator:  lod.NewEvaluator(log),
		cb:         cb,
		log:        log,
		trees:      map[string]*octree.Tree{},
		dirty:      map[string]bool{},
	}
	for _, name := range store.Categories() {
		o.trees[name] = octree.New(name, math.Vec3{}, 0, 0, log)
	}
	store.Subscribe(o.handleEvent)
	return o
}

func (o *Orchestrator) handleEvent(ev greenhouse.Event) {
	switch ev.Kind {
	case greenhouse.CategoryAdded:
		o.trees[ev.Category] = octree.New(ev.Category, math.Vec3{}, 0, 0, o.log)
		o.memberCountChanged(ev.Category)
		o.debugRedraw()
	case greenhouse.CategoryRemoved:
		delete(o.trees, ev.Category)
		delete(o.dirty, ev.Category)
		o.debugRedraw()
	case greenhouse.VariantAdded, greenhouse.VariantRemoved, greenhouse.VariantReplaced,
		greenhouse.ThresholdsChanged:
		o.dirty[ev.Category] = true
	}
}

// Tick re-evaluates LOD selection for every category against the camera
// position, firing VariantSwapped for each changed record. Categories whose
// variant configuration changed since the last Tick re-announce every record.
func (o *Orchestrator) Tick(camera math.Vec3) {
	for _, name := range o.categories() {
		tree := o.trees[name]
		cfg, ok := o.store.Category(name)
		if !ok {
			continue
		}

		if o.dirty[name] {
			tree.ForEach(func(r *octree.Record) bool {
				r.LOD = octree.LODUnset
				return true
			})
			delete(o.dirty, name)
		}

		swap := func(rec *octree.Record, oldIndex, newIndex int) {
			if o.cb.VariantSwapped != nil {
				o.cb.VariantSwapped(name, rec, oldIndex, newIndex)
			}
		}
		o.evaluator.Evaluate(camera, tree, cfg.LOD, swap)
	}
}

// StrokeStarted begins a brush stroke over the named categories. Unknown
// names are skipped with a warning.
func (o *Orchestrator) StrokeStarted(b brush.Brush, categories []string) {
	targets := make([]brush.Target, 0, len(categories))
	o.strokeCategories = o.strokeCategories[:0]
	for _, name := range categories {
		cfg, ok := o.store.Category(name)
		tree := o.trees[name]
		if !ok || tree == nil {
			o.log.Warnw("stroke targets unknown category", "category", name)
			continue
		}
		targets = append(targets, brush.Target{Config: cfg, Tree: tree})
		o.strokeCategories = append(o.strokeCategories, name)
	}
	o.applicator.StrokeStarted(b, targets)
}

// StrokeUpdated applies one brush application at the cursor's surface point.
func (o *Orchestrator) StrokeUpdated(center math.Vec3) brush.Summary {
	sum := o.applicator.StrokeUpdated(center)
	if sum.Inserted > 0 || sum.Removed > 0 {
		for _, name := range o.strokeCategories {
			o.memberCountChanged(name)
		}
		o.debugRedraw()
	}
	return sum
}

// StrokeFinished ends the current stroke.
func (o *Orchestrator) StrokeFinished() {
	o.applicator.StrokeFinished()
	o.strokeCategories = o.strokeCategories[:0]
}

// Reconfigure rebuilds a category's tree with a new leaf capacity.
func (o *Orchestrator) Reconfigure(category string, capacity int) error {
	tree := o.trees[category]
	if tree == nil {
		return greenhouse.ErrUnknownCategory
	}
	if err := tree.Reconfigure(capacity); err != nil {
		return err
	}
	o.debugRedraw()
	return nil
}

// Recenter shrinks a category's tree bounds around its records.
func (o *Orchestrator) Recenter(category string) error {
	tree := o.trees[category]
	if tree == nil {
		return greenhouse.ErrUnknownCategory
	}
	tree.Recenter()
	o.debugRedraw()
	return nil
}

// Tree returns the octree backing a category, or nil.
func (o *Orchestrator) Tree(category string) *octree.Tree {
	return o.trees[category]
}

// MemberCount returns the record count of a category, zero for unknown names.
func (o *Orchestrator) MemberCount(category string) int {
	if tree := o.trees[category]; tree != nil {
		return tree.Len()
	}
	return 0
}

func (o *Orchestrator) categories() []string {
	names := make([]string, 0, len(o.trees))
	for name := range o.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o *Orchestrator) memberCountChanged(category string) {
	if o.cb.MemberCountUpdated != nil {
		o.cb.MemberCountUpdated(category, o.MemberCount(category))
	}
}

func (o *Orchestrator) debugRedraw() {
	if o.cb.DebugRedrawRequested != nil {
		o.cb.DebugRedrawRequested()
	}
}
