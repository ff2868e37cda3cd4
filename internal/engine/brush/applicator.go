package brush

import (
	"math/rand"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/internal/greenhouse"
	"github.com/Faultbox/verdant/pkg/math"
)

// raycastAscent is how far above the brush center placement rays start.
// Surfaces taller than this above the cursor are not paintable.
const raycastAscent = 200

// Target binds one category's configuration to its spatial index for the
// duration of a stroke.
type Target struct {
	Config greenhouse.CategoryConfig
	Tree   *octree.Tree
}

// Summary reports what one stroke update changed, summed over all targets.
type Summary struct {
	Inserted  int
	Removed   int
	Reapplied int
}

// Changed reports whether the update touched any record.
func (s Summary) Changed() bool {
	return s.Inserted > 0 || s.Removed > 0 || s.Reapplied > 0
}

// Applicator consumes stroke events and applies them to the targeted trees.
//
// Paint candidate counts carry a fractional remainder across updates, so the
// realized density converges on the configured one over a whole stroke even
// when a single update is worth less than one plant.
type Applicator struct {
	caster Raycaster
	rng    *rand.Rand
	log    *zap.SugaredLogger

	active  bool
	brush   Brush
	targets []Target
	carry   map[string]float32
	painted map[string][]math.Vec3
}

// NewApplicator creates an applicator placing plants on the given collision
// provider. The seed fixes the randomization stream; a nil logger is replaced
// with a no-op one.
func NewApplicator(caster Raycaster, seed int64, log *zap.SugaredLogger) *Applicator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Applicator{
		caster: caster,
		rng:    rand.New(rand.NewSource(seed)),
		log:    log,
	}
}

// StrokeStarted begins a stroke with the given brush over the given targets.
// A stroke already in progress is finished first.
func (a *Applicator) StrokeStarted(b Brush, targets []Target) {
	if a.active {
		a.log.Warnw("stroke started while previous stroke active", "mode", a.brush.Mode.String())
		a.StrokeFinished()
	}
	a.active = true
	a.brush = b
	a.targets = targets
	a.carry = make(map[string]float32, len(targets))
	a.painted = make(map[string][]math.Vec3, len(targets))
	a.log.Debugw("stroke started",
		"mode", b.Mode.String(), "radius", b.Radius, "targets", len(targets))
}

// StrokeUpdated applies one brush application centered at the cursor's
// surface point. Calls outside an active stroke do nothing.
func (a *Applicator) StrokeUpdated(center math.Vec3) Summary {
	if !a.active {
		return Summary{}
	}

	var sum Summary
	for _, tg := range a.targets {
		switch a.brush.Mode {
		case ModePaint:
			sum.Inserted += a.paint(center, tg)
		case ModeErase:
			sum.Removed += a.erase(center, tg)
		case ModeReapply:
			sum.Reapplied += a.reapply(center, tg)
		}
	}
	return sum
}

// StrokeFinished ends the stroke and discards per-stroke state. Mutations
// already applied stay; an aborted stroke is finished the same way.
func (a *Applicator) StrokeFinished() {
	if !a.active {
		return
	}
	a.active = false
	a.targets = nil
	a.carry = nil
	a.painted = nil
	a.log.Debugw("stroke finished", "mode", a.brush.Mode.String())
}

// Active reports whether a stroke is in progress.
func (a *Applicator) Active() bool {
	return a.active
}

func (a *Applicator) paint(center math.Vec3, tg Target) int {
	p := tg.Config.Placement
	if p.PlantsPer100Units <= 0 || a.brush.Radius <= 0 {
		return 0
	}

	density := p.PlantsPer100Units / (100 * 100)
	expected := math32.Pi*a.brush.Radius*a.brush.Radius*density*a.brush.Strength + a.carry[tg.Config.Name]
	count := int(expected)
	a.carry[tg.Config.Name] = expected - float32(count)

	// Reject candidates closer to an earlier placement than a fraction of
	// the mean nearest-neighbor distance at the configured density.
	spacing := 0.2 / math32.Sqrt(density)

	inserted := 0
	for i := 0; i < count; i++ {
		angle := a.rng.Float32() * 2 * math32.Pi
		dist := a.brush.Radius * math32.Sqrt(a.rng.Float32())
		origin := math.Vec3{
			X: center.X + dist*math32.Cos(angle),
			Y: center.Y + raycastAscent,
			Z: center.Z + dist*math32.Sin(angle),
		}

		hit, ok := a.caster.Raycast(origin, math.Vec3{Y: -1}, p.CollisionMask)
		if !ok {
			continue
		}
		if a.tooClose(tg.Config.Name, hit.Point, spacing) {
			continue
		}

		if _, err := tg.Tree.Insert(a.placeTransform(hit, p)); err != nil {
			a.log.Warnw("paint insert rejected",
				"category", tg.Config.Name, "error", err)
			continue
		}
		a.painted[tg.Config.Name] = append(a.painted[tg.Config.Name], hit.Point)
		inserted++
	}
	return inserted
}

func (a *Applicator) erase(center math.Vec3, tg Target) int {
	var hits []*octree.Record
	tg.Tree.ForEachInRadius(center, a.brush.Radius, func(r *octree.Record) bool {
		hits = append(hits, r)
		return true
	})

	removed := 0
	for _, r := range hits {
		if err := tg.Tree.Remove(r); err != nil {
			a.log.Warnw("erase remove failed", "category", tg.Config.Name, "error", err)
			continue
		}
		removed++
	}
	return removed
}

// reapply re-rolls scale and rotation of every record under the brush from
// the category's current ranges. Positions never change, so the tree
// structure stays valid without reinsertion.
func (a *Applicator) reapply(center math.Vec3, tg Target) int {
	p := tg.Config.Placement

	var hits []*octree.Record
	tg.Tree.ForEachInRadius(center, a.brush.Radius, func(r *octree.Record) bool {
		hits = append(hits, r)
		return true
	})

	for _, r := range hits {
		normal := math.Vec3{Y: 1}
		origin := r.Transform.Position
		origin.Y += raycastAscent
		if hit, ok := a.caster.Raycast(origin, math.Vec3{Y: -1}, p.CollisionMask); ok {
			normal = hit.Normal
		}

		tr := a.placeTransform(Hit{Point: r.Transform.Position, Normal: normal}, p)
		r.Transform.Rotation = tr.Rotation
		r.Transform.Scale = tr.Scale
	}
	return len(hits)
}

// placeTransform rolls a full plant transform at the hit point: random scale
// from the configured range, base orientation from the blended up vector, and
// random yaw/pitch/roll jitter on top.
func (a *Applicator) placeTransform(hit Hit, p greenhouse.Placement) math.Transform {
	tr := math.NewTransform(hit.Point)
	tr.Scale = a.sampleScale(p.Scale)

	up := p.PrimaryUp.Resolve(hit.Normal).
		Lerp(p.SecondaryUp.Resolve(hit.Normal), clamp01(p.UpVectorBlending))
	if up.LengthSq() < 1e-8 {
		up = math.Vec3{Y: 1}
	} else {
		up = up.Normalize()
	}

	align := math.QuatBetweenVectors(math.Vec3{Y: 1}, up)
	jitter := math.QuatFromEuler(
		a.sampleAngle(p.Rotation.Yaw),
		a.sampleAngle(p.Rotation.Pitch),
		a.sampleAngle(p.Rotation.Roll),
	)
	tr.Rotation = align.Mul(jitter).Normalize()
	return tr
}

func (a *Applicator) sampleScale(r greenhouse.ScaleRange) math.Vec3 {
	if r.Uniform {
		s := lerp(r.Min.X, r.Max.X, a.rng.Float32())
		if s == 0 {
			s = 1
		}
		return math.Vec3{X: s, Y: s, Z: s}
	}
	v := math.Vec3{
		X: lerp(r.Min.X, r.Max.X, a.rng.Float32()),
		Y: lerp(r.Min.Y, r.Max.Y, a.rng.Float32()),
		Z: lerp(r.Min.Z, r.Max.Z, a.rng.Float32()),
	}
	if v.LengthSq() == 0 {
		return math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return v
}

// sampleAngle draws a rotation from [-limit, +limit] radians.
func (a *Applicator) sampleAngle(limit float32) float32 {
	if limit <= 0 {
		return 0
	}
	return (a.rng.Float32()*2 - 1) * limit
}

func (a *Applicator) tooClose(category string, p math.Vec3, spacing float32) bool {
	if spacing <= 0 {
		return false
	}
	for _, q := range a.painted[category] {
		if p.DistanceSq(q) < spacing*spacing {
			return true
		}
	}
	return false
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
