package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/verdant/internal/arborist"
	"github.com/Faultbox/verdant/internal/config"
	"github.com/Faultbox/verdant/internal/engine/brush"
	"github.com/Faultbox/verdant/internal/engine/camera"
	"github.com/Faultbox/verdant/internal/engine/debug"
	"github.com/Faultbox/verdant/internal/engine/input"
	"github.com/Faultbox/verdant/internal/engine/lod"
	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/internal/engine/picking"
	"github.com/Faultbox/verdant/internal/engine/renderer"
	"github.com/Faultbox/verdant/internal/engine/terrain"
	"github.com/Faultbox/verdant/internal/engine/window"
	"github.com/Faultbox/verdant/internal/greenhouse"
	"github.com/Faultbox/verdant/internal/logger"
	"github.com/Faultbox/verdant/pkg/math"
)

// lodPalette tints plant markers by their current LOD index so selection
// changes are visible without real meshes.
var lodPalette = [][4]float32{
	{0.25, 0.85, 0.3, 1},
	{0.75, 0.85, 0.25, 1},
	{0.85, 0.6, 0.2, 1},
	{0.6, 0.6, 0.6, 1},
}

// Editor wires the window, renderer, terrain and vegetation core into the
// interactive paint loop.
type Editor struct {
	cfg *config.Config
	log *zap.SugaredLogger

	win  *window.Window
	rend *renderer.Renderer
	in   *input.Input

	ground *terrain.Heightmap
	store  *greenhouse.Store
	orch   *arborist.Orchestrator
	cam    *camera.OrbitCamera

	brushMode     brush.Mode
	brushRadius   float32
	brushStrength float32
	// activeIndex selects which categories strokes touch: -1 paints all.
	activeIndex int

	showOctree     bool
	wireframeDirty bool
	titleDirty     bool
	painting       bool
	rotating       bool
	quit           bool

	mouseX, mouseY int
	cursor         math.Vec3
	cursorNormal   math.Vec3
	cursorValid    bool
}

// NewEditor builds the whole editor from configuration.
func NewEditor(cfg *config.Config) (*Editor, error) {
	e := &Editor{
		cfg:            cfg,
		log:            logger.Named("editor"),
		in:             input.New(),
		brushMode:      brush.ModePaint,
		brushRadius:    cfg.Painting.BrushRadius,
		brushStrength:  cfg.Painting.BrushStrength,
		activeIndex:    -1,
		showOctree:     cfg.Graphics.ShowOctree,
		wireframeDirty: true,
		titleDirty:     true,
	}

	var err error
	e.win, err = window.New(window.Config{
		Title:      "Verdant",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, err
	}

	e.rend, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		e.win.Close()
		return nil, err
	}

	e.ground = terrain.Generate(cfg.Terrain.Seed, cfg.Terrain.Size,
		cfg.Terrain.CellSize, cfg.Terrain.Amplitude)
	e.rend.UploadTerrain(terrain.BuildMesh(e.ground))

	if err := e.setupVegetation(); err != nil {
		e.rend.Close()
		e.win.Close()
		return nil, err
	}

	e.cam = camera.NewOrbitCamera()
	ext := e.ground.Extent()
	e.cam.FitToBounds(math.Vec3{}, math.Vec3{X: ext, Z: ext})
	return e, nil
}

// setupVegetation loads or seeds the greenhouse, creates the orchestrator,
// and loads the scene file when present.
func (e *Editor) setupVegetation() error {
	ghPath := e.workspacePath(e.cfg.Workspace.GreenhouseFile)

	cb := arborist.Callbacks{
		VariantSwapped: func(category string, rec *octree.Record, oldIdx, newIdx int) {
			e.log.Debugw("variant swap",
				"category", category, "from", oldIdx, "to", newIdx)
		},
		MemberCountUpdated: func(category string, count int) {
			e.titleDirty = true
		},
		DebugRedrawRequested: func() {
			e.wireframeDirty = true
		},
	}

	if _, err := os.Stat(ghPath); err == nil {
		store, err := greenhouse.LoadStore(ghPath, logger.Named("greenhouse"))
		if err != nil {
			return err
		}
		e.store = store
		e.orch = arborist.New(store, e.ground, e.cfg.Terrain.Seed, cb, logger.Named("arborist"))
		e.log.Infow("greenhouse loaded", "path", ghPath, "categories", len(store.Categories()))
	} else {
		e.store = greenhouse.NewStore(logger.Named("greenhouse"))
		e.orch = arborist.New(e.store, e.ground, e.cfg.Terrain.Seed, cb, logger.Named("arborist"))
		for _, cat := range seedCategories() {
			if err := e.store.AddCategory(cat); err != nil {
				return err
			}
		}
		e.log.Infow("greenhouse seeded with defaults", "path", ghPath)
	}

	scenePath := e.workspacePath(e.cfg.Workspace.SceneFile)
	if _, err := os.Stat(scenePath); err == nil {
		if err := e.orch.LoadScene(scenePath); err != nil {
			return err
		}
	}
	return nil
}

// seedCategories returns the starter categories for a fresh workspace.
func seedCategories() []greenhouse.CategoryConfig {
	pine := greenhouse.DefaultCategory("pine")
	pine.LOD.Variants = []lod.Variant{
		{Mesh: "pine_high"}, {Mesh: "pine_mid"}, {Mesh: "pine_billboard"},
	}
	pine.LOD.MaxDistance = 150
	pine.Placement.PlantsPer100Units = 120
	pine.Placement.Scale.Min = math.Vec3{X: 0.7, Y: 0.7, Z: 0.7}
	pine.Placement.Scale.Max = math.Vec3{X: 1.6, Y: 1.6, Z: 1.6}

	fern := greenhouse.DefaultCategory("fern")
	fern.LOD.Variants = []lod.Variant{{Mesh: "fern_high"}, {Mesh: "fern_low"}}
	fern.LOD.MaxDistance = 80
	fern.LOD.KillDistance = 120

	grass := greenhouse.DefaultCategory("grass")
	grass.LOD.Variants = []lod.Variant{{Mesh: "grass_patch"}}
	grass.LOD.MaxDistance = 50
	grass.LOD.KillDistance = 90
	grass.Placement.PlantsPer100Units = 2000
	grass.Placement.Scale.Min = math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
	grass.Placement.Scale.Max = math.Vec3{X: 1, Y: 1, Z: 1}
	grass.Placement.UpVectorBlending = 1

	return []greenhouse.CategoryConfig{pine, fern, grass}
}

// Close releases everything in reverse creation order.
func (e *Editor) Close() {
	if e.rend != nil {
		e.rend.Close()
	}
	if e.win != nil {
		e.win.Close()
	}
}

// Run drives the editor loop until quit.
func (e *Editor) Run() error {
	for !e.quit {
		if e.in.Update() {
			break
		}
		for _, ev := range e.in.Events() {
			e.handleEvent(ev)
		}
		e.handleHeldKeys()
		e.updateCursor()

		// Stroke mutations land before LOD evaluation, so a painted
		// plant gets its variant the same frame.
		if e.painting && e.cursorValid {
			e.orch.StrokeUpdated(e.cursor)
		}
		e.orch.Tick(e.cam.Position())

		e.render()
		e.win.SwapBuffers()

		if e.titleDirty {
			e.win.SetTitle(e.title())
			e.titleDirty = false
		}
	}
	return nil
}

func (e *Editor) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		e.quit = true

	case input.EventWindowResize:
		e.rend.Resize(ev.Width, ev.Height)

	case input.EventKeyDown:
		e.handleKey(ev.Key)

	case input.EventMouseWheel:
		if input.KeyHeld(sdl.SCANCODE_LSHIFT) {
			e.brushRadius = clampf(e.brushRadius+ev.WheelY, 1, 64)
			e.titleDirty = true
		} else {
			e.cam.HandleZoom(ev.WheelY)
		}

	case input.EventMouseDown:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			if e.cursorValid {
				e.orch.StrokeStarted(brush.Brush{
					Mode:     e.brushMode,
					Radius:   e.brushRadius,
					Strength: e.brushStrength,
				}, e.activeCategories())
				e.painting = true
			}
		case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
			e.rotating = true
		}

	case input.EventMouseUp:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			if e.painting {
				e.orch.StrokeFinished()
				e.painting = false
			}
		case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
			e.rotating = false
		}

	case input.EventMouseMove:
		e.mouseX, e.mouseY = ev.MouseX, ev.MouseY
		if e.rotating {
			e.cam.HandleDrag(float32(ev.RelX), float32(ev.RelY))
		}
	}
}

func (e *Editor) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		e.quit = true
	case sdl.SCANCODE_1:
		e.setMode(brush.ModePaint)
	case sdl.SCANCODE_2:
		e.setMode(brush.ModeErase)
	case sdl.SCANCODE_3:
		e.setMode(brush.ModeReapply)
	case sdl.SCANCODE_TAB:
		e.cycleCategory()
	case sdl.SCANCODE_O:
		e.showOctree = !e.showOctree
	case sdl.SCANCODE_R:
		for _, name := range e.store.Categories() {
			if err := e.orch.Recenter(name); err != nil {
				e.log.Warnw("recenter failed", "category", name, "error", err)
			}
		}
	case sdl.SCANCODE_F5:
		e.save()
	case sdl.SCANCODE_F9:
		e.loadScene()
	case sdl.SCANCODE_F12:
		e.screenshot()
	}
}

func (e *Editor) handleHeldKeys() {
	var forward, right, up float32
	if input.KeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if input.KeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if input.KeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if input.KeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if input.KeyHeld(sdl.SCANCODE_E) {
		up++
	}
	if input.KeyHeld(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		e.cam.HandleMovement(forward, right, up)
	}
}

func (e *Editor) setMode(m brush.Mode) {
	if e.painting {
		return
	}
	e.brushMode = m
	e.titleDirty = true
}

func (e *Editor) cycleCategory() {
	if e.painting {
		return
	}
	names := e.store.Categories()
	e.activeIndex++
	if e.activeIndex >= len(names) {
		e.activeIndex = -1
	}
	e.titleDirty = true
}

// activeCategories resolves the current stroke target selection.
func (e *Editor) activeCategories() []string {
	names := e.store.Categories()
	if e.activeIndex < 0 || e.activeIndex >= len(names) {
		return names
	}
	return names[e.activeIndex : e.activeIndex+1]
}

// updateCursor projects the mouse through the camera onto the terrain.
func (e *Editor) updateCursor() {
	w, h := e.rend.Size()
	vp := e.viewProj()
	ray := picking.ScreenToRay(float32(e.mouseX), float32(e.mouseY),
		float32(w), float32(h), vp.Inverse())

	hit, ok := e.ground.Raycast(ray.Origin, ray.Direction, e.cfg.Painting.CollisionMask)
	e.cursorValid = ok
	if ok {
		e.cursor = hit.Point
		e.cursorNormal = hit.Normal
	}
}

func (e *Editor) viewProj() math.Mat4 {
	w, h := e.rend.Size()
	aspect := float32(w) / float32(h)
	proj := math.Perspective(math32.Pi/4, aspect, 0.1, 4000)
	return proj.Mul(e.cam.ViewMatrix())
}

func (e *Editor) render() {
	e.rend.BeginFrame(e.viewProj())
	e.rend.DrawTerrain()

	for _, name := range e.store.Categories() {
		tree := e.orch.Tree(name)
		if tree == nil {
			continue
		}
		tree.ForEach(func(r *octree.Record) bool {
			if r.LOD == octree.LODHidden {
				return true
			}
			idx := r.LOD
			if idx < 0 || idx >= len(lodPalette) {
				idx = len(lodPalette) - 1
			}
			e.rend.DrawPlant(r.Transform.Mat4(), lodPalette[idx])
			return true
		})
	}

	if e.showOctree {
		if e.wireframeDirty {
			var verts []float32
			for _, name := range e.store.Categories() {
				if tree := e.orch.Tree(name); tree != nil {
					verts = append(verts, debug.OctreeWireframe(tree)...)
				}
			}
			e.rend.UploadStaticLines(verts)
			e.wireframeDirty = false
		}
		e.rend.DrawStaticLines([4]float32{1, 1, 1, 0.35})
	}

	if e.cursorValid {
		// Lift the disc slightly off the surface to avoid z-fighting.
		center := e.cursor.Add(e.cursorNormal.Scale(0.05))
		disc := debug.BrushDisc(center, e.brushRadius, e.cursorNormal)
		e.rend.DrawDynamicLines(disc, e.brushColor())
	}
}

func (e *Editor) brushColor() [4]float32 {
	switch e.brushMode {
	case brush.ModeErase:
		return [4]float32{0.95, 0.3, 0.25, 1}
	case brush.ModeReapply:
		return [4]float32{0.95, 0.85, 0.3, 1}
	}
	return [4]float32{0.3, 0.95, 0.4, 1}
}

func (e *Editor) save() {
	gh := e.workspacePath(e.cfg.Workspace.GreenhouseFile)
	if err := e.store.Save(gh); err != nil {
		e.log.Errorw("saving greenhouse failed", "path", gh, "error", err)
	}
	scene := e.workspacePath(e.cfg.Workspace.SceneFile)
	if err := e.orch.SaveScene(scene); err != nil {
		e.log.Errorw("saving scene failed", "path", scene, "error", err)
	}
}

func (e *Editor) loadScene() {
	if e.painting {
		return
	}
	scene := e.workspacePath(e.cfg.Workspace.SceneFile)
	if err := e.orch.LoadScene(scene); err != nil {
		e.log.Errorw("loading scene failed", "path", scene, "error", err)
	}
}

func (e *Editor) screenshot() {
	pixels, w, h := e.rend.ReadPixels()
	dir := e.workspacePath("screenshots")
	path, err := debug.SaveScreenshot(dir, pixels, w, h)
	if err != nil {
		e.log.Errorw("screenshot failed", "error", err)
		return
	}
	e.log.Infow("screenshot saved", "path", path)
}

func (e *Editor) workspacePath(name string) string {
	return filepath.Join(e.cfg.Workspace.WorkDir, name)
}

func (e *Editor) title() string {
	total := 0
	for _, name := range e.store.Categories() {
		total += e.orch.MemberCount(name)
	}
	target := "all"
	if names := e.activeCategories(); e.activeIndex >= 0 && len(names) == 1 {
		target = names[0]
	}
	return fmt.Sprintf("Verdant - %s on %s - r=%.0f - %d plants",
		e.brushMode, target, e.brushRadius, total)
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
