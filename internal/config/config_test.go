package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if !cfg.Graphics.ShowOctree {
		t.Error("expected show_octree to be true by default")
	}

	if cfg.Workspace.GreenhouseFile != "greenhouse.yaml" {
		t.Errorf("expected greenhouse.yaml, got %s", cfg.Workspace.GreenhouseFile)
	}
	if cfg.Workspace.SceneFile != "scene.yaml" {
		t.Errorf("expected scene.yaml, got %s", cfg.Workspace.SceneFile)
	}

	if cfg.Painting.BrushRadius != 8 {
		t.Errorf("expected brush radius 8, got %f", cfg.Painting.BrushRadius)
	}
	if cfg.Painting.CollisionMask != 1 {
		t.Errorf("expected collision mask 1, got %d", cfg.Painting.CollisionMask)
	}

	if cfg.Terrain.Size != 128 {
		t.Errorf("expected terrain size 128, got %d", cfg.Terrain.Size)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verdant.yaml")

	yamlData := `
graphics:
  width: 1920
  height: 1080
painting:
  brush_radius: 15
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile() error: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Painting.BrushRadius != 15 {
		t.Errorf("expected brush radius 15, got %f", cfg.Painting.BrushRadius)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Values absent from the file keep defaults.
	if cfg.Workspace.SceneFile != "scene.yaml" {
		t.Errorf("expected default scene file, got %s", cfg.Workspace.SceneFile)
	}
}

func TestSaveToAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "verdant.yaml")

	cfg := Default()
	cfg.Painting.BrushRadius = 25
	cfg.Terrain.Seed = 42

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	reloaded := Default()
	if err := loadFromFile(reloaded, path); err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if reloaded.Painting.BrushRadius != 25 {
		t.Errorf("expected brush radius 25 after reload, got %f", reloaded.Painting.BrushRadius)
	}
	if reloaded.Terrain.Seed != 42 {
		t.Errorf("expected seed 42 after reload, got %d", reloaded.Terrain.Seed)
	}
}
