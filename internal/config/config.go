// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Painting  PaintingConfig  `yaml:"painting"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings for the editor window.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	ShowOctree bool `yaml:"show_octree"` // draw octree wireframes on debug redraw
}

// WorkspaceConfig holds the working directory and data file locations.
type WorkspaceConfig struct {
	WorkDir        string `yaml:"work_dir"`        // base directory for scene/greenhouse files
	GreenhouseFile string `yaml:"greenhouse_file"` // per-category configuration store
	SceneFile      string `yaml:"scene_file"`      // flat placed-plant list
}

// PaintingConfig holds default brush settings.
type PaintingConfig struct {
	BrushRadius   float32 `yaml:"brush_radius"`
	BrushStrength float32 `yaml:"brush_strength"`
	CollisionMask uint32  `yaml:"collision_mask"` // layer bits candidates may land on
}

// TerrainConfig holds demo terrain generation settings.
type TerrainConfig struct {
	Seed      int64   `yaml:"seed"`
	Size      int     `yaml:"size"`      // grid cells per side
	CellSize  float32 `yaml:"cell_size"` // world units per cell
	Amplitude float32 `yaml:"amplitude"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			ShowOctree: true,
		},
		Workspace: WorkspaceConfig{
			WorkDir:        ".",
			GreenhouseFile: "greenhouse.yaml",
			SceneFile:      "scene.yaml",
		},
		Painting: PaintingConfig{
			BrushRadius:   8,
			BrushStrength: 1,
			CollisionMask: 1,
		},
		Terrain: TerrainConfig{
			Seed:      1,
			Size:      128,
			CellSize:  2,
			Amplitude: 12,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
