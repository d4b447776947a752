package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Backend != "sdl" {
		t.Errorf("expected backend sdl, got %s", cfg.Graphics.Backend)
	}
	if cfg.Graphics.Width != 1800 {
		t.Errorf("expected width 1800, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 960 {
		t.Errorf("expected height 960, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.ClearColor != [3]float32{0.1, 0.7, 1.0} {
		t.Errorf("expected sky blue clear color, got %v", cfg.Graphics.ClearColor)
	}

	// Test projection defaults
	want := ProjectionConfig{Left: -1, Right: 1, Top: -1, Bottom: 1, Near: 1.5, Far: 50}
	if cfg.Projection != want {
		t.Errorf("expected projection %+v, got %+v", want, cfg.Projection)
	}

	// Test camera and light defaults
	if cfg.Camera.Distance != 20 {
		t.Errorf("expected camera distance 20, got %f", cfg.Camera.Distance)
	}
	if cfg.Light.Position != [3]float32{5, 3, -5} {
		t.Errorf("expected light at [5 3 -5], got %v", cfg.Light.Position)
	}
	if cfg.Light.Diffuse != [3]float32{0.9, 0.9, 0.9} {
		t.Errorf("expected diffuse 0.9, got %v", cfg.Light.Diffuse)
	}

	// Test shader and scene defaults
	if cfg.Shaders.Default != "flat" {
		t.Errorf("expected default shader 'flat', got %s", cfg.Shaders.Default)
	}
	if cfg.Shaders.HotReload {
		t.Error("expected hot reload to be off by default")
	}
	if cfg.Scene.Mode != 1 {
		t.Errorf("expected render mode 1, got %d", cfg.Scene.Mode)
	}
	if len(cfg.Scene.Models) != 2 {
		t.Fatalf("expected 2 default models, got %d", len(cfg.Scene.Models))
	}
	if cfg.Scene.Models[0].Translation != [3]float32{5.5, -4.4, 16} {
		t.Errorf("unexpected car translation %v", cfg.Scene.Models[0].Translation)
	}

	// Test demo defaults
	if cfg.Demo.Target != "car" {
		t.Errorf("expected demo target 'car', got %s", cfg.Demo.Target)
	}
	if len(cfg.Demo.Poses) != 10 {
		t.Errorf("expected 10 demo poses, got %d", len(cfg.Demo.Poses))
	}
	if p := cfg.Demo.Poses[5]; p.Translation != [3]float32{10, -4.4, -16} || p.RotationY == 0 {
		t.Errorf("unexpected pose for key 5: %+v", p)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  backend: glfw
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

projection:
  near: 0.5
  far: 100

light:
  position: [1, 2, 3]

shaders:
  dir: ./glsl
  default: phong
  hot_reload: true

scene:
  mode: 2
  models:
    - name: teapot
      path: models/teapot.obj
      shader: phong
      translation: [0, -1, 0]
      scale: 0.5

demo:
  target: teapot
  poses:
    3:
      translation: [1, 1, 1]
      rotation_y: 1.5

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Backend != "glfw" {
		t.Errorf("expected backend glfw, got %s", cfg.Graphics.Backend)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	// Unset keys keep their defaults
	if cfg.Projection.Near != 0.5 || cfg.Projection.Far != 100 || cfg.Projection.Left != -1 {
		t.Errorf("unexpected projection %+v", cfg.Projection)
	}
	if cfg.Light.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected light at [1 2 3], got %v", cfg.Light.Position)
	}
	if cfg.Light.Specular != [3]float32{1, 1, 1} {
		t.Errorf("expected default specular, got %v", cfg.Light.Specular)
	}

	if cfg.Shaders.Dir != "./glsl" || cfg.Shaders.Default != "phong" || !cfg.Shaders.HotReload {
		t.Errorf("unexpected shaders %+v", cfg.Shaders)
	}

	if cfg.Scene.Mode != 2 {
		t.Errorf("expected mode 2, got %d", cfg.Scene.Mode)
	}
	if len(cfg.Scene.Models) != 1 {
		t.Fatalf("expected the model list to be replaced, got %d models", len(cfg.Scene.Models))
	}
	m := cfg.Scene.Models[0]
	if m.Name != "teapot" || m.Shader != "phong" || m.Scale != 0.5 || m.Translation != [3]float32{0, -1, 0} {
		t.Errorf("unexpected model %+v", m)
	}

	// Poses are merged into the default table
	if cfg.Demo.Target != "teapot" {
		t.Errorf("expected demo target teapot, got %s", cfg.Demo.Target)
	}
	if p := cfg.Demo.Poses[3]; p.Translation != [3]float32{1, 1, 1} || p.RotationY != 1.5 {
		t.Errorf("unexpected pose 3: %+v", p)
	}
	if len(cfg.Demo.Poses) != 10 {
		t.Errorf("expected 10 poses after merge, got %d", len(cfg.Demo.Poses))
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Graphics.Backend = "vulkan" }},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"near not positive", func(c *Config) { c.Projection.Near = 0 }},
		{"far before near", func(c *Config) { c.Projection.Far = 1 }},
		{"empty frustum", func(c *Config) { c.Projection.Left = c.Projection.Right }},
		{"model without path", func(c *Config) { c.Scene.Models[0].Path = "" }},
		{"pose key not a digit", func(c *Config) { c.Demo.Poses[12] = PoseConfig{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "backend flag",
			setup: func() {
				*flagBackend = "glfw"
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Backend != "glfw" {
					t.Errorf("expected backend glfw, got %s", cfg.Graphics.Backend)
				}
				return nil
			},
			teardown: func() {
				*flagBackend = ""
			},
		},
		{
			name: "shaders flag",
			setup: func() {
				*flagShaders = "/tmp/glsl"
			},
			verify: func(cfg *Config) error {
				if cfg.Shaders.Dir != "/tmp/glsl" {
					t.Errorf("expected shaders dir /tmp/glsl, got %s", cfg.Shaders.Dir)
				}
				if !cfg.Shaders.HotReload {
					t.Error("expected hot reload with shaders flag")
				}
				return nil
			},
			teardown: func() {
				*flagShaders = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
				return nil
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
				return nil
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
				return nil
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("projection:\n  near: 60\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected error for near plane beyond far plane, got nil")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Graphics.Backend = "glfw"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Graphics.Backend != "glfw" {
		t.Errorf("expected backend glfw after reload, got %s", loaded.Graphics.Backend)
	}
}

func TestWriteIfRequested(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  height: 900\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	outPath := filepath.Join(tmpDir, "out", "merged.yaml")

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagWrite = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Without the flag nothing is written.
	if path, err := cfg.WriteIfRequested(); err != nil || path != "" {
		t.Fatalf("expected no write without flag, got path %q err %v", path, err)
	}

	*flagWrite = outPath
	path, err := cfg.WriteIfRequested()
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if path != outPath {
		t.Errorf("expected path %s, got %s", outPath, path)
	}

	// The written file carries defaults, file values and flag values.
	written := &Config{}
	if err := loadFromFile(written, outPath); err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if written.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", written.Graphics.Width)
	}
	if written.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", written.Graphics.Height)
	}
	if written.Projection.Far != 50 {
		t.Errorf("expected default far plane 50, got %g", written.Projection.Far)
	}
	if len(written.Demo.Poses) != 10 {
		t.Errorf("expected 10 demo poses, got %d", len(written.Demo.Poses))
	}
}
