// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Projection  ProjectionConfig  `yaml:"projection"`
	Camera      CameraConfig      `yaml:"camera"`
	Light       LightConfig       `yaml:"light"`
	Shaders     ShadersConfig     `yaml:"shaders"`
	Scene       SceneConfig       `yaml:"scene"`
	Demo        DemoConfig        `yaml:"demo"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds window and context settings.
type GraphicsConfig struct {
	Backend    string     `yaml:"backend"` // sdl or glfw
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

// ProjectionConfig holds the view frustum planes.
type ProjectionConfig struct {
	Left   float32 `yaml:"left"`
	Right  float32 `yaml:"right"`
	Top    float32 `yaml:"top"`
	Bottom float32 `yaml:"bottom"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// CameraConfig holds the initial orbit camera state.
type CameraConfig struct {
	Distance float32    `yaml:"distance"`
	Azimuth  float32    `yaml:"azimuth"`
	Zenith   float32    `yaml:"zenith"`
	Center   [3]float32 `yaml:"center"`
}

// LightConfig holds the scene light.
type LightConfig struct {
	Position [3]float32 `yaml:"position"`
	Ambient  [3]float32 `yaml:"ambient"`
	Diffuse  [3]float32 `yaml:"diffuse"`
	Specular [3]float32 `yaml:"specular"`
}

// ShadersConfig selects where GLSL sources come from.
type ShadersConfig struct {
	Dir       string `yaml:"dir"`     // empty: built-in programs
	Default   string `yaml:"default"` // program for models that name none
	HotReload bool   `yaml:"hot_reload"`
}

// SceneConfig lists the models to load.
type SceneConfig struct {
	Mode   int32         `yaml:"mode"`
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig places one OBJ file in the scene. Every mesh of the file
// becomes a model sharing Name.
type ModelConfig struct {
	Name        string     `yaml:"name"`
	Path        string     `yaml:"path"`
	Shader      string     `yaml:"shader"`
	Translation [3]float32 `yaml:"translation"`
	RotationY   float32    `yaml:"rotation_y"`
	Scale       float32    `yaml:"scale"` // 0 means 1
}

// DemoConfig maps number keys to poses of one model group.
type DemoConfig struct {
	Target string             `yaml:"target"`
	Poses  map[int]PoseConfig `yaml:"poses"`
}

// PoseConfig is a translation followed by a rotation about Y.
type PoseConfig struct {
	Translation [3]float32 `yaml:"translation"`
	RotationY   float32    `yaml:"rotation_y"`
}

// ScreenshotsConfig holds screenshot output settings.
type ScreenshotsConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
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
			Backend:    "sdl",
			Width:      1800,
			Height:     960,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [3]float32{0.1, 0.7, 1.0},
		},
		Projection: ProjectionConfig{
			Left:   -1,
			Right:  1,
			Top:    -1,
			Bottom: 1,
			Near:   1.5,
			Far:    50,
		},
		Camera: CameraConfig{
			Distance: 20,
		},
		Light: LightConfig{
			Position: [3]float32{5, 3, -5},
			Ambient:  [3]float32{0.2, 0.2, 0.2},
			Diffuse:  [3]float32{0.9, 0.9, 0.9},
			Specular: [3]float32{1, 1, 1},
		},
		Shaders: ShadersConfig{
			Default: "flat",
		},
		Scene: SceneConfig{
			Mode: 1,
			Models: []ModelConfig{
				{Name: "car", Path: "models/car2.obj", Translation: [3]float32{5.5, -4.4, 16}},
				{Name: "street", Path: "models/test.obj", Translation: [3]float32{0, -5, -10}},
			},
		},
		Demo: DemoConfig{
			Target: "car",
			Poses: map[int]PoseConfig{
				0: {Translation: [3]float32{5.5, -4.4, 16}},
				1: {Translation: [3]float32{5.5, -4.4, 8}},
				2: {Translation: [3]float32{5.5, -4.4, 0}},
				3: {Translation: [3]float32{5.5, -4.4, -8}},
				4: {Translation: [3]float32{5.5, -4.4, -16}},
				5: {Translation: [3]float32{10, -4.4, -16}, RotationY: math.Pi},
				6: {Translation: [3]float32{10, -4.4, -8}, RotationY: math.Pi},
				7: {Translation: [3]float32{10, -4.4, 0}, RotationY: math.Pi},
				8: {Translation: [3]float32{10, -4.4, 8}, RotationY: math.Pi},
				9: {Translation: [3]float32{10, -4.4, 16}, RotationY: math.Pi},
			},
		},
		Screenshots: ScreenshotsConfig{
			Dir:    "screenshots",
			Prefix: "phongview",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Graphics.Backend {
	case "sdl", "glfw":
	default:
		errs = append(errs, fmt.Errorf("graphics.backend: unknown backend %q", c.Graphics.Backend))
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	p := c.Projection
	if p.Near <= 0 || p.Far <= p.Near {
		errs = append(errs, fmt.Errorf("projection: need 0 < near < far, got near=%g far=%g", p.Near, p.Far))
	}
	if p.Left == p.Right || p.Top == p.Bottom {
		errs = append(errs, errors.New("projection: empty frustum"))
	}
	for i, m := range c.Scene.Models {
		if m.Path == "" {
			errs = append(errs, fmt.Errorf("scene.models[%d]: missing path", i))
		}
	}
	for key := range c.Demo.Poses {
		if key < 0 || key > 9 {
			errs = append(errs, fmt.Errorf("demo.poses: key %d is not a digit", key))
		}
	}
	return errors.Join(errs...)
}
