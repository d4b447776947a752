// Package scene holds the camera, light and models drawn each frame.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/camera"
	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/lighting"
	"github.com/Faultbox/phongview/internal/engine/model"
	"github.com/Faultbox/phongview/internal/engine/shader"
	"github.com/Faultbox/phongview/internal/logger"
)

// DefaultMode is the render mode passed to the shaders: full Phong lighting.
const DefaultMode = 1

// Scene is the state of one viewer window. It is only touched from the
// render thread.
type Scene struct {
	Camera     *camera.Camera
	Light      *lighting.LightSource
	Projection mgl32.Mat4
	Mode       int32
	Wireframe  bool
	Models     []*model.Model

	// Window size in screen coordinates, used to normalise mouse motion.
	Width  int
	Height int
	// PixelScale is framebuffer pixels per screen coordinate.
	PixelScale float32

	running bool
	log     *zap.Logger
}

// New creates a running scene.
func New(cam *camera.Camera, light *lighting.LightSource, projection mgl32.Mat4, width, height int) *Scene {
	return &Scene{
		Camera:     cam,
		Light:      light,
		Projection: projection,
		Mode:       DefaultMode,
		Width:      width,
		Height:     height,
		PixelScale: 1,
		running:    true,
		log:        logger.Named("scene"),
	}
}

// Add appends models to the draw list.
func (s *Scene) Add(models ...*model.Model) {
	s.Models = append(s.Models, models...)
}

// Group returns the models with the given name, in draw order.
func (s *Scene) Group(name string) []*model.Model {
	var out []*model.Model
	for _, m := range s.Models {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// Frame returns the per-frame binding state for the current camera view.
func (s *Scene) Frame() shader.Frame {
	return shader.Frame{
		Projection: s.Projection,
		View:       s.Camera.View(),
		Mode:       s.Mode,
		Light:      s.Light,
	}
}

// Draw clears the frame, updates the camera and draws every model.
// The first model that fails to draw stops the frame.
func (s *Scene) Draw(ctx gpu.Context) error {
	ctx.Clear()
	s.Camera.Update()
	f := s.Frame()
	for _, m := range s.Models {
		if err := m.Draw(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Running reports whether the viewer loop should continue.
func (s *Scene) Running() bool {
	return s.running
}

// Stop ends the viewer loop after the current frame.
func (s *Scene) Stop() {
	if s.running {
		s.log.Info("stopping")
	}
	s.running = false
}

// Resize records a new window size and updates the viewport.
func (s *Scene) Resize(ctx gpu.Frame, width, height int) {
	s.Width, s.Height = width, height
	ctx.Viewport(int(float32(width)*s.PixelScale), int(float32(height)*s.PixelScale))
	s.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// SetWireframe switches between filled and wireframe rendering.
func (s *Scene) SetWireframe(ctx gpu.Frame, enabled bool) {
	s.Wireframe = enabled
	ctx.SetWireframe(enabled)
	if enabled {
		s.log.Info("rendering wireframe")
	} else {
		s.log.Info("rendering filled")
	}
}
