package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/input"
)

// Light position factors per wheel tick with Ctrl held.
const (
	lightFartherFactor = 1.1
	lightCloserFactor  = 0.9
)

// HandleEvent applies the viewer controls:
//
//	Q, Escape, window close   stop
//	Space                     toggle wireframe
//	wheel                     zoom the camera one unit per tick
//	Ctrl + wheel              scale the light position
//	left drag                 pan the camera center
//	right drag                orbit the camera
func (s *Scene) HandleEvent(ctx gpu.Frame, e input.Event) {
	switch e.Type {
	case input.EventQuit:
		s.Stop()

	case input.EventWindowResize:
		s.Resize(ctx, e.Width, e.Height)

	case input.EventKeyDown:
		switch e.Key {
		case input.KeyQ, input.KeyEscape:
			s.Stop()
		case input.KeySpace:
			s.SetWireframe(ctx, !s.Wireframe)
		}

	case input.EventMouseWheel:
		s.handleWheel(e.Wheel, e.Ctrl)

	case input.EventMouseMove:
		s.handleDrag(e)
	}
}

func (s *Scene) handleWheel(ticks int, ctrl bool) {
	if ticks == 0 {
		return
	}
	if !ctrl {
		s.Camera.HandleZoom(ticks)
		return
	}
	factor := float32(lightFartherFactor)
	n := ticks
	if ticks < 0 {
		factor, n = lightCloserFactor, -ticks
	}
	for i := 0; i < n; i++ {
		s.Light.ScalePosition(factor)
	}
	s.log.Debug("light moved", zap.Float32s("position", s.Light.Position[:]))
}

func (s *Scene) handleDrag(e input.Event) {
	if s.Width <= 0 || s.Height <= 0 {
		return
	}
	dx := float32(e.DX) / float32(s.Width)
	dy := float32(e.DY) / float32(s.Height)
	switch {
	case e.Buttons.Has(input.ButtonLeft):
		s.Camera.HandlePan(dx, dy)
	case e.Buttons.Has(input.ButtonRight):
		s.Camera.HandleOrbit(dx, dy)
	}
}
