// Package camera provides the orbiting scene camera.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/phongview/pkg/matutils"
)

// MinDistance is the closest the camera may get to its center.
const MinDistance = 1.0

// Camera orbits a center point at a given distance.
// The view matrix is a cache of the four parameters; call Update after
// changing them.
type Camera struct {
	Azimuth  float32    // rotation about Y, radians
	Zenith   float32    // rotation about X, radians
	Distance float32    // distance to Center, never below MinDistance
	Center   mgl32.Vec3 // look-at point

	view mgl32.Mat4
}

// New creates a camera 20 units from the origin with zero angles.
func New() *Camera {
	c := &Camera{Distance: 20}
	c.Update()
	return c
}

// Update recomputes the view matrix:
// Translation(0,0,-Distance) * RotationX(Zenith) * RotationY(Azimuth) * Translation(-Center).
func (c *Camera) Update() {
	t0 := matutils.Translation(c.Center.Mul(-1))
	r := matutils.RotationX(c.Zenith).Mul4(matutils.RotationY(c.Azimuth))
	t := matutils.Translation(mgl32.Vec3{0, 0, -c.Distance})
	c.view = t.Mul4(r).Mul4(t0)
}

// View returns the view matrix computed by the last Update.
func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// HandlePan moves the center by a pointer delta normalised by the window size.
func (c *Camera) HandlePan(dx, dy float32) {
	c.Center[0] += dx
	c.Center[1] += dy
}

// HandleOrbit changes azimuth and zenith by a normalised pointer delta.
func (c *Camera) HandleOrbit(dx, dy float32) {
	c.Azimuth -= dx
	c.Zenith -= dy
}

// HandleZoom moves the camera by whole units per scroll tick.
// Positive ticks move closer. Distance is clamped to MinDistance.
func (c *Camera) HandleZoom(ticks int) {
	c.Distance -= float32(ticks)
	if c.Distance < MinDistance {
		c.Distance = MinDistance
	}
}
