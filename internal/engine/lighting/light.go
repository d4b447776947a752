// Package lighting provides the scene light source.
package lighting

import "github.com/go-gl/mathgl/mgl32"

// LightSource is a point light with Phong intensities.
// Intensities are passed to the shaders unchanged, so values outside [0,1]
// are allowed.
type LightSource struct {
	Position mgl32.Vec3 // world space
	Ambient  mgl32.Vec3 // Ia
	Diffuse  mgl32.Vec3 // Id
	Specular mgl32.Vec3 // Is
}

// New creates a light at position with default white intensities.
func New(position mgl32.Vec3) *LightSource {
	return &LightSource{
		Position: position,
		Ambient:  mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:  mgl32.Vec3{0.9, 0.9, 0.9},
		Specular: mgl32.Vec3{1.0, 1.0, 1.0},
	}
}

// Update replaces the position when one is given.
func (l *LightSource) Update(position *mgl32.Vec3) {
	if position != nil {
		l.Position = *position
	}
}

// ScalePosition multiplies the position by factor, moving the light along the
// ray from the origin.
func (l *LightSource) ScalePosition(factor float32) {
	p := l.Position.Mul(factor)
	l.Update(&p)
}
