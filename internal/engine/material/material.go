// Package material holds Phong surface reflectance parameters.
package material

import "github.com/go-gl/mathgl/mgl32"

// Material describes how a surface reflects the scene light.
type Material struct {
	Name    string
	Ka      mgl32.Vec3 // ambient reflectance
	Kd      mgl32.Vec3 // diffuse reflectance
	Ks      mgl32.Vec3 // specular reflectance
	Ns      float32    // specular exponent
	Texture string     // diffuse map path, empty when untextured
}

// Default returns the grey material used when an OBJ names none.
func Default() Material {
	return Material{
		Name: "default",
		Ka:   mgl32.Vec3{0.5, 0.5, 0.5},
		Kd:   mgl32.Vec3{0.5, 0.5, 0.5},
		Ks:   mgl32.Vec3{0.5, 0.5, 0.5},
		Ns:   10,
	}
}
