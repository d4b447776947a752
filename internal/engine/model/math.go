package model

import "github.com/go-gl/mathgl/mgl32"

// normalize returns a unit vector in the same direction as v.
// Vectors too short to normalise come back as +Y.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	length := v.Len()
	if length < 0.0001 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Mul(1 / length)
}

func computeBounds(vertices []mgl32.Vec3) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0], Max: vertices[0]}
	for _, p := range vertices[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	return b
}
