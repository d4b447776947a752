// Package model holds triangle meshes and the drawable models built from them.
package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/material"
)

// Mesh is an indexed triangle mesh with one material.
type Mesh struct {
	Name      string
	Vertices  []mgl32.Vec3
	Faces     [][3]uint32
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2 // nil when the mesh is untextured
	Tangents  []mgl32.Vec3 // set by CalculateNormals when TexCoords exist
	Binormals []mgl32.Vec3
	Material  material.Material
	Textures  []uint32 // shared GPU texture handles, the first is bound to unit 0
	Bounds    Bounds

	buffers  gpu.Mesh
	uploaded bool
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], o.Min[i])
		b.Max[i] = max(b.Max[i], o.Max[i])
	}
	return b
}
