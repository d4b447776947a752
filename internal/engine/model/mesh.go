package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/material"
	"github.com/Faultbox/phongview/internal/logger"
)

// NewMesh builds a mesh. When normals is nil they are computed from the faces.
func NewMesh(name string, vertices []mgl32.Vec3, faces [][3]uint32, normals []mgl32.Vec3, texCoords []mgl32.Vec2, mat material.Material) (*Mesh, error) {
	for i, f := range faces {
		for _, idx := range f {
			if int(idx) >= len(vertices) {
				return nil, fmt.Errorf("mesh %s: face %d references vertex %d of %d", name, i, idx, len(vertices))
			}
		}
	}
	if normals != nil && len(normals) != len(vertices) {
		return nil, fmt.Errorf("mesh %s: %d normals for %d vertices", name, len(normals), len(vertices))
	}
	if texCoords != nil && len(texCoords) != len(vertices) {
		return nil, fmt.Errorf("mesh %s: %d texture coordinates for %d vertices", name, len(texCoords), len(vertices))
	}

	m := &Mesh{
		Name:      name,
		Vertices:  vertices,
		Faces:     faces,
		Normals:   normals,
		TexCoords: texCoords,
		Material:  mat,
		Bounds:    computeBounds(vertices),
	}
	if normals == nil {
		m.CalculateNormals()
	}

	logger.Named("model").Debug("mesh created",
		zap.String("mesh", name),
		zap.Int("vertices", len(vertices)),
		zap.Int("faces", len(faces)),
		zap.String("material", mat.Name),
	)
	return m, nil
}

// CalculateNormals sets each vertex normal to the normalised sum of the
// normals of the faces it belongs to. Face normals are not normalised before
// summing, so larger faces weigh more. When texture coordinates exist the
// tangents and binormals (the U and V directions) are accumulated the same way.
func (m *Mesh) CalculateNormals() {
	m.Normals = make([]mgl32.Vec3, len(m.Vertices))
	textured := m.TexCoords != nil
	if textured {
		m.Tangents = make([]mgl32.Vec3, len(m.Vertices))
		m.Binormals = make([]mgl32.Vec3, len(m.Vertices))
	}

	for _, f := range m.Faces {
		a := m.Vertices[f[1]].Sub(m.Vertices[f[0]])
		b := m.Vertices[f[2]].Sub(m.Vertices[f[0]])
		normal := a.Cross(b)

		var tangent, binormal mgl32.Vec3
		if textured {
			ta := m.TexCoords[f[1]].Sub(m.TexCoords[f[0]])
			tb := m.TexCoords[f[2]].Sub(m.TexCoords[f[0]])
			tangent = a.Mul(tb[1]).Sub(b.Mul(ta[1]))
			binormal = b.Mul(ta[0]).Sub(a.Mul(tb[0]))
			if ta[0]*tb[1]-tb[0]*ta[1] < 0 {
				tangent, binormal = tangent.Mul(-1), binormal.Mul(-1)
			}
		}

		for _, idx := range f {
			m.Normals[idx] = m.Normals[idx].Add(normal)
			if textured {
				m.Tangents[idx] = m.Tangents[idx].Add(tangent)
				m.Binormals[idx] = m.Binormals[idx].Add(binormal)
			}
		}
	}

	for i := range m.Normals {
		m.Normals[i] = normalize(m.Normals[i])
		if textured {
			m.Tangents[i] = normalize(m.Tangents[i])
			m.Binormals[i] = normalize(m.Binormals[i])
		}
	}
}

// HasTexture reports whether a texture has been attached to the mesh.
func (m *Mesh) HasTexture() bool {
	return len(m.Textures) > 0
}

// Data flattens the mesh into GPU buffer layout.
func (m *Mesh) Data() gpu.MeshData {
	data := gpu.MeshData{
		Positions: make([]float32, 0, 3*len(m.Vertices)),
		Normals:   make([]float32, 0, 3*len(m.Normals)),
		Indices:   make([]uint32, 0, 3*len(m.Faces)),
	}
	for _, v := range m.Vertices {
		data.Positions = append(data.Positions, v[:]...)
	}
	for _, n := range m.Normals {
		data.Normals = append(data.Normals, n[:]...)
	}
	if m.TexCoords != nil {
		data.TexCoords = make([]float32, 0, 2*len(m.TexCoords))
		for _, t := range m.TexCoords {
			data.TexCoords = append(data.TexCoords, t[:]...)
		}
	}
	data.Tangents = flatten(m.Tangents)
	data.Binormals = flatten(m.Binormals)
	for _, f := range m.Faces {
		data.Indices = append(data.Indices, f[:]...)
	}
	return data
}

func flatten(vs []mgl32.Vec3) []float32 {
	if vs == nil {
		return nil
	}
	out := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, v[:]...)
	}
	return out
}

// Upload sends the mesh buffers to the GPU. Uploading twice is a no-op.
func (m *Mesh) Upload(ctx gpu.Buffers) error {
	if m.uploaded {
		return nil
	}
	buf, err := ctx.UploadMesh(m.Data())
	if err != nil {
		return fmt.Errorf("uploading mesh %s: %w", m.Name, err)
	}
	m.buffers = buf
	m.uploaded = true
	return nil
}

// Release frees the GPU buffers and detaches the textures. Textures may be
// shared between meshes and are deleted by whoever loaded them.
func (m *Mesh) Release(ctx gpu.Buffers) {
	if m.uploaded {
		ctx.DeleteMesh(m.buffers)
		m.uploaded = false
	}
	m.Textures = nil
}
