package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/material"
	"github.com/Faultbox/phongview/internal/engine/shader"
	"github.com/Faultbox/phongview/internal/logger"
)

// Model is a mesh placed in the scene with a model matrix and a shader.
type Model struct {
	ID     uuid.UUID
	Name   string
	Mesh   *Mesh
	M      mgl32.Mat4
	Shader *shader.Shader

	log *zap.Logger
}

// New creates a model at the identity pose.
func New(name string, mesh *Mesh, s *shader.Shader) *Model {
	id := uuid.New()
	return &Model{
		ID:     id,
		Name:   name,
		Mesh:   mesh,
		M:      mgl32.Ident4(),
		Shader: s,
		log: logger.Named("model").With(
			zap.String("model", name),
			zap.Stringer("id", id),
		),
	}
}

// Material returns the mesh material.
func (m *Model) Material() material.Material {
	return m.Mesh.Material
}

// HasTexture reports whether the mesh has a texture bound at draw time.
func (m *Model) HasTexture() bool {
	return m.Mesh.HasTexture()
}

// Upload sends the mesh to the GPU.
func (m *Model) Upload(ctx gpu.Buffers) error {
	if err := m.Mesh.Upload(ctx); err != nil {
		return err
	}
	m.log.Debug("model uploaded", zap.Int("faces", len(m.Mesh.Faces)))
	return nil
}

// Draw binds the shader uniforms for this model and draws its mesh.
// A degenerate model matrix is returned as an error.
func (m *Model) Draw(ctx gpu.Context, f shader.Frame) error {
	if !m.Mesh.uploaded {
		return fmt.Errorf("drawing %s: mesh not uploaded", m.Name)
	}
	if err := m.Shader.Bind(ctx, f, m, m.M); err != nil {
		return fmt.Errorf("drawing %s: %w", m.Name, err)
	}
	if m.HasTexture() {
		ctx.BindTexture(0, m.Mesh.Textures[0])
	}
	ctx.DrawMesh(m.Mesh.buffers)
	return nil
}

// Release frees the mesh GPU resources.
func (m *Model) Release(ctx gpu.Buffers) {
	m.Mesh.Release(ctx)
}
