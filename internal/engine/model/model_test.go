package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/phongview/internal/engine/gpu"
	"github.com/Faultbox/phongview/internal/engine/gpu/gputest"
	"github.com/Faultbox/phongview/internal/engine/lighting"
	"github.com/Faultbox/phongview/internal/engine/material"
	"github.com/Faultbox/phongview/internal/engine/shader"
	"github.com/Faultbox/phongview/pkg/matutils"
)

func newModel(t *testing.T, rec *gputest.Recorder) *Model {
	t.Helper()
	vertices, faces := quad()
	mesh, err := NewMesh("quad", vertices, faces, nil, nil, material.Default())
	require.NoError(t, err)

	s := shader.NewPhong("phong", shader.PassThrough())
	require.NoError(t, s.Compile(rec))

	m := New("quad", mesh, s)
	require.NoError(t, m.Upload(rec))
	rec.Reset()
	return m
}

func frame() shader.Frame {
	return shader.Frame{
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
		Mode:       1,
		Light:      lighting.New(mgl32.Vec3{5, 3, -5}),
	}
}

func TestNewModel(t *testing.T) {
	m := newModel(t, gputest.New())
	assert.NotEqual(t, m.ID.String(), New("quad", m.Mesh, m.Shader).ID.String())
	assert.Equal(t, mgl32.Ident4(), m.M)
	assert.Equal(t, material.Default(), m.Material())
}

func TestDrawUntextured(t *testing.T) {
	rec := gputest.New(shader.UniformPVM, shader.UniformHasTexture)
	m := newModel(t, rec)

	require.NoError(t, m.Draw(rec, frame()))

	assert.Empty(t, rec.Named("BindTexture"))
	draws := rec.Named("DrawMesh")
	require.Len(t, draws, 1)
	assert.Equal(t, int32(6), draws[0].Value.(gpu.Mesh).IndexCount)

	c, ok := rec.At(shader.UniformHasTexture)
	require.True(t, ok)
	assert.Equal(t, int32(0), c.Value)
}

func TestDrawTextured(t *testing.T) {
	rec := gputest.New(shader.UniformHasTexture)
	m := newModel(t, rec)
	m.Mesh.Textures = []uint32{42}

	require.NoError(t, m.Draw(rec, frame()))

	binds := rec.Named("BindTexture")
	require.Len(t, binds, 1)
	assert.Equal(t, int32(0), binds[0].Location)
	assert.Equal(t, uint32(42), binds[0].Value)

	c, _ := rec.At(shader.UniformHasTexture)
	assert.Equal(t, int32(1), c.Value)
}

func TestDrawSingularModelMatrix(t *testing.T) {
	rec := gputest.New()
	m := newModel(t, rec)
	m.M = matutils.Scale(mgl32.Vec3{0, 1, 1})

	err := m.Draw(rec, frame())
	assert.ErrorIs(t, err, matutils.ErrSingular)
	assert.Empty(t, rec.Named("DrawMesh"))
}

func TestDrawBeforeUpload(t *testing.T) {
	rec := gputest.New()
	vertices, faces := quad()
	mesh, err := NewMesh("quad", vertices, faces, nil, nil, material.Default())
	require.NoError(t, err)

	m := New("quad", mesh, shader.NewBase("", shader.PassThrough()))
	assert.Error(t, m.Draw(rec, frame()))
}

func TestUploadOnceAndRelease(t *testing.T) {
	rec := gputest.New()
	m := newModel(t, rec)
	m.Mesh.Textures = []uint32{7}

	require.NoError(t, m.Upload(rec))
	assert.Empty(t, rec.Named("UploadMesh"))

	m.Release(rec)
	assert.Len(t, rec.Named("DeleteMesh"), 1)
	assert.Empty(t, rec.Named("DeleteTexture"))
	assert.False(t, m.HasTexture())
}

func TestUploadSendsTangentFrame(t *testing.T) {
	rec := gputest.New()
	vertices, faces := quad()
	uv := []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	mesh, err := NewMesh("quad", vertices, faces, nil, uv, material.Default())
	require.NoError(t, err)

	require.NoError(t, New("quad", mesh, shader.NewBase("", shader.PassThrough())).Upload(rec))
	require.Len(t, rec.Meshes, 1)
	assert.Equal(t, mesh.Data(), rec.Meshes[0])
	assert.Len(t, rec.Meshes[0].Tangents, 12)
	assert.Len(t, rec.Meshes[0].Binormals, 12)
}
