// Package gpu defines the graphics context handle the engine draws through.
//
// Every uniform, program, buffer and texture call goes through a Context that
// is passed down explicitly from the render loop. Only the render thread that
// owns the window's GL context may hold and use one.
package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex attribute locations bound before linking every program.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
	AttribTexCoord uint32 = 2
	AttribTangent  uint32 = 3
	AttribBinormal uint32 = 4
)

// DefaultAttributes maps GLSL input names to attribute locations.
func DefaultAttributes() map[string]uint32 {
	return map[string]uint32{
		"position":  AttribPosition,
		"normal":    AttribNormal,
		"tex_coord": AttribTexCoord,
		"tangent":   AttribTangent,
		"binormal":  AttribBinormal,
	}
}

// Uniforms is the subset of the context used to resolve and push uniform values.
type Uniforms interface {
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2fv(location int32, v mgl32.Vec2)
	Uniform3fv(location int32, v mgl32.Vec3)
	Uniform4fv(location int32, v mgl32.Vec4)
	UniformMatrix3fv(location int32, transpose bool, m [9]float32)
	UniformMatrix4fv(location int32, transpose bool, m [16]float32)
}

// Programs compiles and releases shader programs.
type Programs interface {
	CompileProgram(vertexSrc, fragmentSrc string, attributes map[string]uint32) (uint32, error)
	DeleteProgram(program uint32)
}

// MeshData is interleaving-free vertex data ready for upload.
// Every stream except Positions and Indices may be empty.
type MeshData struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Tangents  []float32
	Binormals []float32
	Indices   []uint32
}

// Mesh is a handle to uploaded geometry.
type Mesh struct {
	VAO        uint32
	Buffers    []uint32
	IndexCount int32
}

// Buffers uploads and draws geometry.
type Buffers interface {
	UploadMesh(data MeshData) (Mesh, error)
	DrawMesh(mesh Mesh)
	DeleteMesh(mesh Mesh)
}

// Textures uploads and binds 2D textures.
type Textures interface {
	UploadTexture(img *image.NRGBA) (uint32, error)
	BindTexture(unit int32, texture uint32)
	DeleteTexture(texture uint32)
}

// Frame controls per-frame pipeline state.
type Frame interface {
	Clear()
	Viewport(width, height int)
	SetClearColor(c mgl32.Vec3)
	SetWireframe(enabled bool)
	ReadPixels(width, height int) []byte
}

// Context is the full graphics context handle.
type Context interface {
	Uniforms
	Programs
	Buffers
	Textures
	Frame
}
