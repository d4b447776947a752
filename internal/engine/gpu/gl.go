package gpu

import (
	"fmt"
	"image"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/logger"
)

// GL is the OpenGL 4.1 core implementation of Context.
type GL struct {
	log *zap.Logger
}

// NewGL loads the OpenGL function pointers and sets the default pipeline state.
// IMPORTANT: Must be called AFTER the window's OpenGL context is current!
func NewGL(clearColor mgl32.Vec3) (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	g := &GL{log: logger.Named("gpu")}
	g.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	g.SetClearColor(clearColor)

	return g, nil
}

// UseProgram activates a compiled program.
func (g *GL) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// UniformLocation returns the location of name in program, or -1.
func (g *GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (g *GL) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (g *GL) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (g *GL) Uniform2fv(location int32, v mgl32.Vec2) {
	gl.Uniform2fv(location, 1, &v[0])
}

func (g *GL) Uniform3fv(location int32, v mgl32.Vec3) {
	gl.Uniform3fv(location, 1, &v[0])
}

func (g *GL) Uniform4fv(location int32, v mgl32.Vec4) {
	gl.Uniform4fv(location, 1, &v[0])
}

func (g *GL) UniformMatrix3fv(location int32, transpose bool, m [9]float32) {
	gl.UniformMatrix3fv(location, 1, transpose, &m[0])
}

func (g *GL) UniformMatrix4fv(location int32, transpose bool, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, transpose, &m[0])
}

// CompileProgram compiles vertex and fragment shaders, binds the attribute
// locations and links them into a program.
func (g *GL) CompileProgram(vertexSrc, fragmentSrc string, attributes map[string]uint32) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)

	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		gl.BindAttribLocation(program, attributes[name], gl.Str(name+"\x00"))
		g.log.Debug("bound attribute", zap.String("name", name), zap.Uint32("location", attributes[name]))
	}

	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// DeleteProgram releases a program.
func (g *GL) DeleteProgram(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// UploadMesh creates a VAO with one buffer per attribute plus an index buffer.
func (g *GL) UploadMesh(data MeshData) (Mesh, error) {
	if len(data.Positions) == 0 || len(data.Indices) == 0 {
		return Mesh{}, fmt.Errorf("upload mesh: empty geometry")
	}

	var m Mesh
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	attrib := func(values []float32, location uint32, size int32) {
		if len(values) == 0 {
			return
		}
		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(values)*4, gl.Ptr(values), gl.STATIC_DRAW)
		gl.VertexAttribPointer(location, size, gl.FLOAT, false, 0, nil)
		gl.EnableVertexAttribArray(location)
		m.Buffers = append(m.Buffers, vbo)
	}
	attrib(data.Positions, AttribPosition, 3)
	attrib(data.Normals, AttribNormal, 3)
	attrib(data.TexCoords, AttribTexCoord, 2)
	attrib(data.Tangents, AttribTangent, 3)
	attrib(data.Binormals, AttribBinormal, 3)

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)
	m.Buffers = append(m.Buffers, ebo)
	m.IndexCount = int32(len(data.Indices))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	g.log.Debug("mesh uploaded",
		zap.Uint32("vao", m.VAO),
		zap.Int32("indices", m.IndexCount),
	)
	return m, nil
}

// DrawMesh draws indexed triangles with the currently bound program.
func (g *GL) DrawMesh(mesh Mesh) {
	gl.BindVertexArray(mesh.VAO)
	gl.DrawElements(gl.TRIANGLES, mesh.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DeleteMesh releases the mesh buffers.
func (g *GL) DeleteMesh(mesh Mesh) {
	if len(mesh.Buffers) > 0 {
		gl.DeleteBuffers(int32(len(mesh.Buffers)), &mesh.Buffers[0])
	}
	if mesh.VAO != 0 {
		gl.DeleteVertexArrays(1, &mesh.VAO)
	}
}

// UploadTexture uploads an RGBA image with mipmaps and repeat wrapping.
func (g *GL) UploadTexture(img *image.NRGBA) (uint32, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0, fmt.Errorf("upload texture: empty image")
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return tex, nil
}

// BindTexture binds texture to the given texture unit.
func (g *GL) BindTexture(unit int32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

// DeleteTexture releases a texture.
func (g *GL) DeleteTexture(texture uint32) {
	if texture != 0 {
		gl.DeleteTextures(1, &texture)
	}
}

// Clear clears the colour and depth buffers.
func (g *GL) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport handles window resize.
func (g *GL) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	g.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// SetClearColor sets the background colour.
func (g *GL) SetClearColor(c mgl32.Vec3) {
	gl.ClearColor(c[0], c[1], c[2], 1.0)
}

// SetWireframe switches between line and fill polygon modes.
func (g *GL) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (g *GL) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
